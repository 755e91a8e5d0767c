package paystack

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Webhook event types the reconciler dispatches on.
const (
	WebhookChargeSuccess = "charge.success"
	WebhookChargeFailed  = "charge.failed"
)

// SignatureHeader is the header carrying the hex HMAC-SHA512 of the raw body.
const SignatureHeader = "x-paystack-signature"

// WebhookEvent is the payload Paystack POSTs to the webhook endpoint.
type WebhookEvent struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

// WebhookData is the transaction snapshot inside a webhook event. Amount is
// in the provider's minor units as delivered on the wire.
type WebhookData struct {
	ID              int64          `json:"id"`
	Reference       string         `json:"reference"`
	Amount          int64          `json:"amount"`
	Currency        string         `json:"currency"`
	Channel         string         `json:"channel"`
	Status          string         `json:"status"`
	GatewayResponse string         `json:"gateway_response"`
	PaidAtRaw       string         `json:"paid_at"`
	Metadata        map[string]any `json:"metadata"`
}

// AmountRands converts the wire amount back to rands.
func (d WebhookData) AmountRands() decimal.Decimal {
	return fromMinorUnits(d.Amount)
}

// PaidAt parses the provider timestamp, returning nil when absent or malformed.
func (d WebhookData) PaidAt() *time.Time {
	if d.PaidAtRaw == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, d.PaidAtRaw)
	if err != nil {
		return nil
	}
	return &parsed
}

// OrderID extracts the order correlation id the checkout flow placed in the
// transaction metadata. Empty when the provider stripped or never had it.
func (d WebhookData) OrderID() string {
	if d.Metadata == nil {
		return ""
	}
	if id, ok := d.Metadata["order_id"].(string); ok {
		return id
	}
	return ""
}

// ParseWebhookEvent decodes a verified raw body into a WebhookEvent.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
