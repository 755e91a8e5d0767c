package paystack

import (
	"time"

	"github.com/shopspring/decimal"
)

// InitializeParams starts a hosted checkout for an order total.
// Amount is in rands; the client converts to minor units on the wire.
type InitializeParams struct {
	Email       string
	Amount      decimal.Decimal
	Currency    string
	Reference   string
	CallbackURL string
	Metadata    map[string]any
}

// InitializeResult is the subset of the initialize response the caller needs.
type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// TransactionStatus is the provider-side outcome of a transaction.
type TransactionStatus string

const (
	TransactionSuccess   TransactionStatus = "success"
	TransactionFailed    TransactionStatus = "failed"
	TransactionAbandoned TransactionStatus = "abandoned"
	TransactionPending   TransactionStatus = "pending"
)

// Transaction is a verified transaction with amounts converted back to rands.
type Transaction struct {
	ID              int64
	Status          TransactionStatus
	Reference       string
	Amount          decimal.Decimal
	Currency        string
	Channel         string
	GatewayResponse string
	PaidAt          *time.Time
	CustomerEmail   string
}

// RefundParams requests a refund against a settled transaction.
// A zero Amount refunds the full transaction.
type RefundParams struct {
	TransactionID int64
	Amount        decimal.Decimal
	Reason        string
}

// Refund is the provider's record of an issued refund.
type Refund struct {
	ID            int64
	TransactionID int64
	Amount        decimal.Decimal
	Currency      string
	Status        string
}

type envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

type initializeRequest struct {
	Email       string         `json:"email"`
	Amount      int64          `json:"amount"`
	Currency    string         `json:"currency"`
	Reference   string         `json:"reference"`
	CallbackURL string         `json:"callback_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type initializeResponse struct {
	envelope
	Data struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type transactionData struct {
	ID              int64  `json:"id"`
	Status          string `json:"status"`
	Reference       string `json:"reference"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Channel         string `json:"channel"`
	GatewayResponse string `json:"gateway_response"`
	PaidAt          string `json:"paid_at"`
	Customer        struct {
		Email string `json:"email"`
	} `json:"customer"`
}

type verifyResponse struct {
	envelope
	Data transactionData `json:"data"`
}

type refundRequest struct {
	Transaction  int64  `json:"transaction"`
	Amount       int64  `json:"amount,omitempty"`
	MerchantNote string `json:"merchant_note,omitempty"`
}

type refundResponse struct {
	envelope
	Data struct {
		ID          int64 `json:"id"`
		Transaction struct {
			ID int64 `json:"id"`
		} `json:"transaction"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Status   string `json:"status"`
	} `json:"data"`
}

// toMinorUnits converts a rand amount to integer cents for the wire.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).IntPart()
}

// fromMinorUnits converts integer cents from the wire back to rands.
func fromMinorUnits(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Shift(-2)
}
