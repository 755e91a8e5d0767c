// Package paystack wraps the Paystack REST API with centralized auth,
// logging, and error mapping. Amounts cross this boundary in rands; the
// conversion to the provider's minor units happens here and nowhere else.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/masego-dev/kasieats-backend/pkg/config"
	pkgerrors "github.com/masego-dev/kasieats-backend/pkg/errors"
	"github.com/masego-dev/kasieats-backend/pkg/logger"
)

const (
	testEnv = "test"
	liveEnv = "live"
)

var (
	errSecretKeyRequired     = errors.New("paystack secret key is required")
	errWebhookSecretRequired = errors.New("paystack webhook secret is required")
	errInvalidPaystackEnv    = fmt.Errorf("paystack environment must be %q or %q", testEnv, liveEnv)
	errLoggerRequired        = errors.New("paystack logger is required")
)

// Client exposes the Paystack transaction primitives the storefront needs.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	secretKey     string
	webhookSecret string
	environment   string
	logger        *logger.Logger
}

// NewClient validates the credentials and initializes the Paystack wrapper.
func NewClient(ctx context.Context, cfg config.PaystackConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	secretKey := strings.TrimSpace(cfg.SecretKey)
	if secretKey == "" {
		return nil, errSecretKeyRequired
	}
	if env == liveEnv && strings.HasPrefix(secretKey, "sk_test_") {
		return nil, fmt.Errorf("test secret key supplied for live environment")
	}

	webhookSecret := strings.TrimSpace(cfg.WebhookSecret)
	if webhookSecret == "" {
		return nil, errWebhookSecretRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		environment:   env,
		logger:        logg,
	}

	logg.Info(ctx, "paystack client initialized")
	return c, nil
}

// Environment reports the normalized Paystack environment.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// SigningSecret returns the webhook signing secret.
func (c *Client) SigningSecret() string {
	if c == nil {
		return ""
	}
	return c.webhookSecret
}

// Initialize creates a hosted checkout session and returns the redirect URL.
func (c *Client) Initialize(ctx context.Context, params InitializeParams) (*InitializeResult, error) {
	req := initializeRequest{
		Email:       params.Email,
		Amount:      toMinorUnits(params.Amount),
		Currency:    params.Currency,
		Reference:   params.Reference,
		CallbackURL: params.CallbackURL,
		Metadata:    params.Metadata,
	}
	c.log(ctx, "request", "initialize_transaction", map[string]any{
		"reference": params.Reference,
		"amount":    req.Amount,
		"currency":  params.Currency,
	})

	var resp initializeResponse
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", req, &resp); err != nil {
		c.log(ctx, "error", "initialize_transaction", map[string]any{"error": err.Error()})
		return nil, err
	}
	if !resp.Status {
		err := pkgerrors.New(pkgerrors.CodeGateway, fmt.Sprintf("paystack initialize failed: %s", resp.Message))
		c.log(ctx, "error", "initialize_transaction", map[string]any{"error": resp.Message})
		return nil, err
	}

	c.log(ctx, "response", "initialize_transaction", map[string]any{
		"reference":   resp.Data.Reference,
		"access_code": resp.Data.AccessCode,
	})
	return &InitializeResult{
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
		Reference:        resp.Data.Reference,
	}, nil
}

// Verify fetches the provider-side state of a transaction by reference.
func (c *Client) Verify(ctx context.Context, reference string) (*Transaction, error) {
	c.log(ctx, "request", "verify_transaction", map[string]any{"reference": reference})

	var resp verifyResponse
	path := "/transaction/verify/" + url.PathEscape(reference)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		c.log(ctx, "error", "verify_transaction", map[string]any{"error": err.Error()})
		return nil, err
	}
	if !resp.Status {
		err := pkgerrors.New(pkgerrors.CodeGateway, fmt.Sprintf("paystack verify failed: %s", resp.Message))
		c.log(ctx, "error", "verify_transaction", map[string]any{"error": resp.Message})
		return nil, err
	}

	txn := toTransaction(resp.Data)
	c.log(ctx, "response", "verify_transaction", map[string]any{
		"reference": txn.Reference,
		"status":    string(txn.Status),
	})
	return txn, nil
}

// Refund issues a refund against a settled transaction.
func (c *Client) Refund(ctx context.Context, params RefundParams) (*Refund, error) {
	req := refundRequest{
		Transaction:  params.TransactionID,
		MerchantNote: params.Reason,
	}
	if !params.Amount.IsZero() {
		req.Amount = toMinorUnits(params.Amount)
	}
	c.log(ctx, "request", "create_refund", map[string]any{
		"transaction_id": params.TransactionID,
		"amount":         req.Amount,
	})

	var resp refundResponse
	if err := c.do(ctx, http.MethodPost, "/refund", req, &resp); err != nil {
		c.log(ctx, "error", "create_refund", map[string]any{"error": err.Error()})
		return nil, err
	}
	if !resp.Status {
		err := pkgerrors.New(pkgerrors.CodeGateway, fmt.Sprintf("paystack refund failed: %s", resp.Message))
		c.log(ctx, "error", "create_refund", map[string]any{"error": resp.Message})
		return nil, err
	}

	c.log(ctx, "response", "create_refund", map[string]any{
		"refund_id": resp.Data.ID,
		"status":    resp.Data.Status,
	})
	return &Refund{
		ID:            resp.Data.ID,
		TransactionID: resp.Data.Transaction.ID,
		Amount:        fromMinorUnits(resp.Data.Amount),
		Currency:      resp.Data.Currency,
		Status:        resp.Data.Status,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode paystack request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build paystack request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "paystack request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "read paystack response")
	}

	if resp.StatusCode >= 400 {
		return c.mapHTTPError(resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "decode paystack response")
	}
	return nil
}

func (c *Client) mapHTTPError(status int, raw []byte) error {
	message := "paystack request rejected"
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		message = fmt.Sprintf("paystack request rejected: %s", env.Message)
	}

	code := pkgerrors.CodeGateway
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = pkgerrors.CodeUnauthorized
	case http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	}
	return pkgerrors.New(code, message).WithDetails(map[string]any{"http_status": status})
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("paystack %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("paystack %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"secret", "token", "email", "phone", "authorization"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func toTransaction(data transactionData) *Transaction {
	txn := &Transaction{
		ID:              data.ID,
		Status:          TransactionStatus(data.Status),
		Reference:       data.Reference,
		Amount:          fromMinorUnits(data.Amount),
		Currency:        data.Currency,
		Channel:         data.Channel,
		GatewayResponse: data.GatewayResponse,
		CustomerEmail:   data.Customer.Email,
	}
	if data.PaidAt != "" {
		if paidAt, err := time.Parse(time.RFC3339, data.PaidAt); err == nil {
			txn.PaidAt = &paidAt
		}
	}
	return txn
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidPaystackEnv
	}
}
