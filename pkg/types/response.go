package types

// ErrorResponse is the wire shape for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// AckResponse acknowledges webhook deliveries.
type AckResponse struct {
	Status string `json:"status"`
}

// SuccessEnvelope wraps endpoints that return a success flag plus data.
type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}
