package model

// ErrorResponse is the consistent JSON structure for all API error responses.
// Code is the error kind, for example "validation" or "insufficient_balance".
// Signature is set when a transfer was submitted but not confirmed.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Signature string `json:"signature,omitempty"`
}
