package model

// SOLTransferRequest represents request for POST /transfer/sol. Secret is
// only needed when the sending wallet is watch-only.
type SOLTransferRequest struct {
	Network           string `json:"network"`
	From              string `json:"from"`
	PrivateKeyHex     string `json:"private_key_hex,omitempty"`
	Secret            string `json:"secret,omitempty"`
	To                string `json:"to"`
	Amount            string `json:"amount"`
	ConfirmCommitment string `json:"confirm_commitment,omitempty"`
}

// TokenTransferRequest represents request for POST /transfer/token
type TokenTransferRequest struct {
	Network           string `json:"network"`
	From              string `json:"from"`
	PrivateKeyHex     string `json:"private_key_hex,omitempty"`
	Secret            string `json:"secret,omitempty"`
	To                string `json:"to"`
	Mint              string `json:"mint"`
	Amount            string `json:"amount"`
	ConfirmCommitment string `json:"confirm_commitment,omitempty"`
}

// TransferResult represents a confirmed transfer. Balances and Fee are in
// the smallest unit of SOL; Fee is only set for SOL transfers.
type TransferResult struct {
	Signature     string `json:"signature"`
	Commitment    string `json:"commitment"`
	Slot          uint64 `json:"slot"`
	BalanceBefore uint64 `json:"balance_before"`
	BalanceAfter  uint64 `json:"balance_after"`
	Fee           uint64 `json:"fee"`
}

// SignatureStatus represents response for GET /confirm
type SignatureStatus struct {
	Signature     string  `json:"signature"`
	Slot          uint64  `json:"slot"`
	Confirmations *uint64 `json:"confirmations"`
	Commitment    string  `json:"commitment"`
	Err           any     `json:"err,omitempty"`
}
