package model

// TokenMetadata is a decoded name/symbol/uri descriptor. Fields that could
// not be decoded are empty strings.
type TokenMetadata struct {
	UpdateAuthority string `json:"update_authority"`
	Mint            string `json:"mint"`
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	URI             string `json:"uri"`
}

// IsZero reports whether nothing was decoded.
func (m TokenMetadata) IsZero() bool {
	return m == TokenMetadata{}
}

// TokenAccountInfo is one mint held by an owner on one network. The two
// metadata sources are kept apart because they may disagree.
type TokenAccountInfo struct {
	Mint             string        `json:"mint"`
	ProgramID        string        `json:"program_id"`
	Account          string        `json:"account"`
	Owner            string        `json:"owner"`
	Amount           uint64        `json:"amount"`
	Decimals         uint8         `json:"decimals"`
	UIAmount         string        `json:"ui_amount"`
	MetadataAddress  string        `json:"metadata_address"`
	Metadata2022     TokenMetadata `json:"metadata_2022"`
	MetadataMetaplex TokenMetadata `json:"metadata_metaplex"`
}

// NetworkBalanceSnapshot is the balance of one address on one endpoint.
// Lamports is nil when the native balance could not be fetched; Errors
// lists every step that degraded.
type NetworkBalanceSnapshot struct {
	Network  string             `json:"network"`
	Lamports *uint64            `json:"lamports"`
	SOL      string             `json:"sol"`
	Tokens   []TokenAccountInfo `json:"tokens"`
	Errors   []string           `json:"errors,omitempty"`
}

// BalanceResponse represents response for GET /balance
type BalanceResponse struct {
	Address   string                   `json:"address"`
	Currency  string                   `json:"currency,omitempty"`
	Price     string                   `json:"price,omitempty"`
	Snapshots []NetworkBalanceSnapshot `json:"snapshots"`
}
