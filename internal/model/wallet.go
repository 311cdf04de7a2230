package model

// WalletRecord is a created or imported wallet exactly as it is persisted.
// PrivateKeyHex and SecretKeyBase58 are empty for watch-only wallets, Words
// is empty for wallets imported from a raw key.
type WalletRecord struct {
	Created         string `json:"created"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	AddressBase58   string `json:"address_base58"`
	PrivateKeyHex   string `json:"private_key_hex"`
	PublicKeyHex    string `json:"public_key_hex"`
	Words           string `json:"words"`
	SecretKeyBase58 string `json:"secret_key_base58"`
}

// WatchOnly reports whether the record cannot sign.
func (r *WalletRecord) WatchOnly() bool {
	return r.PrivateKeyHex == ""
}

// GenerateRequest represents request for POST /wallets/generate
type GenerateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RecoverRequest represents request for POST /wallets/recover. Secret is a
// 12 or 24 word mnemonic, a 64-char hex private key or an 88-char base58
// secret key.
type RecoverRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Secret      string `json:"secret"`
}

// AddressRequest represents request for POST /wallets/address
type AddressRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
}

// SaveWalletResponse represents response for POST /wallets
type SaveWalletResponse struct {
	Key string `json:"key"`
}

// StoredWallet is a record together with its store key.
type StoredWallet struct {
	Key    string       `json:"key"`
	Record WalletRecord `json:"record"`
}

// QRResponse represents response for GET /qr
type QRResponse struct {
	Address string `json:"address"`
	QR      string `json:"qr"` // base64 PNG
}
