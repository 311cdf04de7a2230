// Package codec contains the pure encode/decode helpers shared by the key,
// metadata and transaction code: base58, base64, hex and length-prefixed
// binary fields.
package codec

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
)

// EncodeBase58 encodes b with the Bitcoin alphabet used for Solana keys.
func EncodeBase58(b []byte) string {
	return base58.Encode(b)
}

// DecodeBase58 decodes a base58 string.
func DecodeBase58(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base58: %w", err)
	}
	return b, nil
}

// EncodeBase64 encodes b with standard padding.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBase64 decodes a standard base64 string.
func DecodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	return b, nil
}

// EncodeHex returns lowercase hex.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeHex decodes a hex string of any case.
func DecodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return b, nil
}

// DecodeAccountData decodes the RPC account data tuple [payload, encoding].
// Only "base64" and "base58" encodings are understood; anything else returns
// nil without error, as there is nothing to decode.
func DecodeAccountData(data []string) ([]byte, error) {
	if len(data) != 2 {
		return nil, nil
	}
	switch data[1] {
	case "base64":
		return DecodeBase64(data[0])
	case "base58":
		return DecodeBase58(data[0])
	}
	return nil, nil
}
