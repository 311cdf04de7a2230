// Package validate holds the input predicates that gate every mutating
// operation before it reaches the network.
package validate

import (
	"strings"

	"github.com/AlexZinkM/solwallet/internal/codec"
	"github.com/AlexZinkM/solwallet/internal/common"
)

// IsValidAddress reports whether s is base58 decoding to exactly 32 bytes.
func IsValidAddress(s string) bool {
	if s == "" {
		return false
	}
	b, err := codec.DecodeBase58(s)
	return err == nil && len(b) == 32
}

// IsValidPrivateKey reports whether s is exactly 64 hex characters.
func IsValidPrivateKey(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := codec.DecodeHex(s)
	return err == nil
}

// IsValidMnemonic reports whether s has 12 or 24 whitespace-separated words.
// The BIP39 checksum is not checked here.
func IsValidMnemonic(s string) bool {
	n := len(strings.Fields(s))
	return n == 12 || n == 24
}

// IsValidAmount reports whether s parses as a positive finite decimal.
func IsValidAmount(s string) bool {
	_, err := common.ParseAmount(s)
	return err == nil
}
