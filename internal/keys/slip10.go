package keys

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
)

const (
	// HardenedOffset is added to every path index.
	HardenedOffset uint32 = 0x80000000

	// curveSeed is the SLIP-10 domain separation key for ed25519.
	curveSeed = "ed25519 seed"
)

// DerivationPath is the fixed Solana path m/44'/501'/0'/0'.
var DerivationPath = []uint32{44, 501, 0, 0}

// DerivationPathString is DerivationPath in its usual notation.
const DerivationPathString = "m/44'/501'/0'/0'"

func hmacSHA512(key, data []byte) []byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// masterKey splits HMAC-SHA512(curveSeed, seed) into key and chain code.
func masterKey(seed []byte) (key, chainCode []byte) {
	i := hmacSHA512([]byte(curveSeed), seed)
	return i[:32], i[32:]
}

// childKey performs one hardened derivation step. The hardened bit is always
// set, so only private derivation exists.
func childKey(key, chainCode []byte, index uint32) (childKey, childChainCode []byte) {
	data := make([]byte, 0, 1+32+4)
	data = append(data, 0x00)
	data = append(data, key...)
	data = binary.BigEndian.AppendUint32(data, index|HardenedOffset)

	i := hmacSHA512(chainCode, data)
	return i[:32], i[32:]
}

// DerivePrivateKey derives the 32-byte ed25519 private scalar at path.
func DerivePrivateKey(seed []byte, path []uint32) ([]byte, error) {
	if len(seed) < 16 {
		return nil, fmt.Errorf("seed too short: %d bytes", len(seed))
	}
	key, chainCode := masterKey(seed)
	for _, index := range path {
		key, chainCode = childKey(key, chainCode, index)
	}
	out := make([]byte, 32)
	copy(out, key)
	return out, nil
}
