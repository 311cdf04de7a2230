// Package keys derives and imports the Ed25519 keypairs that back a wallet.
//
// Mnemonics follow BIP39 with an empty passphrase; the private key is taken
// from SLIP-10 hardened derivation at DerivationPath.
package keys

import (
	"bytes"
	"crypto/ed25519"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/tyler-smith/go-bip39"

	"github.com/AlexZinkM/solwallet/internal/codec"
	"github.com/AlexZinkM/solwallet/internal/errs"
	"github.com/AlexZinkM/solwallet/internal/validate"
)

// MnemonicEntropyBits yields a 12-word mnemonic.
const MnemonicEntropyBits = 128

// MaxRecoverAttempts bounds RecoverForAddress.
const MaxRecoverAttempts = 10

// KeyPair is a derived or imported keypair in every encoding a wallet
// record needs. Mnemonic is empty for raw key imports.
type KeyPair struct {
	Mnemonic        string
	Address         string
	SecretKeyBase58 string
	PrivateKeyHex   string
	PublicKeyHex    string

	private solana.PrivateKey
}

// PrivateKey returns the 64-byte solana secret key (private scalar followed
// by public key), ready for signing.
func (k *KeyPair) PrivateKey() solana.PrivateKey {
	return k.private
}

// PublicKey returns the wallet address as a solana public key.
func (k *KeyPair) PublicKey() solana.PublicKey {
	return k.private.PublicKey()
}

// fromSeed32 expands a 32-byte ed25519 seed into a KeyPair.
func fromSeed32(seed32 []byte) *KeyPair {
	priv := ed25519.NewKeyFromSeed(seed32)
	pub := priv.Public().(ed25519.PublicKey)
	return &KeyPair{
		Address:         codec.EncodeBase58(pub),
		SecretKeyBase58: codec.EncodeBase58(priv),
		PrivateKeyHex:   codec.EncodeHex(seed32),
		PublicKeyHex:    codec.EncodeHex(pub),
		private:         solana.PrivateKey(priv),
	}
}

// Generate creates a new 12-word mnemonic and derives its keypair.
func Generate() (*KeyPair, error) {
	const op = "keys.Generate"

	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, op, err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, op, err)
	}
	return ImportFromMnemonic(mnemonic)
}

// SeedFromMnemonic returns the 64-byte BIP39 seed for words with an empty
// passphrase. Words are joined by single spaces first.
func SeedFromMnemonic(words string) []byte {
	return bip39.NewSeed(normalizeMnemonic(words), "")
}

func normalizeMnemonic(words string) string {
	return strings.Join(strings.Fields(words), " ")
}

// ImportFromMnemonic derives the keypair for a 12 or 24 word phrase. The
// BIP39 checksum is not verified: any phrase of the right length derives
// some key.
func ImportFromMnemonic(words string) (*KeyPair, error) {
	const op = "keys.ImportFromMnemonic"

	if !validate.IsValidMnemonic(words) {
		return nil, errs.Validation(op, "mnemonic must have 12 or 24 words, got %d", len(strings.Fields(words)))
	}
	mnemonic := normalizeMnemonic(words)

	key, err := DerivePrivateKey(bip39.NewSeed(mnemonic, ""), DerivationPath)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, op, err)
	}
	kp := fromSeed32(key)
	kp.Mnemonic = mnemonic
	return kp, nil
}

// ImportFromPrivateKey imports a 32-byte private scalar given as 64 hex chars.
func ImportFromPrivateKey(hex64 string) (*KeyPair, error) {
	const op = "keys.ImportFromPrivateKey"

	hex64 = strings.TrimSpace(hex64)
	if !validate.IsValidPrivateKey(hex64) {
		return nil, errs.Validation(op, "private key must be 64 hex characters")
	}
	raw, err := codec.DecodeHex(hex64)
	if err != nil {
		return nil, errs.Wrap(errs.KindValidation, op, err)
	}
	return fromSeed32(raw), nil
}

// ImportFromSecretKey imports a base58 secret key of 64 bytes, private
// scalar followed by public key. The embedded public key must match the one
// computed from the scalar.
func ImportFromSecretKey(b58 string) (*KeyPair, error) {
	const op = "keys.ImportFromSecretKey"

	raw, err := codec.DecodeBase58(strings.TrimSpace(b58))
	if err != nil {
		return nil, errs.Wrap(errs.KindValidation, op, err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errs.Validation(op, "secret key must decode to 64 bytes, got %d", len(raw))
	}

	kp := fromSeed32(raw[:32])
	if !bytes.Equal(kp.private[32:], raw[32:]) {
		return nil, errs.New(errs.KindInvalidSecretKey, op, "public key does not match private key")
	}
	return kp, nil
}

// RecoverForAddress re-derives the keypair of a watch-only wallet from words
// and checks it owns expected. A mismatch fails immediately with
// KindNotFound; only derivation failures are retried, at most
// MaxRecoverAttempts times.
func RecoverForAddress(words, expected string) (*KeyPair, error) {
	return recoverForAddress(words, expected, ImportFromMnemonic)
}

func recoverForAddress(words, expected string, derive func(string) (*KeyPair, error)) (*KeyPair, error) {
	const op = "keys.RecoverForAddress"

	if !validate.IsValidAddress(expected) {
		return nil, errs.Validation(op, "invalid address %q", expected)
	}

	var lastErr error
	for attempt := 0; attempt < MaxRecoverAttempts; attempt++ {
		kp, err := derive(words)
		if err != nil {
			if errs.Is(err, errs.KindValidation) {
				return nil, err
			}
			lastErr = err
			continue
		}
		if kp.Address != expected {
			return nil, errs.Newf(errs.KindNotFound, op, "mnemonic does not belong to %s", expected)
		}
		return kp, nil
	}
	return nil, errs.Wrap(errs.KindNotFound, op, lastErr)
}
