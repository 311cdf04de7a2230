package solana

import (
	"strings"

	"github.com/AlexZinkM/solwallet/internal/errs"
	"github.com/AlexZinkM/solwallet/internal/keys"
	"github.com/AlexZinkM/solwallet/internal/validate"
)

// ResolveSigner returns the keypair that signs for address. A stored
// private key is used when present. Watch-only wallets need secret: a
// mnemonic is re-derived and must belong to address; a raw key must too.
func ResolveSigner(address, privateKeyHex, secret string) (*keys.KeyPair, error) {
	const op = "solana.ResolveSigner"

	address = strings.TrimSpace(address)
	if !validate.IsValidAddress(address) {
		return nil, errs.Validation(op, "invalid address %q", address)
	}

	if privateKeyHex = strings.TrimSpace(privateKeyHex); privateKeyHex != "" {
		kp, err := keys.ImportFromPrivateKey(privateKeyHex)
		if err != nil {
			return nil, err
		}
		return matchAddress(op, kp, address)
	}

	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errs.Validation(op, "wallet %s is watch-only: a mnemonic or private key is required", address)
	}
	if validate.IsValidMnemonic(secret) {
		return keys.RecoverForAddress(secret, address)
	}

	kp, err := importSecret(op, secret)
	if err != nil {
		return nil, err
	}
	return matchAddress(op, kp, address)
}

func matchAddress(op string, kp *keys.KeyPair, address string) (*keys.KeyPair, error) {
	if kp.Address != address {
		return nil, errs.Newf(errs.KindInvalidSecretKey, op, "key derives %s, not %s", kp.Address, address)
	}
	return kp, nil
}
