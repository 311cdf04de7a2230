package solana

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/AlexZinkM/solwallet/internal/codec"
	"github.com/AlexZinkM/solwallet/internal/errs"
	"github.com/AlexZinkM/solwallet/internal/keys"
	"github.com/AlexZinkM/solwallet/internal/log"
	"github.com/AlexZinkM/solwallet/internal/model"
	"github.com/AlexZinkM/solwallet/internal/validate"
)

// CreatedLayout formats WalletRecord.Created.
const CreatedLayout = "2006-01-02 15-04-05"

var timeNow = time.Now

func newRecord(name, description string, kp *keys.KeyPair) *model.WalletRecord {
	return &model.WalletRecord{
		Created:         timeNow().Format(CreatedLayout),
		Name:            name,
		Description:     description,
		AddressBase58:   kp.Address,
		PrivateKeyHex:   kp.PrivateKeyHex,
		PublicKeyHex:    kp.PublicKeyHex,
		Words:           kp.Mnemonic,
		SecretKeyBase58: kp.SecretKeyBase58,
	}
}

// GenerateWallet creates a wallet from a fresh 12-word mnemonic.
func GenerateWallet(name, description string) (*model.WalletRecord, error) {
	kp, err := keys.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate wallet: %w", err)
	}
	log.Wallet.Info().Str("address", kp.Address).Msg("Wallet generated")
	return newRecord(name, description, kp), nil
}

// RecoverWallet imports a wallet from a mnemonic, a hex private key or a
// base58 secret key, chosen by the shape of secret.
func RecoverWallet(name, description, secret string) (*model.WalletRecord, error) {
	const op = "solana.RecoverWallet"

	kp, err := importSecret(op, secret)
	if err != nil {
		return nil, err
	}
	log.Wallet.Info().Str("address", kp.Address).Bool("mnemonic", kp.Mnemonic != "").Msg("Wallet recovered")
	return newRecord(name, description, kp), nil
}

func importSecret(op, secret string) (*keys.KeyPair, error) {
	words := strings.Fields(secret)
	switch len(words) {
	case 12, 24:
		return keys.ImportFromMnemonic(secret)
	case 1:
	default:
		return nil, errs.Validation(op, "expected 12 or 24 words or a single key, got %d tokens", len(words))
	}

	token := words[0]
	if len(token) == 64 {
		return keys.ImportFromPrivateKey(token)
	}
	// 64 bytes encode to 88 base58 chars, fewer when the key starts small.
	if raw, err := codec.DecodeBase58(token); err == nil && len(raw) == 64 {
		return keys.ImportFromSecretKey(token)
	}
	return nil, errs.Validation(op, "bad length %d: expected a 64-char private key or an 88-char secret key", len(token))
}

// AddAddressWallet creates a watch-only wallet for address.
func AddAddressWallet(name, description, address string) (*model.WalletRecord, error) {
	address = strings.TrimSpace(address)
	if !validate.IsValidAddress(address) {
		return nil, errs.Validation("solana.AddAddressWallet", "invalid address %q", address)
	}
	return &model.WalletRecord{
		Created:       timeNow().Format(CreatedLayout),
		Name:          name,
		Description:   description,
		AddressBase58: address,
	}, nil
}

// GenerateQRCode renders address as a base64-encoded 256px PNG.
func GenerateQRCode(address string) (string, error) {
	if !validate.IsValidAddress(address) {
		return "", errs.Validation("solana.GenerateQRCode", "invalid address %q", address)
	}
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// TerminalQRCode renders address with half-block characters for a terminal.
func TerminalQRCode(address string) (string, error) {
	if !validate.IsValidAddress(address) {
		return "", errs.Validation("solana.TerminalQRCode", "invalid address %q", address)
	}
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}
	return qr.ToSmallString(false), nil
}
