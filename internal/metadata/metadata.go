// Package metadata decodes token name/symbol/uri descriptors from the two
// on-chain layouts: the Token-2022 metadata extension embedded in the mint
// account, and the Metaplex metadata account.
package metadata

import (
	"fmt"
	"unicode/utf8"

	"github.com/AlexZinkM/solwallet/internal/codec"
	"github.com/AlexZinkM/solwallet/internal/errs"
	"github.com/AlexZinkM/solwallet/internal/model"
)

const (
	// Token2022HeaderSize is skipped before the extension's authority field.
	Token2022HeaderSize = 238
	// Token2022MinSize: shorter mint accounts carry no metadata extension.
	Token2022MinSize = 314

	// MetaplexAccountSize is the only legacy metadata size decoded.
	MetaplexAccountSize = 679
	metaplexHeaderSize  = 1
)

// Decode2022 decodes the metadata extension of a Token-2022 mint account.
// Data of Token2022MinSize bytes or less returns empty metadata without
// error. String fields are taken as-is, null bytes included.
func Decode2022(data []byte) (model.TokenMetadata, error) {
	if len(data) <= Token2022MinSize {
		return model.TokenMetadata{}, nil
	}
	md, err := decode(data, Token2022HeaderSize, false)
	if err != nil {
		return model.TokenMetadata{}, errs.Wrap(errs.KindDecode, "metadata.Decode2022", err)
	}
	return md, nil
}

// DecodeMetaplex decodes a Metaplex metadata account. Only accounts of
// exactly MetaplexAccountSize bytes are decoded; anything else returns
// empty metadata without error. Null padding is stripped from each string.
func DecodeMetaplex(data []byte) (model.TokenMetadata, error) {
	if len(data) != MetaplexAccountSize {
		return model.TokenMetadata{}, nil
	}
	md, err := decode(data, metaplexHeaderSize, true)
	if err != nil {
		return model.TokenMetadata{}, errs.Wrap(errs.KindDecode, "metadata.DecodeMetaplex", err)
	}
	return md, nil
}

// decode reads authority, mint, name, symbol and uri after skipping header
// bytes.
func decode(data []byte, header int, stripNulls bool) (model.TokenMetadata, error) {
	r := codec.NewFieldReader(data)
	if err := r.Skip(header); err != nil {
		return model.TokenMetadata{}, err
	}

	var md model.TokenMetadata
	var err error
	if md.UpdateAuthority, err = r.PublicKey(); err != nil {
		return model.TokenMetadata{}, fmt.Errorf("update authority: %w", err)
	}
	if md.Mint, err = r.PublicKey(); err != nil {
		return model.TokenMetadata{}, fmt.Errorf("mint: %w", err)
	}

	fields := []struct {
		name string
		dst  *string
	}{
		{"name", &md.Name},
		{"symbol", &md.Symbol},
		{"uri", &md.URI},
	}
	for _, f := range fields {
		raw, err := r.Prefixed()
		if err != nil {
			return model.TokenMetadata{}, fmt.Errorf("%s: %w", f.name, err)
		}
		if stripNulls {
			raw = codec.StripNulls(raw)
		}
		if !utf8.Valid(raw) {
			return model.TokenMetadata{}, fmt.Errorf("%s: invalid utf-8", f.name)
		}
		*f.dst = string(raw)
	}
	return md, nil
}
