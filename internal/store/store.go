// Package store persists wallet records verbatim under timestamp-derived
// keys. The engine never reads it; callers save what the engine returns.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/AlexZinkM/solwallet/internal/errs"
	"github.com/AlexZinkM/solwallet/internal/model"
)

// KeyPrefix starts every wallet key.
const KeyPrefix = "wallet."

const keyLayout = "2006-01-02-15-04-05"

// maxKeySuffix bounds the search for a free key within one second.
const maxKeySuffix = 1000

// Store is a key-value store of wallet records.
type Store interface {
	Save(key string, rec model.WalletRecord) error
	// Load returns errs.KindNotFound for a missing key.
	Load(key string) (model.WalletRecord, error)
	Delete(key string) error
	// List returns records whose key starts with prefix, ordered by key.
	List(prefix string) ([]model.StoredWallet, error)
	Close() error
}

// KeyFor returns the store key for a record created at t.
func KeyFor(t time.Time) string {
	return KeyPrefix + t.Format(keyLayout)
}

// NextKey returns KeyFor(t), or the first of KeyFor(t)+"-1", "-2", ...
// not already present in s.
func NextKey(s Store, t time.Time) (string, error) {
	base := KeyFor(t)
	for i := 0; i < maxKeySuffix; i++ {
		key := base
		if i > 0 {
			key = fmt.Sprintf("%s-%d", base, i)
		}
		_, err := s.Load(key)
		if errs.Is(err, errs.KindNotFound) {
			return key, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("no free key for %s", base)
}

// Open opens the backend named kind ("badger" or "file") at path.
func Open(kind, path string) (Store, error) {
	switch strings.ToLower(kind) {
	case "", "badger":
		return NewBadger(path)
	case "file":
		return NewFile(path)
	default:
		return nil, fmt.Errorf("unknown wallet store %q", kind)
	}
}

// ValidateKey rejects keys that lack KeyPrefix or have nothing after it.
func ValidateKey(key string) error {
	if !strings.HasPrefix(key, KeyPrefix) || len(key) == len(KeyPrefix) {
		return errs.Validation("store", "invalid wallet key %q", key)
	}
	return nil
}
