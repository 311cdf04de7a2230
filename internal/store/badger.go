package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/AlexZinkM/solwallet/internal/errs"
	"github.com/AlexZinkM/solwallet/internal/log"
	"github.com/AlexZinkM/solwallet/internal/model"
)

// BadgerStore implements Store using Badger.
type BadgerStore struct {
	db *badger.DB
}

// NewBadger opens a Badger database at path.
func NewBadger(path string) (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions(path), path)
}

// NewBadgerInMemory opens a Badger database that lives only in memory.
func NewBadgerInMemory() (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true), "memory")
}

func openBadger(opts badger.Options, path string) (*BadgerStore, error) {
	opts.Logger = nil // Disable badger's built-in logging.

	db, err := badger.Open(opts)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "Cannot acquire directory lock") ||
			strings.Contains(errMsg, "resource temporarily unavailable") {
			return nil, fmt.Errorf("wallet store at %s is locked by another process: %w", path, err)
		}
		return nil, fmt.Errorf("open wallet store at %s: %w", path, err)
	}
	log.Store.Debug().Str("path", path).Msg("badger wallet store opened")
	return &BadgerStore{db: db}, nil
}

// Save stores rec under key, replacing any previous record.
func (b *BadgerStore) Save(key string, rec model.WalletRecord) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal wallet record: %w", err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
	if err != nil {
		return fmt.Errorf("badger put: %w", err)
	}
	return nil
}

// Load retrieves the record stored under key.
func (b *BadgerStore) Load(key string) (model.WalletRecord, error) {
	var rec model.WalletRecord
	if err := ValidateKey(key); err != nil {
		return rec, err
	}
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return model.WalletRecord{}, errs.Newf(errs.KindNotFound, "store.Load", "wallet %s not found", key)
	}
	if err != nil {
		return model.WalletRecord{}, fmt.Errorf("badger get: %w", err)
	}
	return rec, nil
}

// Delete removes key. Deleting a missing key returns errs.KindNotFound.
func (b *BadgerStore) Delete(key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			return err
		}
		return txn.Delete([]byte(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return errs.Newf(errs.KindNotFound, "store.Delete", "wallet %s not found", key)
	}
	if err != nil {
		return fmt.Errorf("badger delete: %w", err)
	}
	return nil
}

// List iterates over all keys with the given prefix. Badger keeps keys
// sorted, so results are ordered by key.
func (b *BadgerStore) List(prefix string) ([]model.StoredWallet, error) {
	p := []byte(prefix)
	out := []model.StoredWallet{}
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = p
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			var rec model.WalletRecord
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
			out = append(out, model.StoredWallet{Key: key, Record: rec})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger list: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}
