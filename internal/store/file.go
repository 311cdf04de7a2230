package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/AlexZinkM/solwallet/internal/errs"
	"github.com/AlexZinkM/solwallet/internal/log"
	"github.com/AlexZinkM/solwallet/internal/model"
)

// FileStore keeps every record in one JSON object keyed by wallet key.
// The file is written with 0600 permissions since records carry keys in
// the clear.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a store backed by the JSON file at path. A missing file
// is created on first Save.
func NewFile(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("wallet store path is required")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return nil, fmt.Errorf("wallet store path %s is a directory", path)
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) read() (map[string]model.WalletRecord, error) {
	records := map[string]model.WalletRecord{}

	fileData, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Skip UTF-8 BOM if present
	if len(fileData) >= 3 && fileData[0] == 0xEF && fileData[1] == 0xBB && fileData[2] == 0xBF {
		fileData = fileData[3:]
	}
	if len(strings.TrimSpace(string(fileData))) == 0 {
		return records, nil
	}

	if err := json.Unmarshal(fileData, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet file: %w", err)
	}
	return records, nil
}

func (f *FileStore) write(records map[string]model.WalletRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal wallet file: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}

// Save stores rec under key, replacing any previous record.
func (f *FileStore) Save(key string, rec model.WalletRecord) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.read()
	if err != nil {
		return err
	}
	records[key] = rec
	if err := f.write(records); err != nil {
		return err
	}
	log.Store.Debug().Str("key", key).Msg("wallet saved")
	return nil
}

// Load retrieves the record stored under key.
func (f *FileStore) Load(key string) (model.WalletRecord, error) {
	if err := ValidateKey(key); err != nil {
		return model.WalletRecord{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.read()
	if err != nil {
		return model.WalletRecord{}, err
	}
	rec, ok := records[key]
	if !ok {
		return model.WalletRecord{}, errs.Newf(errs.KindNotFound, "store.Load", "wallet %s not found", key)
	}
	return rec, nil
}

// Delete removes key.
func (f *FileStore) Delete(key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := records[key]; !ok {
		return errs.Newf(errs.KindNotFound, "store.Delete", "wallet %s not found", key)
	}
	delete(records, key)
	return f.write(records)
}

// List returns records whose key starts with prefix, ordered by key.
func (f *FileStore) List(prefix string) ([]model.StoredWallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.read()
	if err != nil {
		return nil, err
	}
	out := []model.StoredWallet{}
	for key, rec := range records {
		if strings.HasPrefix(key, prefix) {
			out = append(out, model.StoredWallet{Key: key, Record: rec})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Close is a no-op; the file is not held open.
func (f *FileStore) Close() error {
	return nil
}
