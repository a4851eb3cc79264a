// Package file stores per-account persistent options as individual
// JSON files under one directory. It is the fallback backend for
// deployments that cannot use the BoltDB store.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/messenger-accounts-cli/internal/domain"
	"github.com/bnema/messenger-accounts-cli/internal/ports"
)

const (
	storeDirMode  = 0o700
	storeFileMode = 0o600
)

type Store struct {
	root string
	mu   sync.RWMutex
}

var _ ports.OptionStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Read(ctx context.Context, id domain.AccountID) (domain.PersistentOptions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.pathForAccount(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrOptionsNotFound
		}
		return nil, fmt.Errorf("read options file: %w", err)
	}

	var options domain.PersistentOptions
	if err := json.Unmarshal(data, &options); err != nil {
		return nil, fmt.Errorf("decode options record: %w", err)
	}

	return options, nil
}

func (s *Store) Write(ctx context.Context, id domain.AccountID, options domain.PersistentOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForAccount(id)
	if err != nil {
		return err
	}

	data, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("encode options record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.root, storeDirMode); err != nil {
		return fmt.Errorf("create options directory: %w", err)
	}

	if err := os.WriteFile(path, data, storeFileMode); err != nil {
		return fmt.Errorf("write options file: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id domain.AccountID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForAccount(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete options file: %w", err)
	}

	return nil
}

// pathForAccount derives the storage path from the account ID. The same
// derivation serves read, write, and delete.
func (s *Store) pathForAccount(id domain.AccountID) (string, error) {
	raw := string(id)
	if raw == "" {
		return "", errors.New("account id is empty")
	}
	if strings.ContainsAny(raw, `/\`) || strings.Contains(raw, "..") {
		return "", fmt.Errorf("invalid account id %q", raw)
	}

	return filepath.Join(s.root, raw+".json"), nil
}
