// Package bolt stores per-account persistent options in a BoltDB
// bucket, one JSON record per account. The database is opened per
// operation so the file lock never outlives a command.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/messenger-accounts-cli/internal/domain"
	"github.com/bnema/messenger-accounts-cli/internal/ports"
	bolt "go.etcd.io/bbolt"
)

var bucketOptions = []byte("persistent_options")

const (
	storeDirMode  = 0o700
	storeFileMode = 0o600
	lockTimeout   = time.Second
)

type Store struct {
	path string
}

var _ ports.OptionStore = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// StorageKey derives the bucket key for an account. Read, Write, and
// Delete all go through it so the key round-trips exactly.
func StorageKey(id domain.AccountID) []byte {
	return []byte("persistent_options:" + string(id))
}

func (s *Store) Read(ctx context.Context, id domain.AccountID) (domain.PersistentOptions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var options domain.PersistentOptions
	err := s.withDB(func(db *bolt.DB) error {
		return db.View(func(tx *bolt.Tx) error {
			data := tx.Bucket(bucketOptions).Get(StorageKey(id))
			if data == nil {
				return domain.ErrOptionsNotFound
			}

			if err := json.Unmarshal(data, &options); err != nil {
				return fmt.Errorf("decode options record: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return options, nil
}

func (s *Store) Write(ctx context.Context, id domain.AccountID, options domain.PersistentOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("encode options record: %w", err)
	}

	return s.withDB(func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			if err := tx.Bucket(bucketOptions).Put(StorageKey(id), data); err != nil {
				return fmt.Errorf("store options record: %w", err)
			}
			return nil
		})
	})
}

func (s *Store) Delete(ctx context.Context, id domain.AccountID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.withDB(func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketOptions).Delete(StorageKey(id))
		})
	})
}

func (s *Store) withDB(fn func(*bolt.DB) error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), storeDirMode); err != nil {
		return fmt.Errorf("create options directory: %w", err)
	}

	db, err := bolt.Open(s.path, storeFileMode, &bolt.Options{Timeout: lockTimeout})
	if err != nil {
		return fmt.Errorf("open options database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(bucketOptions)
		return createErr
	}); err != nil {
		return fmt.Errorf("create options bucket: %w", err)
	}

	return fn(db)
}
