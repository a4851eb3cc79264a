package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bnema/messenger-accounts-cli/internal/domain"
)

const backupVersion = 1

type backupSchema struct {
	Version int           `json:"version"`
	Account backupAccount `json:"account"`
}

type backupAccount struct {
	Name      string `json:"name,omitempty"`
	PublicKey string `json:"publicKey,omitempty"`
	AvatarCID string `json:"avatarCid,omitempty"`
}

func readBackup(path string) (backupSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return backupSchema{}, fmt.Errorf("read backup: %w", err)
	}

	var backup backupSchema
	if err := json.Unmarshal(data, &backup); err != nil {
		return backupSchema{}, fmt.Errorf("decode backup: %w", err)
	}
	if backup.Version > backupVersion {
		return backupSchema{}, fmt.Errorf("unsupported backup version %d (current %d)", backup.Version, backupVersion)
	}

	return backup, nil
}

// ExportAccount writes a backup of the account's metadata to path, in
// the format ImportAccount reads back.
func (s *Service) ExportAccount(ctx context.Context, id domain.AccountID, path string) error {
	account, err := s.registry.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}

	backup := backupSchema{
		Version: backupVersion,
		Account: backupAccount{
			Name:      account.Name,
			PublicKey: account.PublicKey,
			AvatarCID: account.AvatarCID,
		},
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	return nil
}
