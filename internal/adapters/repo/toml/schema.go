package toml

import (
	"fmt"
	"time"

	"github.com/bnema/messenger-accounts-cli/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Accounts []accountSchema `toml:"accounts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported accounts schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type accountSchema struct {
	ID         string `toml:"id"`
	Name       string `toml:"name,omitempty"`
	PublicKey  string `toml:"public_key,omitempty"`
	AvatarCID  string `toml:"avatar_cid,omitempty"`
	CreatedAt  string `toml:"created_at,omitempty"`
	LastOpened string `toml:"last_opened,omitempty"`
}

func toSchema(account domain.AccountMetadata) accountSchema {
	return accountSchema{
		ID:         string(account.ID),
		Name:       account.Name,
		PublicKey:  account.PublicKey,
		AvatarCID:  account.AvatarCID,
		CreatedAt:  formatTime(account.CreatedAt),
		LastOpened: formatTime(account.LastOpened),
	}
}

func fromSchema(entry accountSchema) domain.AccountMetadata {
	return domain.AccountMetadata{
		ID:         domain.AccountID(entry.ID),
		Name:       entry.Name,
		PublicKey:  entry.PublicKey,
		AvatarCID:  entry.AvatarCID,
		CreatedAt:  parseTime(entry.CreatedAt),
		LastOpened: parseTime(entry.LastOpened),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339)
}
