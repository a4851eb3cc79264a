package ports

import (
	"context"

	"github.com/bnema/messenger-accounts-cli/internal/domain"
)

// OptionStore persists one preferences record per account. Read returns
// domain.ErrOptionsNotFound when no record exists; Delete is a no-op
// for a missing record. Implementations derive the storage key from the
// account ID deterministically so read, write, and delete round-trip.
type OptionStore interface {
	Read(ctx context.Context, id domain.AccountID) (domain.PersistentOptions, error)
	Write(ctx context.Context, id domain.AccountID, options domain.PersistentOptions) error
	Delete(ctx context.Context, id domain.AccountID) error
}
