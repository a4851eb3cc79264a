package ports

import (
	"context"

	"github.com/bnema/messenger-accounts-cli/internal/domain"
)

// AccountStore is the durable registry of account metadata. List always
// returns the full current set; the controller never caches its result
// across operations.
type AccountStore interface {
	List(ctx context.Context) ([]domain.AccountMetadata, error)
}
