package ports

import (
	"context"

	"github.com/bnema/messenger-accounts-cli/internal/domain"
)

type CreateAccountReply struct {
	Metadata domain.AccountMetadata
}

type ImportAccountRequest struct {
	BackupPath string
}

// UpdateAccountRequest is a partial update: empty fields are absent and
// leave the stored value unchanged. AccountID is mandatory.
type UpdateAccountRequest struct {
	AccountID   domain.AccountID
	AccountName string
	PublicKey   string
	AvatarCID   string
}

// SessionService is the request/reply client to the backend process
// that holds account data and session state. StopSession acks
// immediately when the named session is not open.
type SessionService interface {
	CreateAccount(ctx context.Context) (CreateAccountReply, error)
	ImportAccount(ctx context.Context, req ImportAccountRequest) (CreateAccountReply, error)
	UpdateAccount(ctx context.Context, req UpdateAccountRequest) error
	DeleteAccount(ctx context.Context, id domain.AccountID) error
	StartSession(ctx context.Context, id domain.AccountID) error
	StopSession(ctx context.Context, id domain.AccountID) error
	GetUsername(ctx context.Context) (string, error)
}
