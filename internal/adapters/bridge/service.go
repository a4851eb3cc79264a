// Package bridge is the embedded account service: an in-process
// stand-in for the backend daemon, backed by the same registry the
// account store reads. It owns the backend side of session state and
// stamps lastOpened when a session starts.
package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/messenger-accounts-cli/internal/domain"
	"github.com/bnema/messenger-accounts-cli/internal/ports"
	"github.com/hashicorp/go-uuid"
)

// Registry is the durable account registry the service reads and
// writes. The TOML repository adapter satisfies it.
type Registry interface {
	GetByID(ctx context.Context, id domain.AccountID) (domain.AccountMetadata, error)
	List(ctx context.Context) ([]domain.AccountMetadata, error)
	Save(ctx context.Context, account domain.AccountMetadata) error
	Delete(ctx context.Context, id domain.AccountID) error
}

type Service struct {
	registry Registry
	clock    ports.Clock
	username string

	mu      sync.Mutex
	running domain.AccountID
}

var _ ports.SessionService = (*Service)(nil)

func NewService(registry Registry, clock ports.Clock, username string) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Service{registry: registry, clock: clock, username: username}
}

func (s *Service) CreateAccount(ctx context.Context) (ports.CreateAccountReply, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return ports.CreateAccountReply{}, fmt.Errorf("allocate account id: %w", err)
	}

	account := domain.AccountMetadata{
		ID:        domain.AccountID(id),
		CreatedAt: s.clock.Now(),
	}
	if err := s.registry.Save(ctx, account); err != nil {
		return ports.CreateAccountReply{}, fmt.Errorf("register account: %w", err)
	}

	return ports.CreateAccountReply{Metadata: account}, nil
}

func (s *Service) ImportAccount(ctx context.Context, req ports.ImportAccountRequest) (ports.CreateAccountReply, error) {
	backup, err := readBackup(req.BackupPath)
	if err != nil {
		return ports.CreateAccountReply{}, err
	}

	id, err := uuid.GenerateUUID()
	if err != nil {
		return ports.CreateAccountReply{}, fmt.Errorf("allocate account id: %w", err)
	}

	account := domain.AccountMetadata{
		ID:        domain.AccountID(id),
		Name:      backup.Account.Name,
		PublicKey: backup.Account.PublicKey,
		AvatarCID: backup.Account.AvatarCID,
		CreatedAt: s.clock.Now(),
	}
	if err := s.registry.Save(ctx, account); err != nil {
		return ports.CreateAccountReply{}, fmt.Errorf("register imported account: %w", err)
	}

	return ports.CreateAccountReply{Metadata: account}, nil
}

func (s *Service) UpdateAccount(ctx context.Context, req ports.UpdateAccountRequest) error {
	if req.AccountID == "" {
		return fmt.Errorf("%w: account id is required", domain.ErrPreconditionViolated)
	}

	account, err := s.registry.GetByID(ctx, req.AccountID)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}

	if req.AccountName != "" {
		account.Name = req.AccountName
	}
	if req.PublicKey != "" {
		account.PublicKey = req.PublicKey
	}
	if req.AvatarCID != "" {
		account.AvatarCID = req.AvatarCID
	}

	if err := s.registry.Save(ctx, account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	return nil
}

func (s *Service) DeleteAccount(ctx context.Context, id domain.AccountID) error {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if running == id {
		return fmt.Errorf("%w: close the session before deleting %s", domain.ErrSessionAlreadyOpen, id)
	}

	if err := s.registry.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	return nil
}

func (s *Service) StartSession(ctx context.Context, id domain.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running != "" && s.running != id {
		return fmt.Errorf("%w: account %s", domain.ErrSessionAlreadyOpen, s.running)
	}

	account, err := s.registry.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}

	account.LastOpened = s.clock.Now()
	if err := s.registry.Save(ctx, account); err != nil {
		return fmt.Errorf("stamp last opened: %w", err)
	}

	s.running = id
	return nil
}

// StopSession acks immediately when the named session is not the one
// running.
func (s *Service) StopSession(_ context.Context, id domain.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running == id {
		s.running = ""
	}
	return nil
}

func (s *Service) GetUsername(_ context.Context) (string, error) {
	return s.username, nil
}
