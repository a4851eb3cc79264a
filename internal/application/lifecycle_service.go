package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/messenger-accounts-cli/internal/domain"
	"github.com/bnema/messenger-accounts-cli/internal/event"
	"github.com/bnema/messenger-accounts-cli/internal/logging"
	"github.com/bnema/messenger-accounts-cli/internal/ports"
)

// ClearClientsFunc tears down any open transport clients before a new
// account replaces the current one.
type ClearClientsFunc func(ctx context.Context) error

// sessionState is owned exclusively by the LifecycleService. closing is
// transient: it is set only while a close is in flight and always
// resets, success or failure.
type sessionState struct {
	active  domain.AccountID
	closing bool
}

// LifecycleService orchestrates the account-session state machine: it
// decides which account's backend session is active, closes the current
// session before every mutating operation, re-fetches the account list
// after each mutation, and publishes typed events for the UI state
// store. At most one session is open at any time.
//
// A single mutex serializes lifecycle operations end-to-end, so an
// operation issued while another is in flight queues behind it instead
// of racing for the session.
type LifecycleService struct {
	service  ports.SessionService
	accounts ports.AccountStore
	options  ports.OptionStore
	bus      *event.Bus
	clock    ports.Clock
	log      logging.Logger
	embedded bool

	mu sync.Mutex

	// openMu serializes OpenSession separately from the operation
	// mutex: switch subscribers open the next session from inside the
	// publishing operation's event dispatch.
	openMu sync.Mutex

	// stateMu guards state separately from the operation mutex so the
	// transient closing flag stays observable mid-operation.
	stateMu sync.Mutex
	state   sessionState

	optionMu    sync.Mutex
	optionLocks map[domain.AccountID]*sync.Mutex
}

type Config struct {
	Service  ports.SessionService
	Accounts ports.AccountStore
	Options  ports.OptionStore
	Bus      *event.Bus

	// Embedded marks this process as the owner of session lifecycle.
	// When false every lifecycle operation is a no-op: a supervisor
	// elsewhere manages sessions.
	Embedded bool

	Clock  ports.Clock
	Logger logging.Logger
}

func NewLifecycleService(cfg Config) *LifecycleService {
	clock := cfg.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &LifecycleService{
		service:     cfg.Service,
		accounts:    cfg.Accounts,
		options:     cfg.Options,
		bus:         cfg.Bus,
		clock:       clock,
		log:         logger,
		embedded:    cfg.Embedded,
		optionLocks: map[domain.AccountID]*sync.Mutex{},
	}
}

// CreateAccount registers a new account via the session service, then
// publishes the refreshed account list followed by account.created.
func (s *LifecycleService) CreateAccount(ctx context.Context) error {
	if !s.embedded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createAccountLocked(ctx)
}

func (s *LifecycleService) createAccountLocked(ctx context.Context) error {
	reply, err := s.service.CreateAccount(ctx)
	if err != nil {
		return s.fail("create account", fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err))
	}
	if reply.Metadata.ID == "" {
		return s.fail("create account", fmt.Errorf("%w: no account id returned", domain.ErrInvalidReply))
	}

	if _, err := s.refreshAccountsLocked(ctx); err != nil {
		return s.fail("create account", err)
	}

	s.bus.Publish(event.NewAccountCreatedEvent(reply.Metadata.ID))
	return nil
}

// CreateNewAccount tears down any open transport clients, closes the
// current session, and creates a fresh account. A failed close aborts
// the creation: a stale open session must not coexist with a new one.
func (s *LifecycleService) CreateNewAccount(ctx context.Context, clearClients ClearClientsFunc) error {
	if !s.embedded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if clearClients != nil {
		if err := clearClients(ctx); err != nil {
			return s.fail("create new account", fmt.Errorf("clear clients: %w", err))
		}
	}

	if err := s.closeSessionLocked(ctx); err != nil {
		return s.fail("create new account", err)
	}

	return s.createAccountLocked(ctx)
}

// ImportAccount closes the current session, imports an account from the
// backup at path, and publishes a switch to the imported account.
func (s *LifecycleService) ImportAccount(ctx context.Context, path string) error {
	if !s.embedded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.closeSessionLocked(ctx); err != nil {
		return s.fail("import account", err)
	}

	reply, err := s.service.ImportAccount(ctx, ports.ImportAccountRequest{BackupPath: path})
	if err != nil {
		return s.fail("import account", fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err))
	}
	if reply.Metadata.ID == "" {
		return s.fail("import account", fmt.Errorf("%w: no account id returned", domain.ErrInvalidReply))
	}

	if _, err := s.refreshAccountsLocked(ctx); err != nil {
		return s.fail("import account", err)
	}

	s.bus.Publish(event.NewSwitchAccountEvent(reply.Metadata.ID))
	return nil
}

// UpdateAccount sends a partial metadata update, then refreshes the
// account list so subscribers see the durable state. A refresh failure
// after an accepted update is surfaced, but the update itself stands.
func (s *LifecycleService) UpdateAccount(ctx context.Context, cmd UpdateAccountCommand) error {
	if !s.embedded {
		return nil
	}
	if cmd.AccountID == "" {
		return s.fail("update account", fmt.Errorf("%w: account id is required", domain.ErrPreconditionViolated))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req := ports.UpdateAccountRequest{
		AccountID:   cmd.AccountID,
		AccountName: cmd.AccountName,
		PublicKey:   cmd.PublicKey,
		AvatarCID:   cmd.AvatarCID,
	}
	if err := s.service.UpdateAccount(ctx, req); err != nil {
		return s.fail("update account", fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err))
	}

	if _, err := s.refreshAccountsLocked(ctx); err != nil {
		return s.fail("update account", err)
	}

	return nil
}

// SwitchAccount closes the current session and publishes a switch to
// the given account. Opening the next session is the switch
// subscriber's job; this controller only guarantees the close completed
// first.
func (s *LifecycleService) SwitchAccount(ctx context.Context, id domain.AccountID) error {
	if !s.embedded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.closeSessionLocked(ctx); err != nil {
		return s.fail("switch account", err)
	}

	s.bus.Publish(event.NewSwitchAccountEvent(id))
	return nil
}

// DeleteAccount closes the current session, deletes the selected
// account's durable data and its persistent options, and refreshes the
// list. With no survivors it falls back to creating a fresh account;
// otherwise it switches to the most recently opened survivor.
func (s *LifecycleService) DeleteAccount(ctx context.Context, selected domain.AccountID) error {
	if !s.embedded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.closeSessionLocked(ctx); err != nil {
		return s.fail("delete account", err)
	}

	if selected == "" {
		return s.fail("delete account", fmt.Errorf("%w: no account selected", domain.ErrPreconditionViolated))
	}

	if err := s.service.DeleteAccount(ctx, selected); err != nil {
		return s.fail("delete account", fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err))
	}
	if err := s.options.Delete(ctx, selected); err != nil {
		return s.fail("delete account", fmt.Errorf("%w: delete options: %w", domain.ErrStorageFailure, err))
	}

	accounts, err := s.refreshAccountsLocked(ctx)
	if err != nil {
		return s.fail("delete account", err)
	}

	if len(accounts) == 0 {
		return s.createAccountLocked(ctx)
	}

	next, _ := domain.MostRecentlyOpened(accounts)
	s.bus.Publish(event.NewSwitchAccountEvent(next.ID))
	return nil
}

// Restart closes the current session and publishes a switch back to the
// given account, typically the one that was just active.
func (s *LifecycleService) Restart(ctx context.Context, id domain.AccountID) error {
	if !s.embedded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.closeSessionLocked(ctx); err != nil {
		return s.fail("restart", err)
	}

	s.bus.Publish(event.NewSwitchAccountEvent(id))
	return nil
}

// OpenSession starts the backend session for the given account and
// records it as active. It refuses to open while another session is
// open.
//
// Switch subscribers invoke it from inside Publish while the
// publishing operation still holds the operation mutex, so it
// serializes on its own lock. The close preceding the switch has
// already completed by then.
func (s *LifecycleService) OpenSession(ctx context.Context, id domain.AccountID) error {
	if !s.embedded {
		return nil
	}
	if id == "" {
		return s.fail("open session", fmt.Errorf("%w: no account selected", domain.ErrPreconditionViolated))
	}

	s.openMu.Lock()
	defer s.openMu.Unlock()

	if active := s.activeAccount(); active != "" {
		return s.fail("open session", fmt.Errorf("%w: account %s", domain.ErrSessionAlreadyOpen, active))
	}

	if err := s.service.StartSession(ctx, id); err != nil {
		return s.fail("open session", fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err))
	}

	s.setActive(id)
	s.bus.Publish(event.NewSessionOpenedEvent(id))
	return nil
}

// SetPersistentOption applies a single-key merge-patch to the account's
// options record: existing values are read, layered over the defaults,
// patched, and written back as one full record. The read-merge-write is
// serialized per account so concurrent patches cannot clobber each
// other's keys.
func (s *LifecycleService) SetPersistentOption(ctx context.Context, selected domain.AccountID, update OptionUpdate) error {
	if selected == "" {
		return s.fail("set persistent option", fmt.Errorf("%w: no account selected", domain.ErrPreconditionViolated))
	}
	if !update.Kind.Valid() {
		return s.fail("set persistent option", fmt.Errorf("%w: unknown option kind %q", domain.ErrPreconditionViolated, update.Kind))
	}

	lock := s.lockForAccount(selected)
	lock.Lock()
	defer lock.Unlock()

	stored, err := s.options.Read(ctx, selected)
	if err != nil && !errors.Is(err, domain.ErrOptionsNotFound) {
		return s.fail("set persistent option", fmt.Errorf("%w: read options: %w", domain.ErrStorageFailure, err))
	}

	merged := domain.MergeOptions(stored, update.Kind, update.Payload)
	if err := s.options.Write(ctx, selected, merged); err != nil {
		return s.fail("set persistent option", fmt.Errorf("%w: write options: %w", domain.ErrStorageFailure, err))
	}

	s.bus.Publish(event.NewPersistentOptionsUpdatedEvent(selected, merged))
	return nil
}

// PersistentOptions returns the account's full options record, the
// defaults when nothing was stored yet.
func (s *LifecycleService) PersistentOptions(ctx context.Context, selected domain.AccountID) (domain.PersistentOptions, error) {
	if selected == "" {
		return nil, s.fail("get persistent options", fmt.Errorf("%w: no account selected", domain.ErrPreconditionViolated))
	}

	stored, err := s.options.Read(ctx, selected)
	if err != nil {
		if errors.Is(err, domain.ErrOptionsNotFound) {
			return domain.DefaultPersistentOptions(), nil
		}
		return nil, s.fail("get persistent options", fmt.Errorf("%w: read options: %w", domain.ErrStorageFailure, err))
	}

	merged := domain.DefaultPersistentOptions()
	for k, v := range stored {
		merged[k] = v
	}
	return merged, nil
}

// Username asks the backend for the local username suggested during
// onboarding.
func (s *LifecycleService) Username(ctx context.Context) (string, error) {
	username, err := s.service.GetUsername(ctx)
	if err != nil {
		return "", s.fail("get username", fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err))
	}
	return username, nil
}

// closeSessionLocked terminates the active session, if any, and
// publishes the terminal progress event. No session open is an
// immediate success with no events.
func (s *LifecycleService) closeSessionLocked(ctx context.Context) error {
	active := s.activeAccount()
	if active == "" {
		return nil
	}

	s.setClosing(true)
	defer s.setClosing(false)

	if err := s.service.StopSession(ctx, active); err != nil {
		s.bus.Publish(event.NewSessionCloseFailedEvent(active, err.Error()))
		return fmt.Errorf("%w: stop session %s: %w", domain.ErrServiceUnavailable, active, err)
	}

	s.setActive("")
	s.bus.Publish(event.NewSessionClosedEvent(active))
	return nil
}

// refreshAccountsLocked re-fetches the account set and publishes it as
// the new source of truth, returning it for selection decisions.
func (s *LifecycleService) refreshAccountsLocked(ctx context.Context) ([]domain.AccountMetadata, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh account list: %w", domain.ErrStorageFailure, err)
	}

	s.bus.Publish(event.NewAccountListRefreshedEvent(accounts))
	return accounts, nil
}

func (s *LifecycleService) activeAccount() domain.AccountID {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state.active
}

func (s *LifecycleService) setActive(id domain.AccountID) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state.active = id
}

func (s *LifecycleService) setClosing(closing bool) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state.closing = closing
}

func (s *LifecycleService) lockForAccount(id domain.AccountID) *sync.Mutex {
	s.optionMu.Lock()
	defer s.optionMu.Unlock()

	if lock, ok := s.optionLocks[id]; ok {
		return lock
	}

	lock := &sync.Mutex{}
	s.optionLocks[id] = lock
	return lock
}

// fail records the diagnostic once at the operation boundary and hands
// the wrapped error back to the caller.
func (s *LifecycleService) fail(op string, err error) error {
	s.log.Error("lifecycle operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}
