package event

import (
	"time"

	"github.com/bnema/messenger-accounts-cli/internal/domain"
)

const (
	TypeAccountCreated          = "account.created"
	TypeSwitchAccount           = "account.switch"
	TypeAccountListRefreshed    = "account.list_refreshed"
	TypePersistentOptionsUpdate = "options.updated"
	TypeSessionOpened           = "session.opened"
	TypeSessionClosed           = "session.closed"
	TypeSessionCloseFailed      = "session.close_failed"
)

// Event is implemented by every published variant.
type Event interface {
	EventType() string
	Timestamp() time.Time
}

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{eventType: eventType, timestamp: time.Now()}
}

// AccountCreatedEvent is published after a new account was registered
// and the account list refreshed.
type AccountCreatedEvent struct {
	baseEvent
	AccountID domain.AccountID
}

func NewAccountCreatedEvent(id domain.AccountID) AccountCreatedEvent {
	return AccountCreatedEvent{baseEvent: newBaseEvent(TypeAccountCreated), AccountID: id}
}

// SwitchAccountEvent names the account whose session should be opened
// next. The previous session is already closed when this fires.
type SwitchAccountEvent struct {
	baseEvent
	AccountID domain.AccountID
}

func NewSwitchAccountEvent(id domain.AccountID) SwitchAccountEvent {
	return SwitchAccountEvent{baseEvent: newBaseEvent(TypeSwitchAccount), AccountID: id}
}

// AccountListRefreshedEvent carries the freshly fetched account set.
// For a single operation it always precedes any terminal created or
// switch event that depends on the refreshed list.
type AccountListRefreshedEvent struct {
	baseEvent
	Accounts []domain.AccountMetadata
}

func NewAccountListRefreshedEvent(accounts []domain.AccountMetadata) AccountListRefreshedEvent {
	return AccountListRefreshedEvent{baseEvent: newBaseEvent(TypeAccountListRefreshed), Accounts: accounts}
}

// PersistentOptionsUpdatedEvent carries the full merged record after a
// successful option write.
type PersistentOptionsUpdatedEvent struct {
	baseEvent
	AccountID domain.AccountID
	Options   domain.PersistentOptions
}

func NewPersistentOptionsUpdatedEvent(id domain.AccountID, options domain.PersistentOptions) PersistentOptionsUpdatedEvent {
	return PersistentOptionsUpdatedEvent{baseEvent: newBaseEvent(TypePersistentOptionsUpdate), AccountID: id, Options: options}
}

type SessionOpenedEvent struct {
	baseEvent
	AccountID domain.AccountID
}

func NewSessionOpenedEvent(id domain.AccountID) SessionOpenedEvent {
	return SessionOpenedEvent{baseEvent: newBaseEvent(TypeSessionOpened), AccountID: id}
}

type SessionClosedEvent struct {
	baseEvent
	AccountID domain.AccountID
}

func NewSessionClosedEvent(id domain.AccountID) SessionClosedEvent {
	return SessionClosedEvent{baseEvent: newBaseEvent(TypeSessionClosed), AccountID: id}
}

// SessionCloseFailedEvent is terminal for a failed close; the operation
// that required the close aborts after publishing it.
type SessionCloseFailedEvent struct {
	baseEvent
	AccountID domain.AccountID
	Reason    string
}

func NewSessionCloseFailedEvent(id domain.AccountID, reason string) SessionCloseFailedEvent {
	return SessionCloseFailedEvent{baseEvent: newBaseEvent(TypeSessionCloseFailed), AccountID: id, Reason: reason}
}
