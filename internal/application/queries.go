package application

import (
	"context"
	"fmt"

	"github.com/bnema/messenger-accounts-cli/internal/domain"
)

// AccountStatus pairs an account's metadata with whether its session is
// currently open in this process.
type AccountStatus struct {
	Metadata domain.AccountMetadata
	Active   bool
}

// Accounts lists the registered accounts with the active-session
// marker. Read-only: no session is touched and no event is published.
func (s *LifecycleService) Accounts(ctx context.Context) ([]AccountStatus, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	active, _ := s.ActiveAccount()
	statuses := make([]AccountStatus, 0, len(accounts))
	for _, account := range accounts {
		statuses = append(statuses, AccountStatus{
			Metadata: account,
			Active:   account.ID == active,
		})
	}

	return statuses, nil
}

// ActiveAccount reports which account holds the open session, if any.
func (s *LifecycleService) ActiveAccount() (domain.AccountID, bool) {
	active := s.activeAccount()
	if active == "" {
		return "", false
	}
	return active, true
}

// Closing reports whether a session close is currently in flight.
func (s *LifecycleService) Closing() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state.closing
}
