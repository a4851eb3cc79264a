package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/messenger-accounts-cli/internal/domain"
	"github.com/bnema/messenger-accounts-cli/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountsMarksActiveSession(t *testing.T) {
	t.Parallel()

	store := &fakeAccountStore{accounts: []domain.AccountMetadata{{ID: "acc-1"}, {ID: "acc-2"}}}
	svc := &fakeSessionService{store: store}
	s, events := newTestService(t, svc, store, newMemoryOptionStore(), true)

	require.NoError(t, s.OpenSession(context.Background(), "acc-2"))

	statuses, err := s.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.False(t, statuses[0].Active)
	assert.True(t, statuses[1].Active)

	// Listing is read-only.
	assert.NotContains(t, events.types(), event.TypeAccountListRefreshed)
}

func TestAccountsPropagatesStoreFailure(t *testing.T) {
	t.Parallel()

	store := &fakeAccountStore{listErr: errors.New("disk gone")}
	svc := &fakeSessionService{store: store}
	s, _ := newTestService(t, svc, store, newMemoryOptionStore(), true)

	_, err := s.Accounts(context.Background())
	assert.Error(t, err)
}

func TestActiveAccountWhenNoSession(t *testing.T) {
	t.Parallel()

	store := &fakeAccountStore{}
	svc := &fakeSessionService{store: store}
	s, _ := newTestService(t, svc, store, newMemoryOptionStore(), true)

	id, open := s.ActiveAccount()
	assert.False(t, open)
	assert.Empty(t, id)
	assert.False(t, s.Closing())
}
