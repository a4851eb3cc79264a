package application

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/bnema/messenger-accounts-cli/internal/domain"
	"github.com/bnema/messenger-accounts-cli/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPersistentOptionMergesOverDefaults(t *testing.T) {
	t.Parallel()

	store := &fakeAccountStore{accounts: []domain.AccountMetadata{{ID: "acc-1"}}}
	svc := &fakeSessionService{store: store}
	options := newMemoryOptionStore()
	s, events := newTestService(t, svc, store, options, true)

	err := s.SetPersistentOption(context.Background(), "acc-1", OptionUpdate{
		Kind:    domain.OptionTheme,
		Payload: json.RawMessage(`"dark"`),
	})
	require.NoError(t, err)

	record := options.record("acc-1")
	assert.JSONEq(t, `"dark"`, string(record[domain.OptionTheme]))
	assert.JSONEq(t, `{"enabled":true,"sound":true}`, string(record[domain.OptionNotifications]))
	assert.JSONEq(t, `[]`, string(record[domain.OptionTooltips]))
	assert.JSONEq(t, `false`, string(record[domain.OptionDebug]))

	require.Equal(t, []string{event.TypePersistentOptionsUpdate}, events.types())
	updated := events.last().(event.PersistentOptionsUpdatedEvent)
	assert.Equal(t, domain.AccountID("acc-1"), updated.AccountID)
	assert.JSONEq(t, `"dark"`, string(updated.Options[domain.OptionTheme]))
}

func TestSetPersistentOptionSequentialWritesBothPersist(t *testing.T) {
	t.Parallel()

	store := &fakeAccountStore{accounts: []domain.AccountMetadata{{ID: "acc-1"}}}
	svc := &fakeSessionService{store: store}
	options := newMemoryOptionStore()
	s, _ := newTestService(t, svc, store, options, true)

	ctx := context.Background()
	require.NoError(t, s.SetPersistentOption(ctx, "acc-1", OptionUpdate{
		Kind:    domain.OptionTheme,
		Payload: json.RawMessage(`"dark"`),
	}))
	require.NoError(t, s.SetPersistentOption(ctx, "acc-1", OptionUpdate{
		Kind:    domain.OptionNotifications,
		Payload: json.RawMessage(`{"enabled":false,"sound":false}`),
	}))

	record := options.record("acc-1")
	assert.JSONEq(t, `"dark"`, string(record[domain.OptionTheme]))
	assert.JSONEq(t, `{"enabled":false,"sound":false}`, string(record[domain.OptionNotifications]))
}

func TestSetPersistentOptionConcurrentWritesSerialize(t *testing.T) {
	t.Parallel()

	store := &fakeAccountStore{accounts: []domain.AccountMetadata{{ID: "acc-1"}}}
	svc := &fakeSessionService{store: store}
	options := newMemoryOptionStore()
	s, _ := newTestService(t, svc, store, options, true)

	updates := []OptionUpdate{
		{Kind: domain.OptionTheme, Payload: json.RawMessage(`"light"`)},
		{Kind: domain.OptionDebug, Payload: json.RawMessage(`true`)},
		{Kind: domain.OptionTooltips, Payload: json.RawMessage(`["welcome"]`)},
	}

	var wg sync.WaitGroup
	for _, update := range updates {
		wg.Add(1)
		go func(update OptionUpdate) {
			defer wg.Done()
			assert.NoError(t, s.SetPersistentOption(context.Background(), "acc-1", update))
		}(update)
	}
	wg.Wait()

	record := options.record("acc-1")
	assert.JSONEq(t, `"light"`, string(record[domain.OptionTheme]))
	assert.JSONEq(t, `true`, string(record[domain.OptionDebug]))
	assert.JSONEq(t, `["welcome"]`, string(record[domain.OptionTooltips]))
}

func TestSetPersistentOptionNilSelectionWritesNothing(t *testing.T) {
	t.Parallel()

	store := &fakeAccountStore{}
	svc := &fakeSessionService{store: store}
	options := newMemoryOptionStore()
	s, events := newTestService(t, svc, store, options, true)

	err := s.SetPersistentOption(context.Background(), "", OptionUpdate{
		Kind:    domain.OptionTheme,
		Payload: json.RawMessage(`"dark"`),
	})
	require.ErrorIs(t, err, domain.ErrPreconditionViolated)
	assert.Zero(t, options.writes)
	assert.Empty(t, events.types())
}

func TestSetPersistentOptionRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	store := &fakeAccountStore{accounts: []domain.AccountMetadata{{ID: "acc-1"}}}
	svc := &fakeSessionService{store: store}
	options := newMemoryOptionStore()
	s, _ := newTestService(t, svc, store, options, true)

	err := s.SetPersistentOption(context.Background(), "acc-1", OptionUpdate{
		Kind:    domain.OptionKind("telemetry"),
		Payload: json.RawMessage(`true`),
	})
	require.ErrorIs(t, err, domain.ErrPreconditionViolated)
	assert.Zero(t, options.writes)
}

func TestSetPersistentOptionIgnoresEmbeddedFlag(t *testing.T) {
	t.Parallel()

	store := &fakeAccountStore{accounts: []domain.AccountMetadata{{ID: "acc-1"}}}
	svc := &fakeSessionService{store: store}
	options := newMemoryOptionStore()
	s, _ := newTestService(t, svc, store, options, false)

	err := s.SetPersistentOption(context.Background(), "acc-1", OptionUpdate{
		Kind:    domain.OptionDebug,
		Payload: json.RawMessage(`true`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, options.writes)
}

func TestPersistentOptionsReturnsDefaultsWhenMissing(t *testing.T) {
	t.Parallel()

	store := &fakeAccountStore{accounts: []domain.AccountMetadata{{ID: "acc-1"}}}
	svc := &fakeSessionService{store: store}
	s, _ := newTestService(t, svc, store, newMemoryOptionStore(), true)

	record, err := s.PersistentOptions(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPersistentOptions(), record)
}

func TestPersistentOptionsFillsMissingKinds(t *testing.T) {
	t.Parallel()

	store := &fakeAccountStore{accounts: []domain.AccountMetadata{{ID: "acc-1"}}}
	svc := &fakeSessionService{store: store}
	options := newMemoryOptionStore()
	options.records["acc-1"] = domain.PersistentOptions{
		domain.OptionTheme: json.RawMessage(`"dark"`),
	}
	s, _ := newTestService(t, svc, store, options, true)

	record, err := s.PersistentOptions(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.JSONEq(t, `"dark"`, string(record[domain.OptionTheme]))
	assert.JSONEq(t, `{"enabled":true,"sound":true}`, string(record[domain.OptionNotifications]))
}
