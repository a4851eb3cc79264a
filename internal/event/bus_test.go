package event

import (
	"sync"
	"testing"

	"github.com/bnema/messenger-accounts-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDispatchesToMatchingSubscribers(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	var got []Event
	bus.Subscribe(TypeSwitchAccount, func(e Event) { got = append(got, e) })

	var other int
	bus.Subscribe(TypeAccountCreated, func(Event) { other++ })

	bus.Publish(NewSwitchAccountEvent("acc-1"))

	require.Len(t, got, 1)
	sw := got[0].(SwitchAccountEvent)
	assert.Equal(t, domain.AccountID("acc-1"), sw.AccountID)
	assert.Zero(t, other)
}

func TestBusSpecificSubscribersRunBeforeWildcard(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	var order []string
	bus.SubscribeAll(func(Event) { order = append(order, "wildcard") })
	bus.Subscribe(TypeSessionClosed, func(Event) { order = append(order, "specific") })

	bus.Publish(NewSessionClosedEvent("acc-1"))

	assert.Equal(t, []string{"specific", "wildcard"}, order)
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	calls := 0
	id := bus.Subscribe(TypeAccountCreated, func(Event) { calls++ })

	bus.Publish(NewAccountCreatedEvent("acc-1"))
	require.True(t, bus.Unsubscribe(id))
	bus.Publish(NewAccountCreatedEvent("acc-2"))

	assert.Equal(t, 1, calls)
	assert.False(t, bus.Unsubscribe(id))
	assert.Zero(t, bus.SubscriptionCount())
}

func TestBusPanickingHandlerDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	bus.Subscribe(TypeSessionOpened, func(Event) { panic("boom") })

	delivered := false
	bus.Subscribe(TypeSessionOpened, func(Event) { delivered = true })

	require.NotPanics(t, func() {
		bus.Publish(NewSessionOpenedEvent("acc-1"))
	})
	assert.True(t, delivered)
}

func TestBusConcurrentPublishAndSubscribe(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	var mu sync.Mutex
	count := 0
	bus.SubscribeAll(func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				bus.Publish(NewAccountListRefreshedEvent(nil))
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := bus.Subscribe(TypeSwitchAccount, func(Event) {})
			bus.Unsubscribe(id)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 8*50, count)
}

func TestEventTimestampsAreSet(t *testing.T) {
	t.Parallel()

	e := NewAccountCreatedEvent("acc-1")
	assert.False(t, e.Timestamp().IsZero())
	assert.Equal(t, TypeAccountCreated, e.EventType())
}
