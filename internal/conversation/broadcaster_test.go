// ABOUTME: Tests for EventBroadcaster fan-out pub/sub system
// ABOUTME: Covers subscribe, publish, unsubscribe, context cancellation, concurrency

package conversation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEvent(t EventType) Event {
	return Event{Type: t, State: StateIdle}
}

func TestBroadcaster_SingleSubscriberReceivesEvent(t *testing.T) {
	b := NewEventBroadcaster(nil)
	defer b.Close()

	ch, _ := b.Subscribe(testContext(t))

	b.Publish(makeEvent(EventCleared))

	select {
	case received := <-ch:
		assert.Equal(t, EventCleared, received.Type)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBroadcaster_MultipleSubscribersReceiveSameEvent(t *testing.T) {
	b := NewEventBroadcaster(nil)
	defer b.Close()

	ctx := testContext(t)
	ch1, _ := b.Subscribe(ctx)
	ch2, _ := b.Subscribe(ctx)
	ch3, _ := b.Subscribe(ctx)

	b.Publish(makeEvent(EventStateChanged))

	for i, ch := range []<-chan Event{ch1, ch2, ch3} {
		select {
		case received := <-ch:
			assert.Equal(t, EventStateChanged, received.Type, "subscriber %d", i)
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d timed out", i)
		}
	}
}

func TestBroadcaster_SlowConsumerDoesNotBlockPublisher(t *testing.T) {
	b := NewEventBroadcaster(nil)
	defer b.Close()

	ctx := testContext(t)

	// Never read from the first subscriber
	_, _ = b.Subscribe(ctx)
	ch2, _ := b.Subscribe(ctx)

	published := make(chan struct{})
	go func() {
		defer close(published)
		for i := 0; i < subscriberBufferSize*2; i++ {
			b.Publish(makeEvent(EventPhaseChanged))
		}
	}()

	received := 0
	for received < subscriberBufferSize {
		select {
		case <-ch2:
			received++
		case <-time.After(time.Second):
			t.Fatalf("fast consumer stalled after %d events", received)
		}
	}

	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on slow subscriber")
	}
}

func TestBroadcaster_ContextCancellationCleansUp(t *testing.T) {
	b := NewEventBroadcaster(nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, subID := b.Subscribe(ctx)

	b.mu.RLock()
	_, exists := b.subscribers[subID]
	b.mu.RUnlock()
	assert.True(t, exists, "subscription should exist before cancel")

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should be closed after context cancel")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}

	b.mu.RLock()
	_, exists = b.subscribers[subID]
	b.mu.RUnlock()
	assert.False(t, exists, "subscription should be removed after context cancel")
}

func TestBroadcaster_ManualUnsubscribe(t *testing.T) {
	b := NewEventBroadcaster(nil)
	defer b.Close()

	ch, subID := b.Subscribe(testContext(t))

	b.Unsubscribe(subID)
	b.Unsubscribe(subID)

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should be closed after unsubscribe")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}

	// Publishing should not panic
	b.Publish(makeEvent(EventCleared))
}

func TestBroadcaster_CloseClosesAllSubscriptions(t *testing.T) {
	b := NewEventBroadcaster(nil)

	ch1, _ := b.Subscribe(testContext(t))
	ch2, _ := b.Subscribe(testContext(t))

	b.Close()

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case _, ok := <-ch:
			assert.False(t, ok, "channel %d should be closed after Close()", i)
		case <-time.After(time.Second):
			t.Fatalf("channel %d not closed after Close()", i)
		}
	}
}

func TestBroadcaster_SubscribeAfterCloseReturnsClosedChannel(t *testing.T) {
	b := NewEventBroadcaster(nil)
	b.Close()

	ch, _ := b.Subscribe(testContext(t))
	_, ok := <-ch
	assert.False(t, ok)

	b.Publish(makeEvent(EventCleared))
	b.Close()
}

func TestBroadcaster_ConcurrentPublishSubscribe(t *testing.T) {
	b := NewEventBroadcaster(nil)
	defer b.Close()

	var wg sync.WaitGroup
	ctx := testContext(t)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch, _ := b.Subscribe(ctx)
			for j := 0; j < 5; j++ {
				select {
				case <-ch:
				case <-time.After(500 * time.Millisecond):
					return
				}
			}
		}()
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				b.Publish(makeEvent(EventMessageAppended))
			}
		}()
	}

	wg.Wait()
}

func TestBroadcaster_SubscribeReturnsUniqueIDs(t *testing.T) {
	b := NewEventBroadcaster(nil)
	defer b.Close()

	ctx := testContext(t)
	_, id1 := b.Subscribe(ctx)
	_, id2 := b.Subscribe(ctx)

	require.NotEqual(t, id1, id2)
}

func TestConversation_OrdinalsSurviveClear(t *testing.T) {
	var c Conversation

	first := c.Append(RoleUser, "hola", nil, nil)
	c.Append(RoleAssistant, "buenas", nil, nil)
	c.Clear()
	assert.Zero(t, c.Len())

	next := c.Append(RoleAssistant, "late", nil, nil)
	assert.Greater(t, next.Ordinal, first.Ordinal+1)
	assert.NotEqual(t, first.ID, next.ID)
}

func TestConversation_MessagesReturnsCopy(t *testing.T) {
	var c Conversation
	c.Append(RoleUser, "hola", nil, nil)

	msgs := c.Messages()
	msgs[0].Content = "mutated"

	assert.Equal(t, "hola", c.Messages()[0].Content)
}

// testContext returns a context that is cancelled when the test finishes.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
