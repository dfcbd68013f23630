package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(4)
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	bus.Publish(Event{Store: StoreFile, Kind: "files_set", ProjectID: "p1"})

	select {
	case e := <-ch:
		assert.Equal(t, StoreFile, e.Store)
		assert.Equal(t, "files_set", e.Kind)
		assert.Equal(t, "p1", e.ProjectID)
		assert.NotZero(t, e.At)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus(1)
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.Publish(Event{Store: StoreTerminal, Kind: "log_added"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Len(t, ch, 1)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(1)
	ch, unsubscribe := bus.Subscribe()
	require.Equal(t, 1, bus.Subscribers())

	unsubscribe()
	unsubscribe()

	assert.Equal(t, 0, bus.Subscribers())
	_, open := <-ch
	assert.False(t, open)

	bus.Publish(Event{Store: StoreAuth})
}
