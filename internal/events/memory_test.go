package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBrokerFanOut(t *testing.T) {
	b := NewMemoryBroker()
	ctx := context.Background()

	a, cancelA, err := b.Subscribe(ctx)
	require.NoError(t, err)
	defer cancelA()
	c, cancelC, err := b.Subscribe(ctx)
	require.NoError(t, err)
	defer cancelC()

	require.NoError(t, b.Publish(ctx, Event{Type: MessageDeleted, IDs: []string{"x"}}))

	for _, ch := range []<-chan Event{a, c} {
		select {
		case e := <-ch:
			assert.Equal(t, MessageDeleted, e.Type)
			assert.Equal(t, []string{"x"}, e.IDs)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestMemoryBrokerCancelClosesChannel(t *testing.T) {
	b := NewMemoryBroker()
	ctx, cancelCtx := context.WithCancel(context.Background())

	ch, _, err := b.Subscribe(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Subscribers())

	cancelCtx()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}
	assert.Equal(t, 0, b.Subscribers())
}

func TestMemoryBrokerDropsWhenFull(t *testing.T) {
	b := NewMemoryBroker()
	ch, cancel, err := b.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		require.NoError(t, b.Publish(context.Background(), Event{Type: MessageCreated}))
	}
	assert.Len(t, ch, subscriberBuffer)
}
