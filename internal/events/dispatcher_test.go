package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishStampsAndFansOut(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []Event
	d.Subscribe(EventSnapshotReplaced, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	d.Subscribe(EventSnapshotReplaced, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	d.Subscribe(EventFetchFailed, func(context.Context, Event) error {
		t.Fatal("wrong event type delivered")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventSnapshotReplaced, Payload: SnapshotReplacedPayload{TicketCount: 3}})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, got[0].ID, got[1].ID)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestPublishContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()
	calls := 0
	d.Subscribe(EventFetchFailed, func(context.Context, Event) error {
		calls++
		return errors.New("first")
	})
	d.Subscribe(EventFetchFailed, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventFetchFailed})
	assert.ErrorContains(t, err, "first")
	assert.Equal(t, 2, calls)
}
