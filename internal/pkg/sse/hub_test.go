package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicSubscribersOnly(t *testing.T) {
	hub := NewHub()

	a, cleanupA := hub.Subscribe("dashboard:c1")
	defer cleanupA()
	b, cleanupB := hub.Subscribe("dashboard:c2")
	defer cleanupB()

	n := hub.Publish("dashboard:c1", Event{Event: "check_in", Data: "x"})
	assert.Equal(t, 1, n)

	select {
	case ev := <-a:
		assert.Equal(t, "dashboard:c1", ev.Topic)
		assert.Equal(t, "check_in", ev.Event)
	default:
		t.Fatal("subscriber of c1 did not receive the event")
	}

	select {
	case ev := <-b:
		t.Fatalf("subscriber of c2 received %v", ev)
	default:
	}
}

func TestHub_FullSubscriberIsSkipped(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("t")
	defer cleanup()

	for i := 0; i < hub.buffer; i++ {
		require.Equal(t, 1, hub.Publish("t", Event{}))
	}
	assert.Equal(t, 0, hub.Publish("t", Event{}), "publish must not block on a full subscriber")
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("t")
	assert.Equal(t, 1, hub.SubscriberCount("t"))
	assert.Equal(t, 1, hub.TotalSubscribers())

	cleanup()
	cleanup()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount("t"))
	assert.Equal(t, 0, hub.Publish("t", Event{}))
}
