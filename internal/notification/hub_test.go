package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldwake/PetGrotto_Go/internal/testing/leaktest"
)

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.ClientCount() == n
	}, time.Second, 5*time.Millisecond)
}

func TestHub_BroadcastReachesClient(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	client := hub.Register(nil)
	waitForClients(t, hub, 1)

	hub.Broadcast(EventTypeNotification, map[string]string{"message": "pet fed"})

	select {
	case event := <-client.EventChannel:
		assert.Equal(t, EventTypeNotification, event.Type)
		assert.NotEmpty(t, event.ID)
	case <-time.After(time.Second):
		t.Fatal("client never received the broadcast")
	}
}

func TestHub_EventFilter(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	filtered := hub.Register([]string{EventTypeKeepalive})
	waitForClients(t, hub, 1)

	hub.Broadcast(EventTypeNotification, nil)
	hub.Broadcast(EventTypeKeepalive, nil)

	select {
	case event := <-filtered.EventChannel:
		assert.Equal(t, EventTypeKeepalive, event.Type, "filtered client should only see subscribed types")
	case <-time.After(time.Second):
		t.Fatal("filtered client never received its event")
	}
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	client := hub.Register(nil)
	waitForClients(t, hub, 1)

	hub.Unregister(client.ID)
	waitForClients(t, hub, 0)

	select {
	case _, open := <-client.EventChannel:
		assert.False(t, open, "channel should be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("channel never closed")
	}
}

func TestHub_StopDoesNotLeak(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		hub := NewHub()
		hub.Start()
		hub.Register(nil)
		waitForClients(t, hub, 1)
		hub.Broadcast(EventTypeNotification, nil)
		hub.Stop()
	})
}

func TestFormatStreamMessage(t *testing.T) {
	event := StreamEvent{ID: "abc", Type: EventTypeConnected, Timestamp: 123}
	msg, err := FormatStreamMessage(event)
	require.NoError(t, err)
	assert.Contains(t, string(msg), "id: abc\n")
	assert.Contains(t, string(msg), "event: connected\n")
	assert.Contains(t, string(msg), "data: {")
}

func TestService_RecentRingCapped(t *testing.T) {
	svc := NewService(nil)
	for i := 0; i < RecentRingSize+10; i++ {
		svc.Info("tick")
	}
	svc.Success("done")

	recent := svc.Recent()
	require.Len(t, recent, RecentRingSize)
	assert.Equal(t, LevelSuccess, recent[len(recent)-1].Level)
	assert.Equal(t, "done", recent[len(recent)-1].Message)
}
