package realtime

import (
	"testing"

	"github.com/google/uuid"

	"github.com/praxishq/praxis-backend/internal/platform/logger"
)

func hubForTest(t *testing.T) *SSEHub {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewSSEHub(log)
}

func TestBroadcastReachesSubscribedClient(t *testing.T) {
	hub := hubForTest(t)
	userID := uuid.New()
	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, userID.String())

	hub.Broadcast(SSEMessage{Channel: userID.String(), Event: "simulation.started", Data: map[string]any{"ok": true}})

	select {
	case msg := <-client.Outbound:
		if msg.Event != "simulation.started" {
			t.Fatalf("event = %q", msg.Event)
		}
	default:
		t.Fatalf("no message delivered")
	}
}

func TestBroadcastSkipsOtherChannels(t *testing.T) {
	hub := hubForTest(t)
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, "channel-a")

	hub.Broadcast(SSEMessage{Channel: "channel-b", Event: "noise"})

	select {
	case msg := <-client.Outbound:
		t.Fatalf("unexpected delivery: %+v", msg)
	default:
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := hubForTest(t)
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, "ch")

	// Outbound buffer is 10; the 11th send must not block.
	for i := 0; i < 11; i++ {
		hub.Broadcast(SSEMessage{Channel: "ch", Event: "tick"})
	}
	if got := len(client.Outbound); got != 10 {
		t.Fatalf("buffered = %d, want 10", got)
	}
}

func TestRemoveClientStopsDelivery(t *testing.T) {
	hub := hubForTest(t)
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, "ch-1")
	hub.AddChannel(client, "ch-2")

	hub.RemoveClient(client)

	hub.Broadcast(SSEMessage{Channel: "ch-1", Event: "tick"})
	hub.Broadcast(SSEMessage{Channel: "ch-2", Event: "tick"})
	if got := len(client.Outbound); got != 0 {
		t.Fatalf("delivered %d messages to removed client", got)
	}
}

func TestRemoveChannelKeepsOtherSubscriptions(t *testing.T) {
	hub := hubForTest(t)
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, "keep")
	hub.AddChannel(client, "drop")

	hub.RemoveChannel(client, "drop")

	hub.Broadcast(SSEMessage{Channel: "drop", Event: "tick"})
	hub.Broadcast(SSEMessage{Channel: "keep", Event: "tick"})
	if got := len(client.Outbound); got != 1 {
		t.Fatalf("buffered = %d, want 1", got)
	}
}
