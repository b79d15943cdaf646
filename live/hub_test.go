package live

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func runHub(t *testing.T) (*Hub, context.CancelFunc, chan struct{}) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	return hub, cancel, done
}

func TestHubBroadcastReachesSubscribedFeedOnly(t *testing.T) {
	hub, cancel, _ := runHub(t)
	defer cancel()

	players := &Client{Hub: hub, Send: make(chan []byte, 1), Feed: FeedPlayers}
	gallery := &Client{Hub: hub, Send: make(chan []byte, 1), Feed: FeedGallery}
	hub.Register <- players
	hub.Register <- gallery

	hub.BroadcastToFeed(FeedPlayers, Event{Type: EventPlayerCreated, Payload: map[string]int{"id": 7}})

	select {
	case raw := <-players.Send:
		var event Event
		require.NoError(t, json.Unmarshal(raw, &event))
		require.Equal(t, EventPlayerCreated, event.Type)
		require.Equal(t, FeedPlayers, event.Feed)
	case <-time.After(time.Second):
		t.Fatal("players subscriber received nothing")
	}

	select {
	case raw := <-gallery.Send:
		t.Fatalf("gallery subscriber received a players event: %s", raw)
	default:
	}
}

func TestHubRunStopsOnContextCancel(t *testing.T) {
	hub, cancel, done := runHub(t)

	client := &Client{Hub: hub, Send: make(chan []byte, 1), Feed: FeedPlayers}
	hub.Register <- client

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop after context cancellation")
	}

	// Канал подписчика закрыт, его write pump завершится.
	select {
	case _, open := <-client.Send:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("subscriber send channel was not closed")
	}

	client.Mu.Lock()
	require.True(t, client.IsClosed)
	client.Mu.Unlock()
}
