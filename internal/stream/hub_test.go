package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/righthome/righthome/internal/scoring"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", want, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastScoreComputed(t *testing.T) {
	hub := startHub(t)
	conn := dial(t, hub)
	waitForClients(t, hub, 1)

	hub.ScoreComputed(scoring.ScoreResult{
		Score: 78.70,
		Tier:  scoring.TierRecommended,
		Meta:  scoring.ScoreMeta{PropertyID: "prop123"},
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))

	assert.Equal(t, MessageTypeScoreComputed, msg.Type)
	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 78.70, data["score"])
}

func TestHub_FansOutToAllClients(t *testing.T) {
	hub := startHub(t)
	first := dial(t, hub)
	second := dial(t, hub)
	waitForClients(t, hub, 2)

	hub.ComparisonCompleted(scoring.ComparisonResult{Summary: "Analyzed 2 properties against the configured weights."})

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, MessageTypeComparisonCompleted, msg.Type)
	}
}

func TestHub_PingGetsPong(t *testing.T) {
	hub := startHub(t)
	conn := dial(t, hub)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.WriteJSON(Message{Type: MessageTypePing}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageTypePong, msg.Type)
}

func TestHub_DisconnectLowersCount(t *testing.T) {
	hub := startHub(t)
	conn := dial(t, hub)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 0)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()

	conn := dial(t, hub)
	waitForClients(t, hub, 1)

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, hub.ClientCount())

	_ = conn.Close()
}
