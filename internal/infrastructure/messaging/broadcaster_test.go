package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/observability/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBroadcaster(t *testing.T) *EditorBroadcaster {
	t.Helper()
	b := NewEditorBroadcaster(logging.NewDiscardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)
	t.Cleanup(cancel)
	return b
}

func TestBroadcastReachesOnlySiteClients(t *testing.T) {
	b := startBroadcaster(t)
	acme := NewClient("acme", nil)
	globex := NewClient("globex", nil)
	b.Register(acme)
	b.Register(globex)
	require.Eventually(t, func() bool { return b.ClientCount("acme") == 1 && b.ClientCount("globex") == 1 }, time.Second, 5*time.Millisecond)

	b.Broadcast("acme", Event{Type: "mutation", Payload: map[string]any{"description": "Added page"}})

	select {
	case raw := <-acme.Send:
		var got Event
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "mutation", got.Type)
		assert.Equal(t, "acme", got.SiteID)
		assert.False(t, got.At.IsZero())
	case <-time.After(time.Second):
		t.Fatal("acme client received nothing")
	}
	assert.Empty(t, globex.Send)
}

func TestUnregisterClosesSend(t *testing.T) {
	b := startBroadcaster(t)
	c := NewClient("acme", nil)
	b.Register(c)
	b.Unregister(c)

	require.Eventually(t, func() bool { return b.ClientCount("acme") == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)

	// a second unregister is harmless
	b.Unregister(c)
}

func TestFullBufferDropsEvents(t *testing.T) {
	b := startBroadcaster(t)
	c := NewClient("acme", nil)
	b.Register(c)
	require.Eventually(t, func() bool { return b.ClientCount("acme") == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i < sendBufferSize+5; i++ {
		b.Broadcast("acme", Event{Type: "mutation"})
	}
	assert.Len(t, c.Send, sendBufferSize)
}

func TestStoppedBroadcasterClosesClients(t *testing.T) {
	b := NewEditorBroadcaster(logging.NewDiscardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(stopped)
	}()

	c := NewClient("acme", nil)
	b.Register(c)
	cancel()
	<-stopped

	_, open := <-c.Send
	assert.False(t, open)

	late := NewClient("acme", nil)
	b.Register(late)
	_, open = <-late.Send
	assert.False(t, open)
}

func TestWritePumpDeliversOverWebsocket(t *testing.T) {
	b := startBroadcaster(t)
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient("acme", conn)
		b.Register(client)
		go client.WritePump(time.Second, time.Second)
		client.ReadPump(b, 5*time.Second)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return b.ClientCount("acme") == 1 }, time.Second, 5*time.Millisecond)
	b.Broadcast("acme", Event{Type: "saved"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var got Event
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "saved", got.Type)

	conn.Close()
	assert.Eventually(t, func() bool { return b.ClientCount("acme") == 0 }, 2*time.Second, 10*time.Millisecond)
}
