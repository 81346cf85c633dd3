package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	go hub.Run(ctx)

	srv := httptest.NewServer(NewHandler(hub, nil))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_NotifyReachesEveryClient(t *testing.T) {
	hub, srv := startHub(t)
	a := dial(t, srv)
	b := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Notify("catalog_updated", map[string]string{"skill": "Python"})

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)

		var evt Event
		require.NoError(t, json.Unmarshal(msg, &evt))
		assert.Equal(t, "catalog_updated", evt.Type)
		assert.Equal(t, map[string]any{"skill": "Python"}, evt.Data)
		assert.NotEmpty(t, evt.Timestamp)
	}
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_NilSafe(t *testing.T) {
	var hub *Hub
	hub.Notify("x", nil)
	hub.Broadcast([]byte("x"))
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)
	_, open := <-c.send
	assert.False(t, open)
}

func TestHub_QueuedRegistrationClosedOnStop(t *testing.T) {
	hub := NewHub(nil)
	queued := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(queued)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Run(ctx)

	select {
	case _, open := <-queued.send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("queued client was never closed")
	}
	assert.Equal(t, 0, hub.ClientCount())

	late := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(late)
	_, open := <-late.send
	assert.False(t, open)
}
