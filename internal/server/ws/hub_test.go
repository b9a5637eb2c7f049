package ws

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastReachesConnectedClient(t *testing.T) {
	h := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- h.Run(ctx) }()

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer srv.Close()

	conn := dialHub(t, srv)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	// The welcome frame is queued only after registration completes, so
	// reading it first makes the broadcast below race-free.
	var welcome envelope
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if welcome.Type != "status" {
		t.Fatalf("first frame type = %q, want status", welcome.Type)
	}

	h.Broadcast("match_result", map[string]any{"matchId": 7})

	var frame envelope
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if frame.Type != "match_result" {
		t.Errorf("frame type = %q, want match_result", frame.Type)
	}

	// Shutdown must close the connection rather than leave it dangling.
	cancel()
	if err := <-runDone; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection stayed readable after hub shutdown")
	}
}

func TestConnectAfterShutdownClosesPromptly(t *testing.T) {
	h := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- h.Run(ctx) }()
	cancel()
	if err := <-runDone; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		// Handshake refused outright is also acceptable.
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	start := time.Now()
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("connection stayed open after hub shutdown")
	}
	// A blocked registration would only fail at the read deadline; the
	// handler must close the connection immediately instead.
	if time.Since(start) > 2*time.Second {
		t.Fatal("read did not fail promptly; handler blocked on registration")
	}
}
