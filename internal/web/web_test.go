package web

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomz197/stardust/internal/loop"
)

type serverMessage struct {
	Type       string             `json:"type"`
	Amount     float64            `json:"amount"`
	GrowthRate float64            `json:"growthRate"`
	Upgrades   []loop.UpgradeView `json:"upgrades"`
}

func startServer(t *testing.T, opts Options) (*websocket.Conn, *Handler) {
	t.Helper()
	if opts.FrameTime == 0 {
		opts.FrameTime = 5 * time.Millisecond
	}
	h := NewHandler(opts)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, h
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil reads messages until match returns true or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, match func(serverMessage) bool) serverMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var msg serverMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode %s: %v", data, err)
		}
		if match(msg) {
			return msg
		}
	}
}

func TestClickAndBuy(t *testing.T) {
	conn, _ := startServer(t, Options{})

	first := readUntil(t, conn, func(m serverMessage) bool { return m.Type == TypeFrame })
	if len(first.Upgrades) != 3 || first.Upgrades[0].ID != "collector" {
		t.Fatalf("unexpected upgrades %+v", first.Upgrades)
	}

	for i := 0; i < 12; i++ {
		send(t, conn, ClientMessage{Type: TypeClick})
	}
	send(t, conn, ClientMessage{Type: TypeBuy, Upgrade: "collector"})

	got := readUntil(t, conn, func(m serverMessage) bool {
		return m.Type == TypeFrame && len(m.Upgrades) > 0 && m.Upgrades[0].Count == 1
	})
	if got.Upgrades[0].Cost != 11.5 || got.GrowthRate != 0.1 {
		t.Fatalf("unexpected frame %+v", got)
	}
	if got.Amount < 2 || got.Amount > 3 {
		t.Fatalf("expected about 2 stardust got %f", got.Amount)
	}
}

func TestBadMessagesIgnored(t *testing.T) {
	conn, _ := startServer(t, Options{})

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	send(t, conn, ClientMessage{Type: "dance"})
	send(t, conn, ClientMessage{Type: TypeBuy, Upgrade: "missing"})
	send(t, conn, ClientMessage{Type: TypeClick})

	readUntil(t, conn, func(m serverMessage) bool { return m.Type == TypeFrame && m.Amount == 1 })
}

func TestEffectsArePushed(t *testing.T) {
	conn, _ := startServer(t, Options{Policy: loop.AmountPolicy()})
	for i := 0; i < 20; i++ {
		send(t, conn, ClientMessage{Type: TypeClick})
	}
	readUntil(t, conn, func(m serverMessage) bool { return m.Type == TypeEffect })
}

func TestShutdownEndsSessions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	conn, h := startServer(t, Options{BaseContext: ctx})
	readUntil(t, conn, func(m serverMessage) bool { return m.Type == TypeFrame })

	cancel()
	done := make(chan struct{})
	go func() {
		h.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatalf("sessions did not end")
	}
}

func TestRenderDropsWhenBufferFull(t *testing.T) {
	s := &session{send: make(chan []byte, 1)}
	if err := s.Render(loop.Frame{Amount: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Render(loop.Frame{Amount: 2}); err != errSendBufferFull {
		t.Fatalf("expected errSendBufferFull got %v", err)
	}

	var msg serverMessage
	if err := json.Unmarshal(<-s.send, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != TypeFrame || msg.Amount != 1 || msg.Upgrades != nil {
		t.Fatalf("unexpected message %+v", msg)
	}
}
