// Package web serves the game to browsers: one economy and driver per
// WebSocket connection, frames pushed as JSON.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/stardust/internal/economy"
	"github.com/tomz197/stardust/internal/loop"
	"github.com/tomz197/stardust/internal/loop/config"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 64
)

// errSendBufferFull is returned by Render when the browser is not keeping up.
var errSendBufferFull = errors.New("send buffer full")

// Message types on the wire.
const (
	TypeClick  = "click"
	TypeBuy    = "buy"
	TypeFrame  = "frame"
	TypeEffect = "effect"
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type    string `json:"type"`
	Upgrade string `json:"upgrade,omitempty"`
}

// FrameMessage is one rendered frame.
type FrameMessage struct {
	Type string `json:"type"`
	loop.Frame
}

// Options configures the handler.
type Options struct {
	Logger    *log.Logger
	FrameTime time.Duration
	Policy    loop.EffectPolicy // The zero value disables effects
	Upgrades  []economy.Upgrade // Defaults to the built-in table
	// BaseContext is cancelled on server shutdown to end every session.
	BaseContext context.Context
}

// Handler upgrades requests to WebSocket game sessions.
type Handler struct {
	upgrader websocket.Upgrader
	opts     Options
	log      *log.Logger
	sessions sync.WaitGroup
}

// NewHandler creates a handler.
func NewHandler(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.FrameTime <= 0 {
		opts.FrameTime = time.Second / config.WebTargetFPS
	}
	if opts.BaseContext == nil {
		opts.BaseContext = context.Background()
	}
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		opts: opts,
		log:  opts.Logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	h.sessions.Add(1)
	defer h.sessions.Done()

	logger := h.log.With("remote", r.RemoteAddr)
	logger.Info("session started")
	newSession(conn, h.opts, logger).run(h.opts.BaseContext)
	logger.Info("session ended")
}

// Wait blocks until every session has ended.
func (h *Handler) Wait() {
	h.sessions.Wait()
}

// session is one connected browser. It implements loop.RenderSink and
// loop.EffectSink, and both run on the driver goroutine.
type session struct {
	conn   *websocket.Conn
	send   chan []byte
	driver *loop.Driver
	log    *log.Logger
}

func newSession(conn *websocket.Conn, opts Options, logger *log.Logger) *session {
	upgrades := opts.Upgrades
	if upgrades == nil {
		upgrades = economy.DefaultUpgrades()
	}
	s := &session{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		log:  logger,
	}
	s.driver = loop.NewDriver(economy.New(upgrades), s, s,
		loop.WithLogger(logger),
		loop.WithFrameTime(opts.FrameTime),
		loop.WithEffectPolicy(opts.Policy),
	)
	return s
}

func (s *session) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.driver.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		s.writer(ctx)
	}()

	go func() {
		// Unblock the reader when the server shuts down
		<-ctx.Done()
		_ = s.conn.SetReadDeadline(time.Now())
	}()

	s.reader()
	cancel()
	wg.Wait()
	_ = s.conn.Close()
}

// Render queues the frame for the browser, dropping it if the writer is behind.
func (s *session) Render(frame loop.Frame) error {
	b, err := json.Marshal(FrameMessage{Type: TypeFrame, Frame: frame})
	if err != nil {
		return err
	}
	return s.enqueue(b)
}

// SpawnEffect asks the browser for one shooting star.
func (s *session) SpawnEffect() {
	if err := s.enqueue([]byte(`{"type":"effect"}`)); err != nil {
		s.log.Debug("effect dropped", "err", err)
	}
}

func (s *session) enqueue(b []byte) error {
	select {
	case s.send <- b:
		return nil
	default:
		return errSendBufferFull
	}
}

// reader decodes browser messages into driver input until the connection
// fails or closes.
func (s *session) reader() {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("read failed", "err", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Debug("bad message", "err", err)
			continue
		}
		switch msg.Type {
		case TypeClick:
			s.driver.OnClick()
		case TypeBuy:
			s.driver.OnPurchaseRequest(msg.Upgrade)
		default:
			s.log.Debug("unknown message type", "type", msg.Type)
		}
	}
}

// writer sends queued messages and keeps the connection alive with pings.
func (s *session) writer(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.log.Debug("write failed", "err", err)
				_ = s.conn.Close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = s.conn.Close()
				return
			}
		}
	}
}
