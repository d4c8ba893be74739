package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/backdrop/pkg/backdrop"
	berrors "github.com/matzehuels/backdrop/pkg/errors"
	"github.com/matzehuels/backdrop/pkg/observability"
	"github.com/matzehuels/backdrop/pkg/render"
)

const (
	queueSize      = 64
	writeTimeout   = 10 * time.Second
	pingInterval   = 25 * time.Second
	maxMessageSize = 1024
)

// Message types exchanged with the page script.
const (
	msgAppend = "append"
	msgRemove = "remove"
	msgResize = "resize"
)

type outMessage struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Markup string `json:"markup,omitempty"`
}

type inMessage struct {
	Type   string  `json:"type"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// wsConn is the subset of *websocket.Conn a session uses.
type wsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	Close() error
}

// session drives one browser page. It is the page's Surface: the only
// container it knows is the page's background container, and the viewport is
// whatever the page last reported.
type session struct {
	id          string
	containerID string
	conn        wsConn
	logger      *log.Logger

	mu       sync.Mutex
	width    float64
	height   float64
	attached map[string]bool

	out       chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(conn wsConn, containerID string, width, height float64, logger *log.Logger) *session {
	id := uuid.NewString()
	return &session{
		id:          id,
		containerID: containerID,
		conn:        conn,
		logger:      logger.With("session", id[:8]),
		width:       width,
		height:      height,
		attached:    make(map[string]bool),
		out:         make(chan []byte, queueSize),
		done:        make(chan struct{}),
	}
}

// Container implements backdrop.Surface.
func (s *session) Container(id string) (backdrop.Container, bool) {
	if id != s.containerID {
		return nil, false
	}
	select {
	case <-s.done:
		return nil, false
	default:
		return s, true
	}
}

// Viewport implements backdrop.Surface.
func (s *session) Viewport() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *session) resize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

// Append implements backdrop.Container. A full queue is reported as
// backpressure rather than blocking the spawner.
func (s *session) Append(e backdrop.Element) error {
	data, err := json.Marshal(outMessage{Type: msgAppend, ID: render.ElementID(e.ID), Markup: string(e.Markup)})
	if err != nil {
		return berrors.Wrap(berrors.ErrCodeInternal, err, "encode append")
	}
	select {
	case <-s.done:
		return berrors.New(berrors.ErrCodeNotFound, "session closed")
	default:
	}
	select {
	case s.out <- data:
	default:
		return berrors.New(berrors.ErrCodeBackpressure, "send queue full")
	}

	s.mu.Lock()
	s.attached[e.ID] = true
	s.mu.Unlock()
	return nil
}

// Remove implements backdrop.Container. It never blocks: a full send queue
// closes the session.
func (s *session) Remove(id string) bool {
	s.mu.Lock()
	if !s.attached[id] {
		s.mu.Unlock()
		return false
	}
	delete(s.attached, id)
	s.mu.Unlock()

	data, _ := json.Marshal(outMessage{Type: msgRemove, ID: render.ElementID(id)})
	select {
	case <-s.done:
	case s.out <- data:
	default:
		// The page would keep a drawing it can no longer be told to drop.
		s.logger.Warn("send queue full on remove, closing session", "id", id)
		s.close()
	}
	return true
}

// Contains implements backdrop.Container.
func (s *session) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached[id]
}

// Len implements backdrop.Container.
func (s *session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attached)
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// run starts the spawner and serves the connection until either side goes away.
func (s *session) run(ctx context.Context, sp *backdrop.Spawner) {
	started := time.Now()
	observability.Session().OnSessionOpen(ctx, s.id)
	s.logger.Info("session opened", "viewport", s.viewportString())
	defer func() {
		d := time.Since(started)
		observability.Session().OnSessionClose(ctx, s.id, d)
		s.logger.Info("session closed", "duration", d.Round(time.Millisecond))
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.writeLoop()
	}()

	if err := sp.Start(ctx); err != nil {
		s.logger.Error("start spawner", "err", err)
		s.close()
		wg.Wait()
		return
	}

	s.readLoop()
	s.close()
	sp.Stop()
	wg.Wait()
}

func (s *session) readLoop() {
	s.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg inMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Debug("ignoring malformed message", "err", err)
			continue
		}
		if msg.Type == msgResize && msg.Width > 0 && msg.Height > 0 {
			// Only later spawns see the new size.
			s.resize(msg.Width, msg.Height)
			s.logger.Debug("viewport resized", "width", msg.Width, "height", msg.Height)
		}
	}
}

func (s *session) writeLoop() {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-s.done:
			return
		case data := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("write failed", "err", err)
				s.close()
				return
			}
		case <-ping.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				s.close()
				return
			}
		}
	}
}

func (s *session) viewportString() string {
	w, h := s.Viewport()
	return formatSize(w, h)
}
