package web

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Inbound message types.
const (
	msgMove  = "move"
	msgSwipe = "swipe"
	msgAck   = "ack"

	// msgInvalid stands in for a frame that was not valid JSON.
	msgInvalid = "invalid"
)

// Outbound message types.
const (
	msgState    = "state"
	msgFrame    = "frame"
	msgRejected = "rejected"
	msgError    = "error"
)

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// clientMessage is an intent sent by the browser.
type clientMessage struct {
	Type string `json:"type"`
	Dir  string `json:"dir,omitempty"`
	From point  `json:"from"`
	To   point  `json:"to"`
}

// serverMessage carries a frame and the events that produced it.
type serverMessage struct {
	Type     string          `json:"type"`
	Frame    *t2048.Frame    `json:"frame,omitempty"`
	Snapshot *t2048.Snapshot `json:"snapshot,omitempty"`
	Events   []t2048.Event   `json:"events,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type sessionConfig struct {
	preset   string
	player   string
	tickRate int
	store    *storage.Store
	logger   *log.Logger
}

// session drives one simulation for one connection. Only the run goroutine
// touches the simulation or writes to the connection.
type session struct {
	conn     *websocket.Conn
	sim      *t2048.Simulation
	cfg      sessionConfig
	pending  []t2048.Event
	dirty    bool
	recorded bool
}

func newSession(conn *websocket.Conn, sim *t2048.Simulation, cfg sessionConfig) *session {
	return &session{conn: conn, sim: sim, cfg: cfg}
}

func (s *session) run(ctx context.Context) {
	defer s.conn.Close()

	intents := make(chan clientMessage, 16)
	quit := make(chan struct{})
	readDone := make(chan struct{})
	defer close(quit)
	go s.readPump(intents, quit, readDone)

	s.cfg.logger.Info("session started", "player", s.cfg.player)
	defer func() {
		s.recordAbandoned()
		s.cfg.logger.Info("session ended", "player", s.cfg.player, "score", s.sim.Score())
	}()

	frame := s.sim.Frame()
	snap := s.sim.Snapshot()
	if err := s.send(serverMessage{Type: msgState, Frame: &frame, Snapshot: &snap}); err != nil {
		return
	}

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.tickRate))
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case <-readDone:
			return

		case msg := <-intents:
			if err := s.apply(msg); err != nil {
				return
			}

		case <-ticker.C:
			res := s.sim.Tick()
			s.observe(res.Events)
			s.pending = append(s.pending, res.Events...)
			if !s.dirty && len(s.pending) == 0 && !s.sim.Board().Animating() {
				continue
			}
			frame := res.Frame
			msg := serverMessage{Type: msgFrame, Frame: &frame, Events: s.pending}
			if len(s.pending) > 0 {
				snap := s.sim.Snapshot()
				msg.Snapshot = &snap
			}
			s.pending = nil
			s.dirty = false
			if err := s.send(msg); err != nil {
				return
			}

		case <-ping.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// apply turns one intent into simulation calls. Only write errors are
// returned; bad intents are answered with an error message.
func (s *session) apply(msg clientMessage) error {
	switch msg.Type {
	case msgMove:
		dir, err := t2048.ParseDirection(msg.Dir)
		if err != nil {
			return s.send(serverMessage{Type: msgError, Error: err.Error()})
		}
		return s.move(dir)

	case msgSwipe:
		from := core.V(msg.From.X, msg.From.Y)
		to := core.V(msg.To.X, msg.To.Y)
		dir, ok := t2048.DetectSwipe(from, to, s.sim.MinSwipeDistance())
		if !ok {
			return nil
		}
		return s.move(dir)

	case msgAck:
		events, ok := s.sim.Acknowledge()
		if !ok {
			return s.send(serverMessage{Type: msgRejected, Error: "round is still playing"})
		}
		s.observe(events)
		s.pending = append(s.pending, events...)
		s.dirty = true
		return nil

	case msgInvalid:
		return s.send(serverMessage{Type: msgError, Error: "malformed message"})

	default:
		return s.send(serverMessage{Type: msgError, Error: "unknown message type: " + msg.Type})
	}
}

func (s *session) move(dir t2048.Direction) error {
	events, ok := s.sim.Move(dir)
	if !ok {
		return s.send(serverMessage{Type: msgRejected, Error: "cannot move " + dir.String()})
	}
	s.pending = append(s.pending, events...)
	s.dirty = true
	return nil
}

// observe records each finished round once.
func (s *session) observe(events []t2048.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case t2048.EventWin:
			if !s.recorded {
				s.record(storage.OutcomeWon)
			}
		case t2048.EventGameOver:
			if !s.recorded {
				s.record(storage.OutcomeGameOver)
			}
		case t2048.EventReset:
			s.recorded = false
		}
	}
}

func (s *session) recordAbandoned() {
	if !s.recorded && s.sim.Score() > 0 {
		s.record(storage.OutcomeAbandoned)
	}
}

func (s *session) record(outcome storage.Outcome) {
	s.recorded = true
	if s.cfg.store == nil {
		return
	}

	_, err := s.cfg.store.SaveResult(storage.Result{
		GameID:  s.cfg.preset,
		Score:   s.sim.Score(),
		MaxTile: s.sim.MaxTile(),
		Outcome: outcome,
		Player:  s.cfg.player,
	})
	if err != nil {
		s.cfg.logger.Warn("could not save result", "error", err)
	}
}

func (s *session) send(msg serverMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		s.cfg.logger.Error("cannot marshal message", "type", msg.Type, "error", err)
		return nil
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// readPump decodes intents until the connection fails.
func (s *session) readPump(intents chan<- clientMessage, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.cfg.logger.Warn("websocket error", "error", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			msg = clientMessage{Type: msgInvalid}
		}

		select {
		case intents <- msg:
		case <-quit:
			return
		}
	}
}
