// Package web serves the board simulation to browsers over WebSocket.
// Every connection owns its own simulation; the browser only draws the
// frames it is sent.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

//go:embed static
var static embed.FS

// Config holds the web server settings.
type Config struct {
	Address  string
	TickRate int
	Board    config.BoardConfig
}

// DefaultConfig returns a config listening on :8080 at 60 ticks per second,
// using the base board config installed with t2048.SetBoardConfig.
func DefaultConfig() Config {
	return Config{
		Address:  ":8080",
		TickRate: 60,
		Board:    t2048.BaseConfig(),
	}
}

// Server routes HTTP and WebSocket traffic.
type Server struct {
	cfg      Config
	router   *mux.Router
	store    *storage.Store
	logger   *log.Logger
	upgrader websocket.Upgrader

	// Sessions run on ctx rather than the request context, which Shutdown
	// never cancels for hijacked connections.
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	closed   bool
	sessions sync.WaitGroup
}

// NewServer builds the router. store may be nil, in which case results are
// not recorded and the scores endpoint returns an empty list.
func NewServer(cfg Config, store *storage.Store, logger *log.Logger) *Server {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		router: mux.NewRouter(),
		store:  store,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
	s.router.HandleFunc("/ws/{preset}", s.handleWebSocket)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/presets", s.handlePresets).Methods("GET")
	api.HandleFunc("/scores/{preset}", s.handleScores).Methods("GET")
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", s.cfg.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.Close()
		return err
	}
}

// Close ends every live session and waits until each has recorded its
// result. New connections are refused afterwards.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.sessions.Wait()
}

// track registers a session unless the server is closing.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.sessions.Add(1)
	return true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

type presetInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	games := registry.List()
	out := make([]presetInfo, 0, len(games))
	for _, g := range games {
		out = append(out, presetInfo{ID: g.ID, Title: g.Title})
	}
	s.writeJSON(w, http.StatusOK, out)
}

type scoreEntry struct {
	Score     int       `json:"score"`
	MaxTile   int       `json:"max_tile"`
	Outcome   string    `json:"outcome"`
	Player    string    `json:"player,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["preset"]
	if _, ok := t2048.PresetByID(id); !ok {
		s.writeError(w, http.StatusNotFound, "unknown preset: "+id)
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	out := []scoreEntry{}
	if s.store != nil {
		results, err := s.store.TopScores(id, limit)
		if err != nil {
			s.logger.Error("cannot load scores", "preset", id, "error", err)
			s.writeError(w, http.StatusInternalServerError, "cannot load scores")
			return
		}
		for _, res := range results {
			out = append(out, scoreEntry{
				Score:     res.Score,
				MaxTile:   res.MaxTile,
				Outcome:   string(res.Outcome),
				Player:    res.Player,
				CreatedAt: res.CreatedAt,
			})
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["preset"]
	preset, ok := t2048.PresetByID(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown preset: "+id)
		return
	}

	seed := time.Now().UnixNano()
	if v := r.URL.Query().Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid seed")
			return
		}
		seed = n
	}

	sim, err := t2048.New(preset.Apply(s.cfg.Board), t2048.WithSeed(seed))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !s.track() {
		s.writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}
	defer s.sessions.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(conn, sim, sessionConfig{
		preset:   preset.ID,
		player:   r.URL.Query().Get("player"),
		tickRate: s.cfg.TickRate,
		store:    s.store,
		logger:   s.logger.With("preset", preset.ID, "remote", r.RemoteAddr),
	})
	sess.run(s.ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("cannot encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
