package t2048

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
)

// ErrInvalidConfig is wrapped by New when the configuration is rejected.
var ErrInvalidConfig = config.ErrInvalid

// Clock supplies wall-clock time to tweens.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Rand is the randomness the simulation draws from. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Phase is the lifecycle state of a round.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseWon
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseWon:
		return "won"
	case PhaseGameOver:
		return "game_over"
	default:
		return "playing"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Halted reports whether the round waits for an acknowledgment.
func (p Phase) Halted() bool {
	return p != PhasePlaying
}

// Option customizes a Simulation.
type Option func(*Simulation)

// WithRand sets the randomness source.
func WithRand(r Rand) Option {
	return func(s *Simulation) { s.rng = r }
}

// WithSeed seeds a private math/rand source.
func WithSeed(seed int64) Option {
	return func(s *Simulation) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithClock sets the time source used by tweens.
func WithClock(c Clock) Option {
	return func(s *Simulation) { s.clock = c }
}

// Simulation runs one board: moves, the tick cycle, spawning, legality and
// win/game-over detection. It is not safe for concurrent use; adapters own
// one simulation per goroutine.
type Simulation struct {
	cfg   config.BoardConfig
	rng   Rand
	clock Clock

	board     *Board
	score     int
	moving    bool
	legal     [4]bool
	freeCells []Point
	phase     Phase
	ticks     uint64
}

// New validates cfg and starts a fresh round.
func New(cfg config.BoardConfig, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("t2048: %w", err)
	}

	s := &Simulation{cfg: cfg, clock: systemClock{}}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s.Reset()
	return s, nil
}

// Reset clears the board and spawns the initial tiles, all valued 2.
func (s *Simulation) Reset() []Event {
	s.board = NewBoard(
		s.cfg.Board.Width,
		s.cfg.Board.Height,
		s.cfg.Board.CanvasSize,
		s.clock,
		s.cfg.Animation.Duration(),
	)
	s.score = 0
	s.moving = false
	s.phase = PhasePlaying
	s.ticks = 0

	events := []Event{lifecycleEvent(EventReset, 0)}
	for i := 0; i < s.cfg.Rules.InitialTiles; i++ {
		if ev, ok := s.spawn(2); ok {
			events = append(events, ev)
		}
	}
	events = append(events, lifecycleEvent(EventScore, 0))

	s.refresh()
	return events
}

func lifecycleEvent(kind EventKind, score int) Event {
	return Event{Kind: kind, Tile: NoTile, Other: NoTile, Score: score}
}

// spawn places a tile on a random free cell. A zero value rolls 2 or 4.
func (s *Simulation) spawn(value int) (Event, bool) {
	free := s.board.FreeCells()
	if len(free) == 0 {
		return Event{}, false
	}

	at := free[s.rng.Intn(len(free))]
	if value == 0 {
		value = 2
		if s.rng.Float64() < s.cfg.Rules.Spawn4Prob {
			value = 4
		}
	}

	t, _ := s.board.SpawnAt(at.X, at.Y, value)
	s.freeCells = s.board.FreeCells()
	return Event{Kind: EventSpawned, Tile: t.id, Other: NoTile, At: at, Value: value}, true
}

func (s *Simulation) refresh() {
	s.legal = s.board.Legal()
	s.freeCells = s.board.FreeCells()
}

// Move applies a move. It is rejected, returning false and changing nothing,
// while a previous move is unsettled, while the round is halted, or when the
// direction is illegal.
func (s *Simulation) Move(dir Direction) ([]Event, bool) {
	if s.phase.Halted() || s.moving || !dir.Valid() || !s.legal[dir] {
		return nil, false
	}

	compacted := s.board.Compact(dir)
	events := make([]Event, 0, len(compacted)+2)
	for _, ev := range compacted {
		events = append(events, ev)
		if ev.Kind == EventMerged {
			s.score += ev.Value
			events = append(events, lifecycleEvent(EventScore, s.score))
		}
	}

	s.moving = true
	s.refresh()
	return events, true
}

// TickResult is what one tick produced.
type TickResult struct {
	Events []Event
	Frame  Frame
}

// Tick runs one simulation cycle. While any tile is animating it only advances
// tweens. Once settled it spawns the tile owed by the last move, then checks
// for a win and for game over.
func (s *Simulation) Tick() TickResult {
	s.ticks++
	var events []Event

	if !s.phase.Halted() && !s.board.Animating() {
		if s.moving {
			if ev, ok := s.spawn(0); ok {
				events = append(events, ev)
			}
			s.moving = false
			s.refresh()
		}

		switch {
		case s.board.MaxValue() >= s.cfg.Rules.WinValue:
			s.phase = PhaseWon
			events = append(events, lifecycleEvent(EventWin, s.score))
		case len(s.freeCells) == 0 && !s.anyLegal():
			s.phase = PhaseGameOver
			events = append(events, lifecycleEvent(EventGameOver, s.score))
		}
	}

	events = append(events, s.board.update()...)
	s.refresh()

	return TickResult{Events: events, Frame: s.Frame()}
}

func (s *Simulation) anyLegal() bool {
	for _, ok := range s.legal {
		if ok {
			return true
		}
	}
	return false
}

// Acknowledge ends a halted round and starts a new one.
func (s *Simulation) Acknowledge() ([]Event, bool) {
	if !s.phase.Halted() {
		return nil, false
	}
	return s.Reset(), true
}

// DrawRecord is one tile as the presentation layer draws it.
type DrawRecord struct {
	ID       TileID     `json:"id"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	W        float64    `json:"w"`
	H        float64    `json:"h"`
	Color    core.Color `json:"color"`
	Value    int        `json:"value"`
	Absorbed bool       `json:"absorbed,omitempty"`
}

// Frame is a drawable view of the board in canvas pixels.
type Frame struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Canvas float64      `json:"canvas"`
	Tiles  []DrawRecord `json:"tiles"`
	Score  int          `json:"score"`
	Phase  Phase        `json:"phase"`
	Moving bool         `json:"moving"`
}

// Frame returns the draw records. Absorbed tiles come first so survivors are
// painted over them.
func (s *Simulation) Frame() Frame {
	tiles := s.board.Tiles()
	sort.SliceStable(tiles, func(i, j int) bool {
		return tiles[i].absorbed && !tiles[j].absorbed
	})

	records := make([]DrawRecord, 0, len(tiles))
	for _, t := range tiles {
		records = append(records, DrawRecord{
			ID:       t.id,
			X:        t.pos.X,
			Y:        t.pos.Y,
			W:        t.size.X,
			H:        t.size.Y,
			Color:    t.color,
			Value:    t.value,
			Absorbed: t.absorbed,
		})
	}

	return Frame{
		Width:  s.board.width,
		Height: s.board.height,
		Canvas: s.cfg.Board.CanvasSize,
		Tiles:  records,
		Score:  s.score,
		Phase:  s.phase,
		Moving: s.moving,
	}
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() config.BoardConfig { return s.cfg }

// Board exposes the grid for rendering and inspection.
func (s *Simulation) Board() *Board { return s.board }

// Score returns the current score.
func (s *Simulation) Score() int { return s.score }

// Phase returns the lifecycle state.
func (s *Simulation) Phase() Phase { return s.phase }

// Moving reports whether the last move has not settled yet.
func (s *Simulation) Moving() bool { return s.moving }

// Legal returns the legality table indexed by Direction.
func (s *Simulation) Legal() [4]bool { return s.legal }

// CanMove reports whether dir is currently legal.
func (s *Simulation) CanMove(dir Direction) bool {
	return dir.Valid() && s.legal[dir]
}

// FreeCells returns the empty cells as of the last refresh.
func (s *Simulation) FreeCells() []Point {
	return append([]Point(nil), s.freeCells...)
}

// Ticks returns the number of ticks since the last reset.
func (s *Simulation) Ticks() uint64 { return s.ticks }

// MaxTile returns the highest tile value on the grid.
func (s *Simulation) MaxTile() int { return s.board.MaxValue() }

// MinSwipeDistance returns the swipe threshold in canvas pixels.
func (s *Simulation) MinSwipeDistance() float64 { return s.cfg.Input.MinSwipeDistance }
