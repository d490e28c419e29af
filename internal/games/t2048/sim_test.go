package t2048

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/config"
)

func newTestSim(t *testing.T, seed int64) (*Simulation, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	s, err := New(config.DefaultBoardConfig(), WithSeed(seed), WithClock(clock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, clock
}

// load replaces the board with the given values.
func load(t *testing.T, s *Simulation, rows [][]int) {
	t.Helper()
	s.board = boardFrom(t, s.clock, rows)
	s.moving = false
	s.refresh()
}

// settleSim ticks until the pending move has settled.
func settleSim(t *testing.T, s *Simulation, clock *fakeClock) []Event {
	t.Helper()
	var events []Event
	for i := 0; i < 10; i++ {
		clock.Advance(DefaultTweenDuration)
		events = append(events, s.Tick().Events...)
		if !s.Moving() && !s.board.Animating() {
			return events
		}
	}
	t.Fatal("simulation did not settle")
	return nil
}

func countKind(events []Event, kind EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func tileCount(rows [][]int) int {
	n := 0
	for _, row := range rows {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultBoardConfig()
	cfg.Board.Width = 1

	_, err := New(cfg)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("New error = %v, want ErrInvalidConfig", err)
	}
}

func TestResetSeedsInitialTiles(t *testing.T) {
	s, _ := newTestSim(t, 1)

	snap := s.Snapshot()
	if tileCount(snap.Board) != 2 {
		t.Fatalf("initial tiles = %d, want 2", tileCount(snap.Board))
	}
	for _, row := range snap.Board {
		for _, v := range row {
			if v != 0 && v != 2 {
				t.Errorf("initial tile value %d, want 2", v)
			}
		}
	}
	if s.Score() != 0 || s.Phase() != PhasePlaying || s.Moving() {
		t.Errorf("score=%d phase=%s moving=%v", s.Score(), s.Phase(), s.Moving())
	}
}

func TestMoveThenSpawnOnSettledTick(t *testing.T) {
	s, clock := newTestSim(t, 7)
	load(t, s, [][]int{
		{2, 0, 2, 4},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	events, ok := s.Move(DirLeft)
	if !ok {
		t.Fatal("legal move rejected")
	}
	if s.Score() != 4 {
		t.Errorf("score = %d, want 4", s.Score())
	}
	if countKind(events, EventScore) != 1 {
		t.Errorf("score events = %d, want 1", countKind(events, EventScore))
	}
	if !reflect.DeepEqual(s.Board().Values()[0], []int{4, 4, 0, 0}) {
		t.Errorf("row after move = %v", s.Board().Values()[0])
	}

	// Nothing spawns while tiles are in flight.
	if spawned := countKind(s.Tick().Events, EventSpawned); spawned != 0 {
		t.Fatalf("spawned %d tiles before settling", spawned)
	}

	free := s.FreeCells()
	all := settleSim(t, s, clock)
	if countKind(all, EventSpawned) != 1 {
		t.Fatalf("spawn events = %d, want 1", countKind(all, EventSpawned))
	}
	if countKind(all, EventTileRemoved) != 1 {
		t.Errorf("tile_removed events = %d, want 1", countKind(all, EventTileRemoved))
	}

	var spawned Event
	for _, ev := range all {
		if ev.Kind == EventSpawned {
			spawned = ev
		}
	}
	found := false
	for _, p := range free {
		if p == spawned.At {
			found = true
		}
	}
	if !found {
		t.Errorf("tile spawned at %v which was not free before the spawn", spawned.At)
	}
	if tileCount(s.Board().Values()) != 3 {
		t.Errorf("tiles after settle = %d, want 3", tileCount(s.Board().Values()))
	}
}

func TestMoveRejectedWhileMoving(t *testing.T) {
	s, _ := newTestSim(t, 3)
	load(t, s, [][]int{
		{0, 0, 0, 2},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{4, 0, 0, 0},
	})

	if _, ok := s.Move(DirLeft); !ok {
		t.Fatal("first move rejected")
	}
	before := s.Board().Values()
	if _, ok := s.Move(DirUp); ok {
		t.Error("move accepted while previous move is unsettled")
	}
	if !reflect.DeepEqual(s.Board().Values(), before) {
		t.Error("rejected move changed the board")
	}
}

func TestIllegalMoveChangesNothing(t *testing.T) {
	s, _ := newTestSim(t, 5)
	load(t, s, [][]int{
		{2, 4, 0, 0},
		{8, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	before := s.Snapshot()
	positions := s.Frame().Tiles

	events, ok := s.Move(DirLeft)
	if ok || events != nil {
		t.Fatalf("illegal move accepted: %v", events)
	}
	if !reflect.DeepEqual(s.Snapshot(), before) {
		t.Errorf("snapshot changed:\n%+v\n%+v", s.Snapshot(), before)
	}
	if !reflect.DeepEqual(s.Frame().Tiles, positions) {
		t.Error("tile positions changed")
	}
	if s.Moving() {
		t.Error("moving flag set by illegal move")
	}
}

func TestLegalityRecomputedAfterMove(t *testing.T) {
	s, _ := newTestSim(t, 5)
	load(t, s, [][]int{
		{0, 0, 0, 2},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	if !s.CanMove(DirLeft) {
		t.Fatal("left should be legal")
	}
	s.Move(DirLeft)
	if s.CanMove(DirLeft) {
		t.Error("left should be illegal once the tile reached the edge")
	}
	if !s.CanMove(DirRight) || !s.CanMove(DirDown) {
		t.Errorf("legality = %v", s.Legal())
	}
}

func TestWinOnlyOnSettledTick(t *testing.T) {
	s, clock := newTestSim(t, 11)
	load(t, s, [][]int{
		{1024, 1024, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	if _, ok := s.Move(DirLeft); !ok {
		t.Fatal("move rejected")
	}
	if res := s.Tick(); countKind(res.Events, EventWin) != 0 || s.Phase() != PhasePlaying {
		t.Fatal("win reported while tiles are still animating")
	}

	events := settleSim(t, s, clock)
	if countKind(events, EventWin) != 1 {
		t.Fatalf("win events = %d, want 1", countKind(events, EventWin))
	}
	if s.Phase() != PhaseWon {
		t.Fatalf("phase = %s, want won", s.Phase())
	}
	if s.Score() != 2048 {
		t.Errorf("score = %d, want 2048", s.Score())
	}

	// Halted: moves are ignored and no further win events fire.
	for _, d := range Directions {
		if _, ok := s.Move(d); ok {
			t.Errorf("move %s accepted after win", d)
		}
	}
	if countKind(s.Tick().Events, EventWin) != 0 {
		t.Error("win reported twice")
	}

	events, ok := s.Acknowledge()
	if !ok {
		t.Fatal("acknowledge rejected")
	}
	if countKind(events, EventReset) != 1 || countKind(events, EventSpawned) != 2 {
		t.Errorf("acknowledge events = %+v", events)
	}
	if s.Phase() != PhasePlaying || s.Score() != 0 {
		t.Errorf("after acknowledge phase=%s score=%d", s.Phase(), s.Score())
	}
}

func TestGameOverDetected(t *testing.T) {
	s, _ := newTestSim(t, 13)
	load(t, s, [][]int{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 4, 8},
		{16, 32, 64, 128},
	})

	res := s.Tick()
	if countKind(res.Events, EventGameOver) != 1 {
		t.Fatalf("game over events = %d, want 1", countKind(res.Events, EventGameOver))
	}
	if s.Phase() != PhaseGameOver || res.Frame.Phase != PhaseGameOver {
		t.Errorf("phase = %s", s.Phase())
	}
}

func TestFullBoardWithMergeIsNotGameOver(t *testing.T) {
	s, _ := newTestSim(t, 13)
	load(t, s, [][]int{
		{2, 2, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 4, 8},
		{16, 32, 64, 128},
	})

	s.Tick()
	if s.Phase() != PhasePlaying {
		t.Errorf("phase = %s, want playing", s.Phase())
	}
}

func TestAcknowledgeWhilePlaying(t *testing.T) {
	s, _ := newTestSim(t, 1)
	if _, ok := s.Acknowledge(); ok {
		t.Error("acknowledge accepted while playing")
	}
}

func TestSpawnDistribution(t *testing.T) {
	s, _ := newTestSim(t, 99)

	const trials = 5000
	fours := 0
	for i := 0; i < trials; i++ {
		load(t, s, [][]int{{0, 0}, {0, 0}})
		ev, ok := s.spawn(0)
		if !ok {
			t.Fatal("spawn on empty board failed")
		}
		switch ev.Value {
		case 4:
			fours++
		case 2:
		default:
			t.Fatalf("spawned value %d", ev.Value)
		}
	}

	ratio := float64(fours) / trials
	if ratio < 0.08 || ratio > 0.12 {
		t.Errorf("share of 4s = %.3f, want about 0.10", ratio)
	}
}

func TestSpawnOnFullBoard(t *testing.T) {
	s, _ := newTestSim(t, 1)
	load(t, s, [][]int{{2, 4}, {8, 16}})

	if _, ok := s.spawn(0); ok {
		t.Error("spawn on a full board should fail")
	}
}

// fixedRand always picks the last free cell and never rolls a 4.
type fixedRand struct{}

func (fixedRand) Intn(n int) int   { return n - 1 }
func (fixedRand) Float64() float64 { return 0.99 }

func TestSpawnUsesInjectedRand(t *testing.T) {
	clock := newFakeClock()
	s, err := New(config.DefaultBoardConfig(), WithRand(fixedRand{}), WithClock(clock))
	if err != nil {
		t.Fatal(err)
	}

	// Reset filled the last two cells of the bottom row.
	if got := s.Board().Values()[3]; !reflect.DeepEqual(got, []int{0, 0, 2, 2}) {
		t.Fatalf("bottom row after reset = %v", got)
	}
	if _, ok := s.Move(DirLeft); !ok {
		t.Fatal("move rejected")
	}
	settleSim(t, s, clock)

	want := [][]int{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{4, 0, 0, 2},
	}
	if got := s.Board().Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("board = %v, want %v", got, want)
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	run := func() Snapshot {
		clock := newFakeClock()
		s, err := New(config.DefaultBoardConfig(), WithRand(rand.New(rand.NewSource(2024))), WithClock(clock))
		if err != nil {
			t.Fatal(err)
		}
		for _, d := range []Direction{DirLeft, DirDown, DirRight, DirUp, DirLeft, DirDown} {
			s.Move(d)
			settleSim(t, s, clock)
		}
		return s.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed diverged:\n%+v\n%+v", a, b)
	}
}

func TestFrameDrawsAbsorbedFirst(t *testing.T) {
	s, _ := newTestSim(t, 1)
	load(t, s, [][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	s.Move(DirLeft)

	frame := s.Frame()
	if len(frame.Tiles) != 2 {
		t.Fatalf("frame tiles = %d, want 2", len(frame.Tiles))
	}
	if !frame.Tiles[0].Absorbed || frame.Tiles[1].Absorbed {
		t.Errorf("absorbed tile should be drawn first: %+v", frame.Tiles)
	}
	if !frame.Moving || frame.Score != 4 {
		t.Errorf("frame moving=%v score=%d", frame.Moving, frame.Score)
	}
}

func TestResetStartsFreshArena(t *testing.T) {
	s, clock := newTestSim(t, 3)
	load(t, s, [][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	if _, ok := s.Move(DirLeft); !ok {
		t.Fatal("legal move rejected")
	}
	settleSim(t, s, clock)

	s.Reset()
	if got := len(s.board.tiles); got != s.cfg.Rules.InitialTiles {
		t.Fatalf("arena after reset holds %d slots, want %d", got, s.cfg.Rules.InitialTiles)
	}
	for i, tile := range s.Board().Tiles() {
		if tile.ID() != TileID(i) {
			t.Errorf("tile %d has id %d after reset", i, tile.ID())
		}
	}
}
