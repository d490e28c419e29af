package t2048

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/tui-2048/internal/core"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// boardFrom builds a board over a 500px canvas holding the given values.
func boardFrom(t *testing.T, clock Clock, rows [][]int) *Board {
	t.Helper()
	b := NewBoard(len(rows[0]), len(rows), 500, clock, DefaultTweenDuration)
	for y, row := range rows {
		for x, v := range row {
			if v == 0 {
				continue
			}
			if _, ok := b.SpawnAt(x, y, v); !ok {
				t.Fatalf("SpawnAt(%d, %d) failed", x, y)
			}
		}
	}
	return b
}

// settle runs tweens to completion and detaches them.
func settle(b *Board, clock *fakeClock) []Event {
	clock.Advance(DefaultTweenDuration)
	events := b.update()
	return append(events, b.update()...)
}

func approxVec(a, b core.Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func mergedScore(events []Event) int {
	score := 0
	for _, ev := range events {
		if ev.Kind == EventMerged {
			score += ev.Value
		}
	}
	return score
}

func TestCompactLine(t *testing.T) {
	tests := []struct {
		name     string
		input    []int
		expected []int
		score    int
	}{
		{"simple merge", []int{2, 2, 0, 0}, []int{4, 0, 0, 0}, 4},
		{"gap then merge", []int{2, 0, 2, 4}, []int{4, 4, 0, 0}, 4},
		{"merge with trailing tile", []int{2, 2, 2, 0}, []int{4, 2, 0, 0}, 4},
		{"double merge", []int{2, 2, 2, 2}, []int{4, 4, 0, 0}, 8},
		{"one merge per tile", []int{4, 4, 8, 0}, []int{8, 8, 0, 0}, 8},
		{"no merge possible", []int{2, 4, 8, 16}, []int{2, 4, 8, 16}, 0},
		{"slide with gap", []int{0, 0, 2, 2}, []int{4, 0, 0, 0}, 4},
		{"slide with multiple gaps", []int{2, 0, 0, 2}, []int{4, 0, 0, 0}, 4},
		{"empty row", []int{0, 0, 0, 0}, []int{0, 0, 0, 0}, 0},
		{"single tile", []int{0, 4, 0, 0}, []int{4, 0, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFrom(t, newFakeClock(), [][]int{tt.input})
			events := b.Compact(DirLeft)

			if got := b.Values()[0]; !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Compact(%v) = %v, want %v", tt.input, got, tt.expected)
			}
			if score := mergedScore(events); score != tt.score {
				t.Errorf("Compact(%v) score = %d, want %d", tt.input, score, tt.score)
			}
		})
	}
}

func TestCompactDirections(t *testing.T) {
	tests := []struct {
		name     string
		dir      Direction
		input    [][]int
		expected [][]int
	}{
		{
			name: "left",
			dir:  DirLeft,
			input: [][]int{
				{2, 2, 0, 0},
				{4, 0, 4, 0},
				{2, 2, 2, 2},
				{0, 0, 0, 2},
			},
			expected: [][]int{
				{4, 0, 0, 0},
				{8, 0, 0, 0},
				{4, 4, 0, 0},
				{2, 0, 0, 0},
			},
		},
		{
			name: "right",
			dir:  DirRight,
			input: [][]int{
				{2, 2, 0, 0},
				{4, 0, 4, 0},
				{2, 2, 2, 2},
				{0, 0, 0, 2},
			},
			expected: [][]int{
				{0, 0, 0, 4},
				{0, 0, 0, 8},
				{0, 0, 4, 4},
				{0, 0, 0, 2},
			},
		},
		{
			name: "up",
			dir:  DirUp,
			input: [][]int{
				{2, 4, 2, 0},
				{2, 0, 2, 0},
				{0, 4, 2, 0},
				{0, 0, 2, 2},
			},
			expected: [][]int{
				{4, 8, 4, 2},
				{0, 0, 4, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
		},
		{
			name: "down",
			dir:  DirDown,
			input: [][]int{
				{2, 4, 2, 2},
				{2, 0, 2, 0},
				{0, 4, 2, 0},
				{0, 0, 2, 0},
			},
			expected: [][]int{
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 4, 0},
				{4, 8, 4, 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFrom(t, newFakeClock(), tt.input)
			b.Compact(tt.dir)
			if got := b.Values(); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Compact(%s): got\n%v\nwant\n%v", tt.dir, got, tt.expected)
			}
		})
	}
}

func TestCompactAlignedLineEmitsNothing(t *testing.T) {
	b := boardFrom(t, newFakeClock(), [][]int{
		{4, 2, 0, 0},
		{0, 0, 0, 0},
	})

	if events := b.Compact(DirLeft); len(events) != 0 {
		t.Errorf("Compact on aligned row emitted %d events", len(events))
	}
	if b.Animating() {
		t.Error("no tile should be animating")
	}
}

func TestMergeKeepsTileCount(t *testing.T) {
	clock := newFakeClock()
	b := boardFrom(t, clock, [][]int{
		{2, 2, 4, 4},
		{8, 0, 8, 0},
	})

	before := len(b.Tiles())
	events := b.Compact(DirLeft)

	merges := 0
	for _, ev := range events {
		if ev.Kind == EventMerged {
			merges++
		}
	}
	if merges != 3 {
		t.Fatalf("merges = %d, want 3", merges)
	}
	// Absorbed tiles stay live until their tween ends.
	if got := len(b.Tiles()); got != before {
		t.Errorf("live tiles right after compaction = %d, want %d", got, before)
	}

	removed := 0
	for _, ev := range settle(b, clock) {
		if ev.Kind == EventTileRemoved {
			removed++
		}
	}
	if removed != merges {
		t.Errorf("tile_removed events = %d, want %d", removed, merges)
	}
	if got := len(b.Tiles()); got != before-merges {
		t.Errorf("live tiles after settling = %d, want %d", got, before-merges)
	}
}

func TestTweensConvergeOnSlots(t *testing.T) {
	clock := newFakeClock()
	b := boardFrom(t, clock, [][]int{
		{0, 2, 0, 2},
		{4, 0, 0, 8},
		{0, 0, 16, 0},
		{2, 0, 0, 0},
	})

	b.Compact(DirRight)
	if !b.Animating() {
		t.Fatal("expected tiles to animate after a move")
	}
	settle(b, clock)
	if b.Animating() {
		t.Fatal("tweens should be detached after settling")
	}

	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			tile, ok := b.TileAt(x, y)
			if !ok {
				continue
			}
			slot, size := b.Cell(x, y).Slot()
			if tile.Position() != slot || tile.Size() != size {
				t.Errorf("tile at (%d,%d) drawn at %v size %v, want %v size %v",
					x, y, tile.Position(), tile.Size(), slot, size)
			}
		}
	}
}

func TestAbsorbedTileChasesSlidingSurvivor(t *testing.T) {
	b := boardFrom(t, newFakeClock(), [][]int{{0, 2, 2, 0}})
	survivor, _ := b.TileAt(1, 0)
	absorbed, _ := b.TileAt(2, 0)

	b.Compact(DirLeft)

	slot, _ := b.Cell(0, 0).Slot()
	if survivor.Tween() == nil || survivor.Tween().End() != slot {
		t.Fatalf("survivor should slide to %v", slot)
	}
	if absorbed.Tween() == nil || absorbed.Tween().End() != slot {
		t.Errorf("absorbed tile should tween to the survivor's destination %v", slot)
	}
	if !absorbed.Absorbed() {
		t.Error("absorbed flag not set")
	}
	if survivor.Value() != 4 {
		t.Errorf("survivor value = %d, want 4", survivor.Value())
	}
}

func TestMergePreconditions(t *testing.T) {
	b := boardFrom(t, newFakeClock(), [][]int{{2, 4, 0, 2}})

	if _, ok := b.merge(b.Cell(0, 0), b.Cell(1, 0)); ok {
		t.Error("merge of unequal tiles should be a no-op")
	}
	if _, ok := b.merge(b.Cell(2, 0), b.Cell(3, 0)); ok {
		t.Error("merge into an empty cell should be a no-op")
	}
	if b.swap(b.Cell(0, 0), b.Cell(3, 0)) {
		t.Error("swap into an occupied cell should be a no-op")
	}
	if b.swap(b.Cell(3, 0), b.Cell(2, 0)) {
		t.Error("swap from an empty cell should be a no-op")
	}
	if !reflect.DeepEqual(b.Values()[0], []int{2, 4, 0, 2}) {
		t.Errorf("row changed: %v", b.Values()[0])
	}
	if len(b.pending) != 0 {
		t.Errorf("no-op helpers emitted %d events", len(b.pending))
	}
}

func TestSpawnAtOccupiedCell(t *testing.T) {
	b := boardFrom(t, newFakeClock(), [][]int{{2, 0}, {0, 0}})

	if _, ok := b.SpawnAt(0, 0, 4); ok {
		t.Error("SpawnAt on an occupied cell should fail")
	}
	if _, ok := b.SpawnAt(5, 5, 4); ok {
		t.Error("SpawnAt out of bounds should fail")
	}
	if len(b.FreeCells()) != 3 {
		t.Errorf("FreeCells = %d, want 3", len(b.FreeCells()))
	}
}

func TestReadingEmptyCellPanics(t *testing.T) {
	b := boardFrom(t, newFakeClock(), [][]int{{0, 0}, {0, 0}})

	defer func() {
		if recover() == nil {
			t.Error("expected panic reading a tile from an empty cell")
		}
	}()
	b.mustTile(b.Cell(0, 0))
}

func TestTileIDsNotReused(t *testing.T) {
	clock := newFakeClock()
	b := boardFrom(t, clock, [][]int{{2, 2, 0, 0}})
	b.Compact(DirLeft)
	settle(b, clock)

	tile, _ := b.SpawnAt(3, 0, 2)
	if tile.ID() != 2 {
		t.Errorf("new tile ID = %d, want 2", tile.ID())
	}
	if b.Tile(1) != nil {
		t.Error("absorbed tile handle should resolve to nil")
	}
	if b.Tile(NoTile) != nil {
		t.Error("NoTile should resolve to nil")
	}
}

func TestLegal(t *testing.T) {
	tests := []struct {
		name  string
		rows  [][]int
		legal [4]bool // up, down, left, right
	}{
		{
			name:  "corner tile",
			rows:  [][]int{{2, 0}, {0, 0}},
			legal: [4]bool{false, true, false, true},
		},
		{
			name: "full board without pairs",
			rows: [][]int{
				{2, 4, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 2048, 4096},
				{8192, 16384, 32768, 65536},
			},
			legal: [4]bool{},
		},
		{
			name: "full board with horizontal pair",
			rows: [][]int{
				{2, 2, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 2048, 4096},
				{8192, 16384, 32768, 65536},
			},
			legal: [4]bool{false, false, true, true},
		},
		{
			name: "full board with vertical pair",
			rows: [][]int{
				{2, 4},
				{2, 8},
			},
			legal: [4]bool{true, true, false, false},
		},
		{
			name:  "empty board",
			rows:  [][]int{{0, 0}, {0, 0}},
			legal: [4]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFrom(t, newFakeClock(), tt.rows)
			if got := b.Legal(); got != tt.legal {
				t.Errorf("Legal() = %v, want %v", got, tt.legal)
			}
		})
	}
}

func TestCellSlotGeometry(t *testing.T) {
	b := NewBoard(4, 4, 500, newFakeClock(), DefaultTweenDuration)

	pos, size := b.Cell(1, 2).Slot()
	if want := core.V(125+18.75, 250+18.75); !approxVec(pos, want) {
		t.Errorf("slot position = %v, want %v", pos, want)
	}
	if want := core.V(87.5, 87.5); !approxVec(size, want) {
		t.Errorf("slot size = %v, want %v", size, want)
	}
	if b.Cell(4, 0) != nil || b.Cell(0, -1) != nil {
		t.Error("out-of-bounds Cell should be nil")
	}
}

func TestMaxValueAndFull(t *testing.T) {
	b := boardFrom(t, newFakeClock(), [][]int{
		{2, 4},
		{2048, 0},
	})
	if b.MaxValue() != 2048 {
		t.Errorf("MaxValue = %d, want 2048", b.MaxValue())
	}
	if b.Full() {
		t.Error("board with a free cell reported full")
	}
	b.SpawnAt(1, 1, 8)
	if !b.Full() {
		t.Error("board should be full")
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range Directions {
		got, err := ParseDirection(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDirection(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("expected error for unknown direction")
	}
}
