package t2048

// EventKind identifies what happened during a move or tick.
type EventKind int

const (
	EventSpawned     EventKind = iota // a tile appeared
	EventMoved                        // a tile slid into an empty cell
	EventMerged                       // two equal tiles combined
	EventTileRemoved                  // an absorbed tile finished its tween
	EventScore                        // the score changed
	EventWin                          // the win value was reached
	EventGameOver                     // the board is full and nothing can move
	EventReset                        // a fresh round started
)

var eventNames = [...]string{
	EventSpawned:     "spawned",
	EventMoved:       "moved",
	EventMerged:      "merged",
	EventTileRemoved: "tile_removed",
	EventScore:       "score",
	EventWin:         "win",
	EventGameOver:    "game_over",
	EventReset:       "reset",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is one observable change. Fields not meaningful for a kind are zero.
//
//	spawned:      Tile, At, Value
//	moved:        Tile, From, At
//	merged:       Tile (survivor), Other (absorbed), At, Value (new value)
//	tile_removed: Tile, Value
//	score:        Score
//	win/game_over/reset: Score
type Event struct {
	Kind  EventKind `json:"kind"`
	Tile  TileID    `json:"tile"`
	Other TileID    `json:"other"`
	From  Point     `json:"from"`
	At    Point     `json:"at"`
	Value int       `json:"value,omitempty"`
	Score int       `json:"score"`
}
