package t2048

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateWin         GameStateType = "win"
	StateGameOver    GameStateType = "game_over"
	StatePaused      GameStateType = "paused"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the settled-state view of a round for determinism checks
// and replay. It carries no wall-clock data.
type Snapshot struct {
	Tick    uint64        `json:"tick"`
	Preset  string        `json:"preset,omitempty"`
	Score   int           `json:"score"`
	Board   [][]int       `json:"board"`
	MaxTile int           `json:"max_tile"`
	Moving  bool          `json:"moving"`
	Legal   [4]bool       `json:"legal"`
	State   GameStateType `json:"state"`
}

// Snapshot returns the current simulation snapshot.
func (s *Simulation) Snapshot() Snapshot {
	state := StatePlaying
	switch s.phase {
	case PhaseWon:
		state = StateWin
	case PhaseGameOver:
		state = StateGameOver
	}

	return Snapshot{
		Tick:    s.ticks,
		Score:   s.score,
		Board:   s.board.Values(),
		MaxTile: s.board.MaxValue(),
		Moving:  s.moving,
		Legal:   s.legal,
		State:   state,
	}
}

// Snapshot returns the simulation snapshot annotated with the preset and the
// adapter-level pause state.
func (g *Game) Snapshot() Snapshot {
	snap := g.sim.Snapshot()
	snap.Preset = g.preset.ID
	switch {
	case g.tooSmall:
		snap.State = StatePausedSmall
	case g.paused:
		snap.State = StatePaused
	}
	return snap
}
