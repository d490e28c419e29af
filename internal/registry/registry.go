// Package registry lets board variants register themselves in init() so the
// front ends can list and create them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sync"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// Game is what the terminal front end drives. Implementations hold pure logic
// with no Bubble Tea dependency; the platform maps input, keeps time and
// displays the screen buffer.
type Game interface {
	// ID returns the unique variant identifier (e.g. "2048_mini").
	// Used for CLI arguments and score storage.
	ID() string

	// Title returns a human-readable name.
	Title() string

	// Reset starts a new round using the screen size and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step applies one frame of input and advances one tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a pre-cleared screen buffer.
	Render(dst *core.Screen)

	// State returns score and lifecycle flags.
	State() core.GameState

	// Controls returns a one-line key hint.
	Controls() string
}

// Resizer is implemented by games that can adapt to a new screen size
// without restarting.
type Resizer interface {
	Resize(w, h int)
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new instance of a game.
type Factory func() Game

type entry struct {
	info    GameInfo
	factory Factory
}

var (
	mu      sync.RWMutex
	entries []entry
	index   = make(map[string]int)
)

// Register adds a game factory. Panics if the ID is taken.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := index[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	index[id] = len(entries)
	entries = append(entries, entry{
		info:    GameInfo{ID: id, Title: f().Title()},
		factory: f,
	})
}

// List returns all registered games in registration order.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, len(entries))
	for i, e := range entries {
		result[i] = e.info
	}
	return result
}

// Create instantiates a game by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	i, ok := index[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return entries[i].factory(), nil
}

// Exists checks whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := index[id]
	return ok
}

// Title returns the display name for id, or id itself when unknown.
func Title(id string) string {
	mu.RLock()
	defer mu.RUnlock()

	if i, ok := index[id]; ok {
		return entries[i].info.Title
	}
	return id
}
