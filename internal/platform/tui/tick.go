// Package tui runs board variants in a terminal with Bubble Tea, locally or
// over SSH. It maps keys and mouse drags to actions, drives the tick loop and
// records finished rounds.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickGeneration numbers tick chains. Every Model gets its own, so a tick
// still in flight from a finished Model is dropped by the next one.
var tickGeneration atomic.Uint64

// TickMsg is sent to trigger a game simulation tick.
type TickMsg struct {
	Gen uint64
	At  time.Time
}

// tickCmd schedules the next tick of chain gen. Rates outside 1..240 fall
// back to 60.
func tickCmd(tickRate int, gen uint64) tea.Cmd {
	if tickRate <= 0 || tickRate > 240 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, At: t}
	})
}
