package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	_ "github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

func scoreboardStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	results := []storage.Result{
		{GameID: "2048", Score: 4000, MaxTile: 2048, Outcome: storage.OutcomeWon, Player: "ann"},
		{GameID: "2048", Score: 900, MaxTile: 128, Outcome: storage.OutcomeGameOver},
		{GameID: "2048", Score: 300, MaxTile: 32, Outcome: storage.OutcomeAbandoned},
		{GameID: "2048_mini", Score: 120, MaxTile: 16, Outcome: storage.OutcomeGameOver},
	}
	for _, r := range results {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	return store
}

func TestScoreboardFilter(t *testing.T) {
	m := NewScoreboardModel(scoreboardStore(t), 100, 30)

	if got := len(m.table.Rows()); got != 3 {
		t.Fatalf("all filter: got %d rows, want 3", got)
	}

	tests := []struct {
		filter string
		rows   int
		result string
	}{
		{"won", 1, "won"},
		{"stuck", 1, "stuck"},
		{"quit", 1, "quit"},
		{"all", 3, "won"},
	}

	for _, tt := range tests {
		next, _ := m.Update(runeKey("f"))
		m = next.(ScoreboardModel)

		if filterLabels[m.filter] != tt.filter {
			t.Fatalf("filter = %q, want %q", filterLabels[m.filter], tt.filter)
		}
		rows := m.table.Rows()
		if len(rows) != tt.rows {
			t.Fatalf("%s: got %d rows, want %d", tt.filter, len(rows), tt.rows)
		}
		if rows[0][3] != tt.result {
			t.Errorf("%s: first row result = %q, want %q", tt.filter, rows[0][3], tt.result)
		}
	}
}

func TestScoreboardCyclesBoards(t *testing.T) {
	m := NewScoreboardModel(scoreboardStore(t), 100, 30)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.boards[m.cursor].ID != "2048_mini" {
		t.Fatalf("tab moved to %q, want 2048_mini", m.boards[m.cursor].ID)
	}
	if len(m.table.Rows()) != 1 {
		t.Fatalf("got %d rows for mini board, want 1", len(m.table.Rows()))
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	if m.boards[m.cursor].ID != "2048_large" {
		t.Fatalf("shift+tab wrapped to %q, want 2048_large", m.boards[m.cursor].ID)
	}
	if !strings.Contains(m.View(), "No rounds recorded yet") {
		t.Error("empty board should show the empty message")
	}
}

func TestScoreboardShowsStatsWhenWide(t *testing.T) {
	store := scoreboardStore(t)

	wide := NewScoreboardModel(store, 120, 30).View()
	if !strings.Contains(wide, "best tile 2048") {
		t.Error("wide layout should show the stats panel")
	}

	narrow := NewScoreboardModel(store, 60, 30).View()
	if strings.Contains(narrow, "best tile") {
		t.Error("narrow layout should hide the stats panel")
	}
}

func TestScoreboardBackAndQuit(t *testing.T) {
	m := NewScoreboardModel(nil, 80, 24)

	next, _ := m.Update(runeKey("b"))
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("b should go back")
	}

	next, _ = m.Update(runeKey("q"))
	if !next.(ScoreboardModel).IsQuitting() {
		t.Error("q should quit")
	}
}
