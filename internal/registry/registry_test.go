package registry

import (
	"testing"

	"github.com/vovakirdan/tui-2048/internal/core"
)

type stubGame struct{ id string }

func (g stubGame) ID() string                           { return g.id }
func (g stubGame) Title() string                        { return "Stub " + g.id }
func (g stubGame) Reset(core.RuntimeConfig)             {}
func (g stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g stubGame) Render(*core.Screen)                  {}
func (g stubGame) State() core.GameState                { return core.GameState{} }
func (g stubGame) Controls() string                     { return "" }

func TestRegisterAndCreate(t *testing.T) {
	Register("stub_b", func() Game { return stubGame{id: "stub_b"} })
	Register("stub_a", func() Game { return stubGame{id: "stub_a"} })

	list := List()
	var order []string
	for _, info := range list {
		if info.ID == "stub_a" || info.ID == "stub_b" {
			order = append(order, info.ID)
		}
	}
	if len(order) != 2 || order[0] != "stub_b" {
		t.Errorf("List order = %v, want registration order", order)
	}

	g, err := Create("stub_a")
	if err != nil {
		t.Fatal(err)
	}
	if g.ID() != "stub_a" {
		t.Errorf("Create returned %q", g.ID())
	}
	if Title("stub_a") != "Stub stub_a" {
		t.Errorf("Title = %q", Title("stub_a"))
	}
	if Title("missing") != "missing" {
		t.Errorf("Title for unknown id = %q", Title("missing"))
	}

	if _, err := Create("missing"); err == nil {
		t.Error("expected error for unknown game")
	}
	if Exists("missing") {
		t.Error("Exists(missing) = true")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("stub_dup", func() Game { return stubGame{id: "stub_dup"} })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("stub_dup", func() Game { return stubGame{id: "stub_dup"} })
}
