package t2048

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellCols  = 8 // terminal columns per board cell
	cellRows  = 4 // terminal rows per board cell
	hudHeight = 2
)

// layout maps canvas pixels onto terminal cells.
type layout struct {
	x, y  int
	w, h  int
	scale core.Vec2 // terminal cells per canvas pixel
}

func (g *Game) layout() layout {
	cfg := g.preset.Apply(boardConfig)
	if g.sim != nil {
		cfg = g.sim.Config()
	}

	w := cfg.Board.Width * cellCols
	h := cfg.Board.Height * cellRows
	return layout{
		x:     (g.screenW - w) / 2,
		y:     hudHeight,
		w:     w,
		h:     h,
		scale: core.V(float64(w)/cfg.Board.CanvasSize, float64(h)/cfg.Board.CanvasSize),
	}
}

func (l layout) rect(pos, size core.Vec2) core.Rect {
	x := l.x + int(math.Round(pos.X*l.scale.X))
	y := l.y + int(math.Round(pos.Y*l.scale.Y))
	return core.Rect{
		X: x,
		Y: y,
		W: max(1, int(math.Round(size.X*l.scale.X))),
		H: max(1, int(math.Round(size.Y*l.scale.Y))),
	}
}

func (l layout) bounds() core.Rect {
	return core.NewRect(l.x, l.y, l.w, l.h)
}

func (l layout) toCanvas(x, y int) core.Vec2 {
	return core.V(float64(x-l.x)/l.scale.X, float64(y-l.y)/l.scale.Y)
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	l := g.layout()
	g.renderHUD(dst, l)
	g.renderBoard(dst, l)
	g.renderOverlays(dst, l)

	hint := "Arrows/WASD or drag to move, P to pause"
	dst.DrawStyledText((g.screenW-len(hint))/2, l.y+l.h+1, hint, core.ColorGray, core.ColorDefault)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

func (g *Game) renderHUD(dst *core.Screen, l layout) {
	dst.DrawTextCentered(0, g.preset.Name)

	dst.DrawText(l.x, 1, fmt.Sprintf("Score: %d", g.sim.Score()))

	goal := fmt.Sprintf("Goal: %d", g.sim.Config().Rules.WinValue)
	dst.DrawText(max(l.x, l.x+l.w-len(goal)), 1, goal)
}

func (g *Game) renderBoard(dst *core.Screen, l layout) {
	dst.FillRect(l.bounds(), core.ColorBoard)

	board := g.sim.Board()
	for y := 0; y < board.Height(); y++ {
		for x := 0; x < board.Width(); x++ {
			pos, size := board.Cell(x, y).Slot()
			dst.FillRect(l.rect(pos, size), core.ColorSlot)
		}
	}

	for _, rec := range g.sim.Frame().Tiles {
		r := l.rect(core.V(rec.X, rec.Y), core.V(rec.W, rec.H))
		dst.FillRect(r, rec.Color)

		label := strconv.Itoa(rec.Value)
		if len(label) > r.W {
			continue
		}
		fg := core.ColorLight
		if rec.Value <= 4 {
			fg = core.ColorText
		}
		dst.DrawStyledText(r.X+(r.W-len(label))/2, r.Y+(r.H-1)/2, label, fg, rec.Color)
	}
}

func (g *Game) renderOverlays(dst *core.Screen, l layout) {
	cx, cy := l.bounds().Center()

	switch {
	case g.paused:
		drawOverlay(dst, cx, cy, "PAUSED", "Press P to resume")
	case g.sim.Phase() == PhaseWon:
		drawOverlay(dst, cx, cy, "YOU WIN!", fmt.Sprintf("Score: %d", g.sim.Score()), "Enter/R: new game")
	case g.sim.Phase() == PhaseGameOver:
		drawOverlay(dst, cx, cy, "GAME OVER", fmt.Sprintf("Max tile: %d", g.sim.MaxTile()), "Enter/R: new game")
	}
}

func drawOverlay(dst *core.Screen, cx, cy int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.Rect{W: maxLen + 4, H: len(lines) + 2}
	box.X = core.Clamp(cx-box.W/2, 0, max(0, dst.Width()-box.W))
	box.Y = core.Clamp(cy-box.H/2, 0, max(0, dst.Height()-box.H))

	dst.FillRect(box, core.ColorDefault)
	dst.DrawBox(box)
	for i, line := range lines {
		dst.DrawText(box.X+(box.W-len(line))/2, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD/HJKL or drag: Move | P: Pause | Enter/R: New round | Q: Quit"
}
