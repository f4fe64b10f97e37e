package terminal

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/blockfall/game/config"
	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/loop"
)

// Layout places the board and the side panel on screen. The board's left
// wall is at column 0 and the top row at line 0.
type Layout struct {
	Width  int // board columns
	Height int // board rows
}

// BoardCell maps a grid coordinate to a screen position
func (l Layout) BoardCell(x, y int) (int, int) {
	return x + 1, y
}

// FloorRow is the screen line of the bottom wall
func (l Layout) FloorRow() int {
	return l.Height
}

// PanelColumn is the first column of the side panel
func (l Layout) PanelColumn() int {
	return l.Width + 4
}

// Painter draws snapshots onto a tcell screen
type Painter struct {
	mu      sync.Mutex
	screen  tcell.Screen
	texture config.Texture
	last    *engine.Snapshot
}

// NewPainter creates a painter using the given glyphs
func NewPainter(screen tcell.Screen, texture config.Texture) *Painter {
	return &Painter{screen: screen, texture: texture}
}

// OnFrame is a loop.FrameHook that repaints the board
func (p *Painter) OnFrame(frame loop.Frame) {
	p.Draw(frame.Snapshot)
}

// Draw paints snap and shows it
func (p *Painter) Draw(snap *engine.Snapshot) {
	if snap == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last = snap
	p.paint(snap)
}

// Redraw repaints the last snapshot, used after a resize
func (p *Painter) Redraw() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.last == nil {
		return
	}
	p.screen.Sync()
	p.paint(p.last)
}

func (p *Painter) paint(snap *engine.Snapshot) {
	layout := Layout{Width: snap.Width, Height: snap.Height}
	p.screen.Clear()

	wall := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for y := 0; y < snap.Height; y++ {
		p.screen.SetContent(0, y, p.texture.Wall, nil, wall)
		p.screen.SetContent(snap.Width+1, y, p.texture.Wall, nil, wall)
	}
	for x := 0; x < snap.Width+2; x++ {
		p.screen.SetContent(x, layout.FloorRow(), p.texture.Wall, nil, wall)
	}

	for y, row := range snap.Cells {
		for x, cell := range row {
			sx, sy := layout.BoardCell(x, y)
			if cell.Occupied {
				p.screen.SetContent(sx, sy, p.texture.Full, nil, styleFor(cell.Color))
			} else {
				p.screen.SetContent(sx, sy, p.texture.Empty, nil, tcell.StyleDefault)
			}
		}
	}

	ghost := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	for _, pt := range snap.Ghost {
		if pt.Y >= 0 && pt.Y < snap.Height && !snap.Occupied(pt.X, pt.Y) {
			sx, sy := layout.BoardCell(pt.X, pt.Y)
			p.screen.SetContent(sx, sy, p.texture.Shadow, nil, ghost)
		}
	}

	active := styleFor(snap.ActiveColor)
	for _, pt := range snap.Active {
		if pt.Y >= 0 && pt.Y < snap.Height {
			sx, sy := layout.BoardCell(pt.X, pt.Y)
			p.screen.SetContent(sx, sy, p.texture.Full, nil, active)
		}
	}

	p.drawPanel(layout, snap)
	p.screen.Show()
}

func (p *Painter) drawPanel(layout Layout, snap *engine.Snapshot) {
	col := layout.PanelColumn()
	row := 0
	for _, line := range PanelLines(snap) {
		p.text(col, row, line, tcell.StyleDefault)
		row++
	}

	row++
	p.text(col, row, "Next:", tcell.StyleDefault.Bold(true))
	row++
	for _, next := range snap.Upcoming {
		preview := engine.NewPiece(next.Kind).Render(p.texture.Full, ' ')
		for _, line := range strings.Split(strings.TrimSuffix(preview, "\n"), "\n") {
			p.text(col, row, line, styleFor(next.Color))
			row++
		}
		row++
	}
}

// DrawRecord shows the final record over the board
func (p *Painter) DrawRecord(ledger engine.Ledger) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.screen.Clear()
	style := tcell.StyleDefault.Bold(true)
	p.text(0, 0, "GAME OVER", style)
	p.text(0, 2, ledger.String(), tcell.StyleDefault)
	p.text(0, 4, "press any key to exit", tcell.StyleDefault.Foreground(tcell.ColorGray))
	p.screen.Show()
}

func (p *Painter) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		p.screen.SetContent(x+i, y, r, nil, style)
	}
}

// PanelLines returns the status lines shown beside the board
func PanelLines(snap *engine.Snapshot) []string {
	lines := []string{
		fmt.Sprintf("Score: %d", snap.Ledger.Score),
		fmt.Sprintf("Combo: %d", snap.Ledger.CurrentCombo),
		fmt.Sprintf("Best combo: %d", snap.Ledger.BestCombo),
		fmt.Sprintf("Rows: %d", snap.Ledger.RowsCleared),
	}
	switch snap.Status {
	case engine.Paused:
		lines = append(lines, "PAUSED (p to resume)")
	case engine.Accelerative:
		lines = append(lines, "Dropping")
	case engine.Exited:
		lines = append(lines, "GAME OVER")
	}
	return lines
}

func styleFor(color engine.Color) tcell.Style {
	if color == "" {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(tcell.GetColor(string(color)))
}
