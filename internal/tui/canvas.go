package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"storyline/internal/timeline"
)

// The timeline canvas draws layout geometry into a cell grid. The engine
// works in abstract units; here one unit is one terminal cell, so rect
// coordinates floor directly to rows and columns.

type cell struct {
	ch    rune
	style int // index into cellGrid.styles, -1 for plain
}

type cellGrid struct {
	w, h   int
	cells  []cell
	styles []lipgloss.Style
}

func newCellGrid(w, h int) *cellGrid {
	g := &cellGrid{w: w, h: h, cells: make([]cell, w*h)}
	for i := range g.cells {
		g.cells[i] = cell{ch: ' ', style: -1}
	}
	return g
}

func (g *cellGrid) addStyle(st lipgloss.Style) int {
	g.styles = append(g.styles, st)
	return len(g.styles) - 1
}

func (g *cellGrid) set(x, y int, ch rune, style int) {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = cell{ch: ch, style: style}
}

func (g *cellGrid) text(x, y int, s string, style int) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r, style)
	}
}

// String flushes the grid, batching runs of equally-styled cells so the
// frame is not one escape sequence per character.
func (g *cellGrid) String() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		x := 0
		for x < g.w {
			style := g.cells[y*g.w+x].style
			var run strings.Builder
			for x < g.w && g.cells[y*g.w+x].style == style {
				run.WriteRune(g.cells[y*g.w+x].ch)
				x++
			}
			if style < 0 {
				b.WriteString(run.String())
			} else {
				b.WriteString(g.styles[style].Render(run.String()))
			}
		}
		if y < g.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// renderTimeline draws one frame of the chart: axis header, lane headers,
// arc bars, then event blocks on top. panX shifts the chart region only;
// the lane header column stays fixed.
func renderTimeline(l timeline.Layout, snap timeline.Snapshot, sel timeline.CurrentSelection, panX, width, height int) string {
	g := newCellGrid(width, height)
	originX := int(l.Metrics.OriginX())

	axis := g.addStyle(styleAxis())
	muted := g.addStyle(styleMuted())
	selected := g.addStyle(styleSelected())
	accent := g.addStyle(lipgloss.NewStyle().Foreground(colorAccent))

	tints := map[string]int{}
	tint := func(hex string) int {
		if hex == "" {
			return muted
		}
		if idx, ok := tints[hex]; ok {
			return idx
		}
		idx := g.addStyle(tintStyle(hex))
		tints[hex] = idx
		return idx
	}

	// chartSet clips chart-space drawing to the scrollable region so panned
	// content never bleeds into the fixed header column.
	chartSet := func(px, y int, ch rune, style int) {
		sx := px - panX
		if sx < originX || sx >= width {
			return
		}
		g.set(sx, y, ch, style)
	}
	chartText := func(px, y int, s string, style int) {
		for i, r := range []rune(s) {
			chartSet(px+i, y, r, style)
		}
	}

	// Axis header: date labels stepped so they never collide at low zoom.
	step := 1
	for float64(step)*l.PixelsPerDay < 8 {
		step++
	}
	for d := 0; d < l.Range.Days(); d += step {
		day := l.Range.Start.AddDate(0, 0, d)
		px := l.Metrics.OriginX() + timeline.XPosition(day, l.Range.Start, l.PixelsPerDay)
		chartText(int(px), 0, day.Format("Jan 2"), axis)
	}

	for lane, charID := range l.Lanes.Order {
		nameRow := int(l.Metrics.LaneY(lane)) + 1
		name := charID
		style := muted
		if c, ok := snap.Character(charID); ok {
			name = c.Name
			style = tint(c.Color)
		}
		g.text(1, nameRow, truncate(name, originX-2), style)
	}
	if l.Lanes.HasGeneralLane {
		row := int(l.Metrics.LaneY(l.Lanes.GeneralLane())) + 1
		g.text(1, row, truncate("(general)", originX-2), muted)
	}

	for _, bar := range l.Arcs {
		row := int(bar.Rect.Y)
		style := accent
		if c, ok := snap.Character(bar.CharacterID); ok && c.Color != "" {
			style = tint(c.Color)
		}
		if sel.ArcID == bar.ArcID {
			style = selected
		}
		c0 := int(bar.Rect.X)
		c1 := int(bar.Rect.X + bar.Rect.W - 0.001)
		if c1 < c0 {
			c1 = c0
		}
		for px := c0; px <= c1; px++ {
			chartSet(px, row, '─', style)
		}
		if bar.HasPeak {
			chartSet(int(bar.PeakX), row, '▲', style)
		}
	}

	for _, blk := range l.Blocks {
		row := int(blk.Rect.Y)
		w := int(blk.Rect.W + 0.5)
		if w < 1 {
			w = 1
		}
		x0 := int(blk.Rect.X)
		glyph := '█'
		if blk.Instant {
			glyph = '◆'
		}
		style := tint(blk.Color)
		if sel.EventID == blk.EventID {
			style = selected
		}
		for px := x0; px < x0+w; px++ {
			chartSet(px, row, glyph, style)
		}
		if ev, ok := snap.Event(blk.EventID); ok {
			chartText(x0+w+1, row, truncate(ev.Title, 16), muted)
		}
	}

	return g.String()
}
