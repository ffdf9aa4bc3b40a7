// Package export renders the project timeline to portable formats: an SVG
// of the exact geometry the engine computed, and an iCalendar file of the
// project's events.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/natefinch/atomic"

	"storyline/internal/timeline"
)

const (
	svgLaneFillEven = "#f7f7f5"
	svgLaneFillOdd  = "#efefec"
	svgDefaultTint  = "#8a8a8a"
	svgAxisColor    = "#555555"
)

// SVG renders the layout as a standalone SVG document. Geometry comes
// straight from the engine; this function only decorates it.
func SVG(l timeline.Layout, snap timeline.Snapshot) []byte {
	var b bytes.Buffer
	m := l.Metrics

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" font-family="sans-serif" font-size="11">`+"\n",
		l.Width, l.Height)

	// Lane bands and headers.
	for i, charID := range l.Lanes.Order {
		name, tint := "?", svgDefaultTint
		if c, ok := snap.Character(charID); ok {
			name = c.Name
			if c.Color != "" {
				tint = c.Color
			}
		}
		writeLane(&b, l, i, name, tint)
	}
	if l.Lanes.HasGeneralLane {
		writeLane(&b, l, l.Lanes.GeneralLane(), "General", svgDefaultTint)
	}

	// Axis ticks: one per day, labeled sparsely enough not to collide.
	labelEvery := 1
	if l.PixelsPerDay < 70 {
		labelEvery = int(70/l.PixelsPerDay) + 1
	}
	for d := 0; d <= l.Range.Days(); d++ {
		day := l.Range.Start.AddDate(0, 0, d)
		x := m.OriginX() + timeline.XPosition(day, l.Range.Start, l.PixelsPerDay)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.0f" stroke="#dddddd"/>`+"\n",
			x, m.AxisHeaderHeight, x, l.Height-m.BottomMargin)
		if d%labelEvery == 0 {
			fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="%s">%s</text>`+"\n",
				x+2, m.AxisHeaderHeight-6, svgAxisColor, day.Format("Jan 2"))
		}
	}

	// Arc bars under the event blocks.
	for _, arc := range l.Arcs {
		color := svgDefaultTint
		if c, ok := snap.Character(arc.CharacterID); ok && c.Color != "" {
			color = c.Color
		}
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" opacity="0.7"/>`+"\n",
			arc.Rect.X, arc.Rect.Y, arc.Rect.W, arc.Rect.H, color)
		if arc.HasPeak {
			// Peak tick: a small triangle above the bar.
			fmt.Fprintf(&b, `<path d="M %.1f %.1f l 4 -7 l -8 0 z" fill="%s"/>`+"\n",
				arc.PeakX, arc.Rect.Y, color)
		}
	}

	for _, blk := range l.Blocks {
		color := blk.Color
		if color == "" {
			color = svgDefaultTint
		}
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="2" fill="%s"/>`+"\n",
			blk.Rect.X, blk.Rect.Y, blk.Rect.W, blk.Rect.H, color)
		if ev, ok := snap.Event(blk.EventID); ok {
			fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="#222222">%s</text>`+"\n",
				blk.Rect.X+2, blk.Rect.Y-2, escape(ev.Title))
		}
	}

	b.WriteString("</svg>\n")
	return b.Bytes()
}

// WriteSVG writes the rendered document atomically so a crash mid-export
// never truncates a previous export.
func WriteSVG(path string, l timeline.Layout, snap timeline.Snapshot) error {
	return atomic.WriteFile(path, bytes.NewReader(SVG(l, snap)))
}

func writeLane(b *bytes.Buffer, l timeline.Layout, lane int, name, tint string) {
	m := l.Metrics
	fill := svgLaneFillEven
	if lane%2 == 1 {
		fill = svgLaneFillOdd
	}
	y := m.LaneY(lane)
	fmt.Fprintf(b, `<rect x="0" y="%.1f" width="%.0f" height="%.1f" fill="%s"/>`+"\n",
		y, l.Width, m.LaneHeight, fill)
	fmt.Fprintf(b, `<text x="6" y="%.1f" fill="%s" font-weight="bold">%s</text>`+"\n",
		y+m.LaneHeight/2+4, tint, escape(name))
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
