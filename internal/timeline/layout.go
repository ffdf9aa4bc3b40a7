package timeline

import (
	"time"

	"storyline/internal/model"
)

// The layout builder converts the current snapshot into screen-space
// geometry. It is a full recomputation on every relevant input change;
// with tens to low hundreds of entities there is nothing to diff.

type Rect struct {
	X, Y, W, H float64
}

// EventBlock is one visual copy of an event. An event with N participants
// fans out into N blocks sharing one EventID and date; dragging any copy
// moves them all on the next pass.
type EventBlock struct {
	EventID     string
	CharacterID string // empty for the general lane
	Lane        int
	Rect        Rect
	Color       string
	Instant     bool
}

// ArcBar is a drawn arc span in its character's lane.
type ArcBar struct {
	ArcID       string
	CharacterID string
	Lane        int
	Rect        Rect
	// Degenerate marks spans floored to ArcMinWidth (end before start, a
	// user-data quirk rendered as a visible sliver rather than an error).
	Degenerate bool
	HasPeak    bool
	PeakX      float64
}

// Layout is the complete rendered geometry for one pass.
type Layout struct {
	Range        DateRange
	PixelsPerDay float64
	Lanes        LaneMap
	Metrics      Metrics
	Blocks       []EventBlock
	Arcs         []ArcBar
	Width        float64
	Height       float64
}

// Snapshot is the engine's read view of the persisted collections.
type Snapshot struct {
	Events     []model.StoryEvent
	Characters []model.Character
	Arcs       []model.CharacterArc
}

// Event resolves an event by id.
func (s Snapshot) Event(id string) (model.StoryEvent, bool) {
	for _, ev := range s.Events {
		if ev.ID == id {
			return ev, true
		}
	}
	return model.StoryEvent{}, false
}

// Character resolves a character by id.
func (s Snapshot) Character(id string) (model.Character, bool) {
	for _, c := range s.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return model.Character{}, false
}

// BuildLayout computes geometry for every visible event block and arc
// segment. Malformed entities (bad dates, dangling references, inverted
// arc spans) degrade to omitted or degenerate shapes; they never panic and
// never suppress the rest of the layout.
func BuildLayout(snap Snapshot, rng DateRange, pixelsPerDay float64, m Metrics) Layout {
	lanes := AllocateLanes(snap.Characters, snap.Events)
	out := Layout{
		Range:        rng,
		PixelsPerDay: pixelsPerDay,
		Lanes:        lanes,
		Metrics:      m,
		Height:       lanes.ContentHeight(m),
	}
	out.Width = m.OriginX() + float64(rng.Days())*pixelsPerDay + m.HorizontalPadding

	xAt := func(day time.Time) float64 {
		return m.OriginX() + XPosition(day, rng.Start, pixelsPerDay)
	}

	for _, ev := range snap.Events {
		start, ok := ev.StartDay()
		if !ok {
			continue
		}
		w := m.InstantaneousWidth
		instant := ev.DurationDays == 0
		if !instant {
			w = float64(ev.DurationDays) * pixelsPerDay
			if w < pixelsPerDay {
				// One-day floor so durative blocks never vanish at low zoom.
				w = pixelsPerDay
			}
		}
		x := xAt(start)

		blockFor := func(lane int, charID, tint string) EventBlock {
			color := ev.Color
			if color == "" {
				color = tint
			}
			return EventBlock{
				EventID:     ev.ID,
				CharacterID: charID,
				Lane:        lane,
				Instant:     instant,
				Color:       color,
				Rect: Rect{
					X: x,
					Y: m.LaneY(lane) + m.BlockFraction*m.LaneHeight,
					W: w,
					H: m.BlockHeightFraction * m.LaneHeight,
				},
			}
		}

		if len(ev.ParticipantIDs) == 0 {
			out.Blocks = append(out.Blocks, blockFor(lanes.GeneralLane(), "", ""))
			continue
		}
		for _, charID := range ev.ParticipantIDs {
			lane, ok := lanes.Index[charID]
			if !ok {
				// Participant no longer exists; skip this copy only.
				continue
			}
			tint := ""
			if c, ok := snap.Character(charID); ok {
				tint = c.Color
			}
			out.Blocks = append(out.Blocks, blockFor(lane, charID, tint))
		}
	}

	for _, arc := range snap.Arcs {
		if !arc.HasSpan() {
			continue
		}
		lane, ok := lanes.Index[arc.CharacterID]
		if !ok {
			continue
		}
		startEv, ok := snap.Event(*arc.StartEventID)
		if !ok {
			continue
		}
		endEv, ok := snap.Event(*arc.EndEventID)
		if !ok {
			continue
		}
		startDay, ok := startEv.StartDay()
		if !ok {
			continue
		}
		endDay, ok := endEv.EndDay()
		if !ok {
			continue
		}

		x0 := xAt(startDay)
		x1 := xAt(endDay)
		bar := ArcBar{
			ArcID:       arc.ID,
			CharacterID: arc.CharacterID,
			Lane:        lane,
			Rect: Rect{
				X: x0,
				Y: m.LaneY(lane) + m.ArcFraction*m.LaneHeight,
				W: x1 - x0,
				H: m.ArcHeight,
			},
		}
		if bar.Rect.W < m.ArcMinWidth {
			bar.Rect.W = m.ArcMinWidth
			bar.Degenerate = true
		}

		if arc.PeakEventID != nil && *arc.PeakEventID != "" {
			if peakEv, ok := snap.Event(*arc.PeakEventID); ok {
				if peakDay, ok := peakEv.StartDay(); ok {
					px := xAt(peakDay)
					// A peak outside the span is a user-data quirk, not an
					// invariant violation: it is silently not ticked.
					if px >= x0 && px <= x1 {
						bar.HasPeak = true
						bar.PeakX = px
					}
				}
			}
		}

		out.Arcs = append(out.Arcs, bar)
	}

	return out
}

// BlockAt hit-tests blocks, topmost-last. Returns the block under (x, y).
func (l Layout) BlockAt(x, y float64) (EventBlock, bool) {
	for i := len(l.Blocks) - 1; i >= 0; i-- {
		if l.Blocks[i].Rect.contains(x, y) {
			return l.Blocks[i], true
		}
	}
	return EventBlock{}, false
}

// ArcAt hit-tests arc bars.
func (l Layout) ArcAt(x, y float64) (ArcBar, bool) {
	for i := len(l.Arcs) - 1; i >= 0; i-- {
		if l.Arcs[i].Rect.contains(x, y) {
			return l.Arcs[i], true
		}
	}
	return ArcBar{}, false
}

func (r Rect) contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
