package timeline

import (
	"sort"

	"storyline/internal/model"
)

// LaneMap assigns every character a 0-based row, plus an optional trailing
// shared lane for events with no participants.
type LaneMap struct {
	// Index maps character id -> row.
	Index map[string]int
	// Order lists character ids in row order.
	Order []string
	// HasGeneralLane is true iff at least one event has no participants.
	HasGeneralLane bool
}

// AllocateLanes orders characters by name and assigns rows. Ordering is
// byte-wise case-sensitive with ties broken by id, which gives a total,
// locale-independent order.
func AllocateLanes(chars []model.Character, events []model.StoryEvent) LaneMap {
	sorted := make([]model.Character, len(chars))
	copy(sorted, chars)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	lm := LaneMap{Index: make(map[string]int, len(sorted))}
	for i, c := range sorted {
		lm.Index[c.ID] = i
		lm.Order = append(lm.Order, c.ID)
	}
	for _, ev := range events {
		if len(ev.ParticipantIDs) == 0 {
			lm.HasGeneralLane = true
			break
		}
	}
	return lm
}

// GeneralLane returns the row of the shared lane. Only meaningful when
// HasGeneralLane is true; it always trails the character lanes.
func (lm LaneMap) GeneralLane() int {
	return len(lm.Order)
}

// Count returns the number of lanes including the general lane.
func (lm LaneMap) Count() int {
	n := len(lm.Order)
	if lm.HasGeneralLane {
		n++
	}
	return n
}

// LaneY returns the top edge of the given row.
func (m Metrics) LaneY(lane int) float64 {
	return m.AxisHeaderHeight + float64(lane)*m.LaneHeight
}

// ContentHeight is the full canvas height for the lane map, floored at one
// lane's height so the canvas never collapses when the project is empty.
func (lm LaneMap) ContentHeight(m Metrics) float64 {
	lanes := lm.Count()
	if lanes < 1 {
		lanes = 1
	}
	return float64(lanes)*m.LaneHeight + m.AxisHeaderHeight + m.BottomMargin
}
