package timeline

// Router tracks which single event or arc is active for the detail panel.
// Selecting one kind clears the other; at most one item is ever active.

type CurrentSelection struct {
	EventID string
	ArcID   string
	// IsProvisional is true while the selected event is actively being
	// dragged: the panel should show the live uncommitted date.
	IsProvisional bool
}

type Router struct {
	drag    *Dragger
	eventID string
	arcID   string
}

func NewRouter(drag *Dragger) *Router {
	return &Router{drag: drag}
}

func (r *Router) SelectEvent(id string) {
	r.eventID = id
	r.arcID = ""
}

func (r *Router) SelectArc(id string) {
	r.arcID = id
	r.eventID = ""
}

// DeselectAll clears both selections and any stale actively-dragging
// marker. It does not revert an in-flight drag's date mutation; dragging
// and selection are independent, and a pending commit still resolves.
func (r *Router) DeselectAll() {
	r.eventID = ""
	r.arcID = ""
	if r.drag != nil {
		r.drag.Abandon()
	}
}

// RequestDeselect is the detail panel's close path (same semantics as a
// background tap).
func (r *Router) RequestDeselect() {
	r.DeselectAll()
}

func (r *Router) Current() CurrentSelection {
	cur := CurrentSelection{EventID: r.eventID, ArcID: r.arcID}
	if r.drag != nil && r.eventID != "" {
		if id, ok := r.drag.DraggingID(); ok && id == r.eventID {
			cur.IsProvisional = true
		}
	}
	return cur
}

// PruneMissing deselects entities that disappeared from the fetched
// collections (external delete) so the router never holds a dangling
// selection. It also drops drag state referencing a deleted event.
func (r *Router) PruneMissing(snap Snapshot) {
	if r.eventID != "" {
		if _, ok := snap.Event(r.eventID); !ok {
			if r.drag != nil {
				r.drag.DropEvent(r.eventID)
			}
			r.DeselectAll()
		}
	}
	if r.arcID != "" {
		found := false
		for _, a := range snap.Arcs {
			if a.ID == r.arcID {
				found = true
				break
			}
		}
		if !found {
			r.DeselectAll()
		}
	}
}
