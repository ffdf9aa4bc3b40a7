package timeline

import (
	"context"
	"math"
	"time"
)

// The drag-reschedule state machine converts pointer deltas into day
// deltas, mutates the event's date optimistically for live feedback, and
// persists on release with rollback on failure. It is deliberately free of
// any input-event API so it can be driven from tests and from any host.

// DragState enumerates the per-event machine:
// Idle -> Dragging -> Committing -> Idle.
type DragState int

const (
	DragIdle DragState = iota
	Dragging
	Committing
)

// EventDates is the engine's mutable view of event dates. The host owns
// the backing collection; writes here are the optimistic in-memory
// mutation, not persistence.
type EventDates interface {
	EventDate(eventID string) (time.Time, bool)
	SetEventDate(eventID string, date time.Time)
}

// Committer persists a single event's mutated date. Failure carries no
// payload beyond "did not persist".
type Committer interface {
	CommitEventDate(ctx context.Context, eventID string, date time.Time) error
}

// CommitRequest is what Release hands the host to persist.
type CommitRequest struct {
	EventID string
	Date    time.Time
}

// CommitOutcome reports how a drag ended. RolledBack means the commit
// failed and the in-memory date was reverted to the pre-drag value.
type CommitOutcome struct {
	EventID    string
	Date       time.Time
	Err        error
	RolledBack bool
}

type dragSession struct {
	eventID      string
	originalDate time.Time
}

type Dragger struct {
	dates   EventDates
	session *dragSession

	// pending tracks in-flight commits by event id -> pre-drag date. A new
	// drag on an event with a pending commit is ignored until it resolves.
	pending map[string]time.Time
}

func NewDragger(dates EventDates) *Dragger {
	return &Dragger{dates: dates, pending: map[string]time.Time{}}
}

// StateOf reports the machine state for one event.
func (d *Dragger) StateOf(eventID string) DragState {
	if _, ok := d.pending[eventID]; ok {
		return Committing
	}
	if d.session != nil && d.session.eventID == eventID {
		return Dragging
	}
	return DragIdle
}

// DraggingID returns the event actively being dragged, if any. Hosts use
// this as the "provisional" marker for the detail panel.
func (d *Dragger) DraggingID() (string, bool) {
	if d.session == nil {
		return "", false
	}
	return d.session.eventID, true
}

// Move handles a pointer-move with the cumulative translation deltaX. The
// first move of a session captures the original date once; later moves in
// the same session never re-capture it. Returns true when the event's date
// changed this move.
//
// Starting a drag on a different event while one is active ends the prior
// session as a cancel (revert, no commit): on a single-pointer host that
// only happens after a missed release. A move on an event whose commit is
// still in flight is ignored.
func (d *Dragger) Move(eventID string, deltaX, pixelsPerDay float64) bool {
	if _, inFlight := d.pending[eventID]; inFlight {
		return false
	}
	if d.session != nil && d.session.eventID != eventID {
		d.Cancel()
	}
	if d.session == nil {
		orig, ok := d.dates.EventDate(eventID)
		if !ok {
			return false
		}
		d.session = &dragSession{eventID: eventID, originalDate: orig}
	}

	provisional := d.session.originalDate.AddDate(0, 0, daysDelta(deltaX, pixelsPerDay))
	current, ok := d.dates.EventDate(eventID)
	if !ok {
		// Event vanished mid-drag (external delete); drop the session.
		d.session = nil
		return false
	}
	if provisional.Equal(current) {
		return false
	}
	d.dates.SetEventDate(eventID, provisional)
	return true
}

// Release ends the active session. The final day delta is recomputed from
// the final translation rather than from accumulated per-move state, so
// intermediate rounding never drifts the result. The event's date is set
// to the final value and a CommitRequest is returned for the host to
// persist; the machine stays in Committing for that event until Resolve.
func (d *Dragger) Release(deltaX, pixelsPerDay float64) (CommitRequest, bool) {
	if d.session == nil {
		return CommitRequest{}, false
	}
	s := d.session
	d.session = nil

	final := s.originalDate.AddDate(0, 0, daysDelta(deltaX, pixelsPerDay))
	if cur, ok := d.dates.EventDate(s.eventID); !ok || !cur.Equal(final) {
		if !ok {
			return CommitRequest{}, false
		}
		d.dates.SetEventDate(s.eventID, final)
	}
	d.pending[s.eventID] = s.originalDate
	return CommitRequest{EventID: s.eventID, Date: final}, true
}

// Resolve completes a commit started by Release. On failure the event's
// date reverts to the pre-drag value; either way the machine returns to
// Idle for that event.
func (d *Dragger) Resolve(eventID string, err error) CommitOutcome {
	orig, ok := d.pending[eventID]
	if !ok {
		return CommitOutcome{EventID: eventID, Err: err}
	}
	delete(d.pending, eventID)

	if err == nil {
		date, _ := d.dates.EventDate(eventID)
		return CommitOutcome{EventID: eventID, Date: date}
	}
	d.dates.SetEventDate(eventID, orig)
	return CommitOutcome{EventID: eventID, Date: orig, Err: err, RolledBack: true}
}

// ReleaseAndCommit is the synchronous form: release, persist, resolve.
func (d *Dragger) ReleaseAndCommit(ctx context.Context, deltaX, pixelsPerDay float64, c Committer) (CommitOutcome, bool) {
	req, ok := d.Release(deltaX, pixelsPerDay)
	if !ok {
		return CommitOutcome{}, false
	}
	return d.Resolve(req.EventID, c.CommitEventDate(ctx, req.EventID, req.Date)), true
}

// Cancel reverts the active session to its original date without a commit.
func (d *Dragger) Cancel() {
	if d.session == nil {
		return
	}
	s := d.session
	d.session = nil
	if _, ok := d.dates.EventDate(s.eventID); ok {
		d.dates.SetEventDate(s.eventID, s.originalDate)
	}
}

// Abandon clears the active-drag marker without touching the optimistic
// date mutation. Deselection uses this: deselecting and cancelling a drag
// are orthogonal.
func (d *Dragger) Abandon() {
	d.session = nil
}

// Busy reports whether a session is active or any commit is in flight.
// Hosts that refresh from storage on a timer use this to avoid clobbering
// the optimistic mutation with a stale image.
func (d *Dragger) Busy() bool {
	return d.session != nil || len(d.pending) > 0
}

// DropEvent clears any session or pending commit referencing a deleted
// event so the machine never holds a dangling reference.
func (d *Dragger) DropEvent(eventID string) {
	if d.session != nil && d.session.eventID == eventID {
		d.session = nil
	}
	delete(d.pending, eventID)
}

func daysDelta(deltaX, pixelsPerDay float64) int {
	if pixelsPerDay <= 0 {
		return 0
	}
	return int(math.Round(deltaX / pixelsPerDay))
}
