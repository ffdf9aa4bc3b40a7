package timeline

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeDates map[string]time.Time

func (f fakeDates) EventDate(id string) (time.Time, bool) {
	t, ok := f[id]
	return t, ok
}

func (f fakeDates) SetEventDate(id string, date time.Time) {
	f[id] = date
}

type fakeCommitter struct {
	err     error
	commits []CommitRequest
}

func (c *fakeCommitter) CommitEventDate(_ context.Context, id string, date time.Time) error {
	c.commits = append(c.commits, CommitRequest{EventID: id, Date: date})
	return c.err
}

func TestDragger_OptimisticMoveAndCommit(t *testing.T) {
	t.Parallel()

	orig := day(2026, 5, 5)
	dates := fakeDates{"ev-tea": orig}
	d := NewDragger(dates)

	// First move captures the original date and applies the provisional one.
	if !d.Move("ev-tea", 3*60, 60) {
		t.Fatalf("expected a date change")
	}
	if got := dates["ev-tea"]; !got.Equal(day(2026, 5, 8)) {
		t.Fatalf("optimistic date expected 2026-05-08; got %v", got)
	}
	if st := d.StateOf("ev-tea"); st != Dragging {
		t.Fatalf("expected Dragging; got %v", st)
	}

	// Same provisional date again: no change reported.
	if d.Move("ev-tea", 3*60+5, 60) {
		t.Fatalf("sub-day jitter must not report a change")
	}

	c := &fakeCommitter{}
	out, ok := d.ReleaseAndCommit(context.Background(), 3*60, 60, c)
	if !ok {
		t.Fatalf("expected an active session")
	}
	if out.Err != nil || out.RolledBack {
		t.Fatalf("unexpected failure: %+v", out)
	}
	if !out.Date.Equal(day(2026, 5, 8)) {
		t.Fatalf("expected committed date 2026-05-08; got %v", out.Date)
	}
	if len(c.commits) != 1 || !c.commits[0].Date.Equal(day(2026, 5, 8)) {
		t.Fatalf("expected exactly one commit at the final date; got %+v", c.commits)
	}
	if st := d.StateOf("ev-tea"); st != DragIdle {
		t.Fatalf("expected Idle after commit; got %v", st)
	}
}

func TestDragger_FinalDeltaWins(t *testing.T) {
	t.Parallel()

	orig := day(2026, 5, 5)
	dates := fakeDates{"ev-a": orig}
	d := NewDragger(dates)

	// Intermediate moves round individually; the release recomputes from
	// the final translation so rounding never accumulates.
	d.Move("ev-a", 29, 60)  // rounds to 0 days
	d.Move("ev-a", 95, 60)  // rounds to +2
	d.Move("ev-a", 140, 60) // rounds to +2

	c := &fakeCommitter{}
	out, _ := d.ReleaseAndCommit(context.Background(), 140, 60, c)
	if !out.Date.Equal(day(2026, 5, 7)) {
		t.Fatalf("expected final date from final delta (+2); got %v", out.Date)
	}
}

func TestDragger_IdempotenceThereAndBack(t *testing.T) {
	t.Parallel()

	orig := day(2026, 5, 5)
	dates := fakeDates{"ev-a": orig}
	d := NewDragger(dates)
	c := &fakeCommitter{}

	d.Move("ev-a", 4*60, 60)
	if out, _ := d.ReleaseAndCommit(context.Background(), 4*60, 60, c); !out.Date.Equal(day(2026, 5, 9)) {
		t.Fatalf("expected +4 days; got %v", out.Date)
	}

	d.Move("ev-a", -4*60, 60)
	out, _ := d.ReleaseAndCommit(context.Background(), -4*60, 60, c)
	if out.Err != nil {
		t.Fatalf("expected successful commit; got %v", out.Err)
	}
	if !out.Date.Equal(orig) || !dates["ev-a"].Equal(orig) {
		t.Fatalf("drag +k then -k must restore the original date; got %v", dates["ev-a"])
	}
}

func TestDragger_RollbackOnCommitFailure(t *testing.T) {
	t.Parallel()

	orig := day(2026, 5, 5)
	dates := fakeDates{"ev-a": orig}
	d := NewDragger(dates)

	d.Move("ev-a", 7*60, 60)
	c := &fakeCommitter{err: errors.New("disk full")}
	out, _ := d.ReleaseAndCommit(context.Background(), 7*60, 60, c)
	if !out.RolledBack || out.Err == nil {
		t.Fatalf("expected rollback outcome; got %+v", out)
	}
	if !dates["ev-a"].Equal(orig) {
		t.Fatalf("in-memory date must revert to %v; got %v", orig, dates["ev-a"])
	}
	if st := d.StateOf("ev-a"); st != DragIdle {
		t.Fatalf("machine must return to Idle after rollback; got %v", st)
	}
}

func TestDragger_AsyncResolveRollsBack(t *testing.T) {
	t.Parallel()

	orig := day(2026, 5, 5)
	dates := fakeDates{"ev-a": orig}
	d := NewDragger(dates)

	d.Move("ev-a", 2*60, 60)
	req, ok := d.Release(2*60, 60)
	if !ok || !req.Date.Equal(day(2026, 5, 7)) {
		t.Fatalf("unexpected request %+v %v", req, ok)
	}
	if st := d.StateOf("ev-a"); st != Committing {
		t.Fatalf("expected Committing while the host persists; got %v", st)
	}
	// While committing, a new drag on the same event is ignored.
	if d.Move("ev-a", 60, 60) {
		t.Fatalf("move during in-flight commit must be ignored")
	}

	out := d.Resolve("ev-a", errors.New("nope"))
	if !out.RolledBack || !dates["ev-a"].Equal(orig) {
		t.Fatalf("expected rollback to %v; got %+v date=%v", orig, out, dates["ev-a"])
	}
}

func TestDragger_SecondDragCancelsFirst(t *testing.T) {
	t.Parallel()

	dates := fakeDates{"ev-a": day(2026, 5, 5), "ev-b": day(2026, 5, 10)}
	d := NewDragger(dates)

	d.Move("ev-a", 3*60, 60)
	// A drag-start on another event ends the prior session as a cancel.
	d.Move("ev-b", 60, 60)
	if !dates["ev-a"].Equal(day(2026, 5, 5)) {
		t.Fatalf("ev-a must revert on implicit cancel; got %v", dates["ev-a"])
	}
	if id, ok := d.DraggingID(); !ok || id != "ev-b" {
		t.Fatalf("expected active drag on ev-b; got %q %v", id, ok)
	}
}

func TestDragger_AbandonKeepsMutationCancelReverts(t *testing.T) {
	t.Parallel()

	dates := fakeDates{"ev-a": day(2026, 5, 5)}
	d := NewDragger(dates)

	d.Move("ev-a", 3*60, 60)
	d.Abandon()
	if _, ok := d.DraggingID(); ok {
		t.Fatalf("abandon must clear the dragging marker")
	}
	if !dates["ev-a"].Equal(day(2026, 5, 8)) {
		t.Fatalf("abandon must not revert the optimistic mutation; got %v", dates["ev-a"])
	}

	d.Move("ev-a", 60, 60)
	d.Cancel()
	if !dates["ev-a"].Equal(day(2026, 5, 8)) {
		t.Fatalf("cancel reverts to the session's original date; got %v", dates["ev-a"])
	}
}

func TestDragger_DropEventClearsDanglingState(t *testing.T) {
	t.Parallel()

	dates := fakeDates{"ev-a": day(2026, 5, 5)}
	d := NewDragger(dates)
	d.Move("ev-a", 60, 60)
	d.Release(60, 60)
	d.DropEvent("ev-a")
	if st := d.StateOf("ev-a"); st != DragIdle {
		t.Fatalf("expected Idle after drop; got %v", st)
	}
}

func TestDragger_ReleaseWithoutSession(t *testing.T) {
	t.Parallel()

	d := NewDragger(fakeDates{})
	if _, ok := d.Release(100, 60); ok {
		t.Fatalf("release without a session must be a no-op")
	}
}
