package timeline

import (
	"testing"

	"storyline/internal/model"
)

func TestRouter_SingleActiveItem(t *testing.T) {
	t.Parallel()

	r := NewRouter(nil)
	r.SelectEvent("ev-a")
	if cur := r.Current(); cur.EventID != "ev-a" || cur.ArcID != "" {
		t.Fatalf("unexpected selection %+v", cur)
	}
	r.SelectArc("arc-b")
	if cur := r.Current(); cur.ArcID != "arc-b" || cur.EventID != "" {
		t.Fatalf("selecting an arc must clear the event; got %+v", cur)
	}
	r.DeselectAll()
	if cur := r.Current(); cur.EventID != "" || cur.ArcID != "" {
		t.Fatalf("expected empty selection; got %+v", cur)
	}
}

func TestRouter_ProvisionalWhileDragging(t *testing.T) {
	t.Parallel()

	dates := fakeDates{"ev-a": day(2026, 5, 5)}
	d := NewDragger(dates)
	r := NewRouter(d)

	r.SelectEvent("ev-a")
	if r.Current().IsProvisional {
		t.Fatalf("not dragging yet")
	}
	d.Move("ev-a", 2*60, 60)
	if !r.Current().IsProvisional {
		t.Fatalf("selected event mid-drag must report provisional")
	}
	d.Release(2*60, 60)
	if r.Current().IsProvisional {
		t.Fatalf("release ends the dragging marker")
	}
}

func TestRouter_DeselectClearsDragMarkerNotMutation(t *testing.T) {
	t.Parallel()

	dates := fakeDates{"ev-a": day(2026, 5, 5)}
	d := NewDragger(dates)
	r := NewRouter(d)

	r.SelectEvent("ev-a")
	d.Move("ev-a", 3*60, 60)
	r.DeselectAll()
	if _, ok := d.DraggingID(); ok {
		t.Fatalf("deselect must clear the stale dragging marker")
	}
	if !dates["ev-a"].Equal(day(2026, 5, 8)) {
		t.Fatalf("deselect must not revert the drag's date mutation; got %v", dates["ev-a"])
	}
}

func TestRouter_PruneMissingClearsDanglingSelection(t *testing.T) {
	t.Parallel()

	dates := fakeDates{"ev-a": day(2026, 5, 5)}
	d := NewDragger(dates)
	r := NewRouter(d)
	r.SelectEvent("ev-gone")

	snap := Snapshot{Events: []model.StoryEvent{{ID: "ev-a", Date: "2026-05-05"}}}
	r.PruneMissing(snap)
	if cur := r.Current(); cur.EventID != "" {
		t.Fatalf("externally deleted event must deselect; got %+v", cur)
	}

	r.SelectArc("arc-gone")
	r.PruneMissing(snap)
	if cur := r.Current(); cur.ArcID != "" {
		t.Fatalf("externally deleted arc must deselect; got %+v", cur)
	}
}
