package tui

import (
	"strings"
	"testing"
	"time"

	"storyline/internal/model"
	"storyline/internal/timeline"
)

func chartSnapshot() timeline.Snapshot {
	fall := "ev-fall"
	tea := "ev-tea"
	return timeline.Snapshot{
		Characters: []model.Character{
			{ID: "char-alice", Name: "Alice", Color: "#e05252"},
			{ID: "char-bob", Name: "Bob"},
		},
		Events: []model.StoryEvent{
			{ID: "ev-fall", Title: "Down the Rabbit Hole", Date: "2026-05-01",
				ParticipantIDs: []string{"char-alice"}},
			{ID: "ev-tea", Title: "Tea Party", Date: "2026-05-05", DurationDays: 2,
				ParticipantIDs: []string{"char-alice", "char-bob"}},
			{ID: "ev-eclipse", Title: "Eclipse", Date: "2026-05-03"},
		},
		Arcs: []model.CharacterArc{
			{ID: "arc-fall", Name: "Alice falls", CharacterID: "char-alice",
				StartEventID: &fall, EndEventID: &tea},
		},
	}
}

func renderedChart(t *testing.T, sel timeline.CurrentSelection) string {
	t.Helper()
	snap := chartSnapshot()
	rng := timeline.VisibleRange(snap.Events, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC))
	l := timeline.BuildLayout(snap, rng, 4, cellMetrics())
	return renderTimeline(l, snap, sel, 0, 100, 12)
}

func TestRenderTimelineShowsLanesAndGlyphs(t *testing.T) {
	t.Parallel()
	out := renderedChart(t, timeline.CurrentSelection{})

	for _, want := range []string{"Alice", "Bob", "(general)", "Tea Party", "█", "◆", "─"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "\n"); got != 11 {
		t.Fatalf("chart has %d newlines, want 11", got)
	}
}

func TestRenderTimelineAxisLabels(t *testing.T) {
	t.Parallel()
	out := renderedChart(t, timeline.CurrentSelection{})
	firstLine := strings.SplitN(out, "\n", 2)[0]
	if !strings.Contains(firstLine, "Apr 30") {
		t.Fatalf("axis header missing range start label: %q", firstLine)
	}
}

func TestRenderTimelineSelection(t *testing.T) {
	t.Parallel()
	// Selection changes styling only; the frame must stay well-formed for
	// event and arc selections alike.
	for _, sel := range []timeline.CurrentSelection{
		{EventID: "ev-tea"},
		{ArcID: "arc-fall"},
	} {
		out := renderedChart(t, sel)
		if got := strings.Count(out, "\n"); got != 11 {
			t.Fatalf("selected chart has %d newlines, want 11", got)
		}
	}
}

func TestRenderTimelinePanKeepsHeaderFixed(t *testing.T) {
	t.Parallel()
	snap := chartSnapshot()
	rng := timeline.VisibleRange(snap.Events, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC))
	l := timeline.BuildLayout(snap, rng, 4, cellMetrics())

	out := renderTimeline(l, snap, timeline.CurrentSelection{}, 30, 100, 12)
	if !strings.Contains(out, "Alice") {
		t.Fatalf("pan scrolled the fixed lane header away:\n%s", out)
	}
}

func TestCellGridClipsOutOfBounds(t *testing.T) {
	t.Parallel()
	g := newCellGrid(4, 2)
	g.text(-2, 0, "abcdefgh", -1)
	g.text(0, 5, "zzz", -1)
	got := g.String()
	want := "cdef\n    "
	if got != want {
		t.Fatalf("grid = %q, want %q", got, want)
	}
}
