package timeline

import (
	"testing"

	"storyline/internal/model"
)

func TestVisibleRange_PadsAndCoversDurationEnds(t *testing.T) {
	t.Parallel()

	events := []model.StoryEvent{
		{ID: "ev-a", Date: "2026-04-10", DurationDays: 0},
		{ID: "ev-b", Date: "2026-04-20", DurationDays: 5},
	}
	r := VisibleRange(events, day(2026, 4, 1))
	if !r.Start.Equal(day(2026, 4, 9)) {
		t.Fatalf("expected start 2026-04-09; got %v", r.Start)
	}
	// Max is ev-b's duration-adjusted end (Apr 25) plus one day padding.
	if !r.End.Equal(day(2026, 4, 26)) {
		t.Fatalf("expected end 2026-04-26; got %v", r.End)
	}
}

func TestVisibleRange_MinimumSpan(t *testing.T) {
	t.Parallel()

	events := []model.StoryEvent{
		{ID: "ev-a", Date: "2026-04-10"},
		{ID: "ev-b", Date: "2026-04-10"},
	}
	r := VisibleRange(events, day(2026, 4, 1))
	if got := DaysBetween(r.Start, r.End); got < minRangeDays {
		t.Fatalf("expected span >= %d days; got %d", minRangeDays, got)
	}
}

func TestVisibleRange_FallbackWindow(t *testing.T) {
	t.Parallel()

	today := day(2026, 4, 15)
	r := VisibleRange(nil, today)
	if !r.Start.Equal(day(2026, 4, 14)) {
		t.Fatalf("expected yesterday as start; got %v", r.Start)
	}
	if got := DaysBetween(r.Start, r.End); got != fallbackRangeDays-1 {
		t.Fatalf("expected %d-day fallback window; got %d", fallbackRangeDays-1, got)
	}
}

func TestVisibleRange_SkipsUnparseableDates(t *testing.T) {
	t.Parallel()

	events := []model.StoryEvent{
		{ID: "ev-bad", Date: "not-a-date"},
		{ID: "ev-ok", Date: "2026-06-01"},
	}
	r := VisibleRange(events, day(2026, 4, 1))
	if !r.Contains(day(2026, 6, 1)) {
		t.Fatalf("range %v..%v should contain the one valid date", r.Start, r.End)
	}
}

func TestDateRange_DaysFloorsAtOne(t *testing.T) {
	t.Parallel()

	r := DateRange{Start: day(2026, 1, 5), End: day(2026, 1, 5)}
	if got := r.Days(); got != 1 {
		t.Fatalf("expected 1; got %d", got)
	}
	// Inverted ranges are a data quirk, still safe to divide by.
	r = DateRange{Start: day(2026, 1, 9), End: day(2026, 1, 5)}
	if got := r.Days(); got != 1 {
		t.Fatalf("expected 1; got %d", got)
	}
}
