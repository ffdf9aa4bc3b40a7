package timeline

import (
	"time"

	"storyline/internal/model"
)

const (
	// rangePaddingDays is added on each side of the raw min/max.
	rangePaddingDays = 1
	// minRangeDays keeps the window usable when all events share a day.
	minRangeDays = 10
	// fallbackRangeDays is the "yesterday through +29 days" default window
	// shown when the project has no dated content yet.
	fallbackRangeDays = 30
)

// DateRange is the visible [Start, End] window, both UTC midnights.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the span length in whole days, floored at 1 so callers can
// divide by it safely.
func (r DateRange) Days() int {
	d := DaysBetween(r.Start, r.End)
	if d < 1 {
		return 1
	}
	return d
}

// Contains reports whether day falls inside the range, inclusive.
func (r DateRange) Contains(day time.Time) bool {
	d := DayOf(day)
	return !d.Before(r.Start) && !d.After(r.End)
}

// VisibleRange derives the padded window covering every event's start and
// duration-adjusted end. Arc spans are derived from the same events, so they
// are covered by construction. Events with unparseable dates are skipped;
// a malformed entity never hides the rest of the timeline.
//
// With no dated content at all the range falls back to yesterday..+29 days
// around today, so character lanes stay visible on an empty timeline.
func VisibleRange(events []model.StoryEvent, today time.Time) DateRange {
	var min, max time.Time
	seen := false
	for _, ev := range events {
		start, ok := ev.StartDay()
		if !ok {
			continue
		}
		end, _ := ev.EndDay()
		if !seen {
			min, max = start, end
			seen = true
			continue
		}
		if start.Before(min) {
			min = start
		}
		if end.After(max) {
			max = end
		}
	}

	if !seen {
		start := DayOf(today).AddDate(0, 0, -1)
		return DateRange{Start: start, End: start.AddDate(0, 0, fallbackRangeDays-1)}
	}

	start := min.AddDate(0, 0, -rangePaddingDays)
	end := max.AddDate(0, 0, rangePaddingDays)
	if got := DaysBetween(start, end); got < minRangeDays {
		end = start.AddDate(0, 0, minRangeDays)
	}
	return DateRange{Start: start, End: end}
}
