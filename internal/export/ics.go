package export

import (
	"bytes"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/natefinch/atomic"

	"storyline/internal/model"
)

// ICS serializes the project's events as all-day VEVENTs. A zero-duration
// event occupies its start day; a durative one runs through its
// duration-adjusted end (DTEND is exclusive per RFC 5545). Events with
// unparseable dates are skipped rather than aborting the export.
func ICS(project model.Project, events []model.StoryEvent) []byte {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//storyline//timeline//EN")
	cal.SetXWRCalName(project.Name)

	for _, ev := range events {
		start, ok := ev.StartDay()
		if !ok {
			continue
		}
		end, _ := ev.EndDay()
		if !end.After(start) {
			end = start.AddDate(0, 0, 1)
		}

		ve := cal.AddEvent(fmt.Sprintf("%s@storyline", ev.ID))
		ve.SetDtStampTime(time.Now().UTC())
		ve.SetAllDayStartAt(start)
		ve.SetAllDayEndAt(end)
		ve.SetSummary(ev.Title)
		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}
		if ev.Summary != "" {
			ve.SetDescription(ev.Summary)
		}
	}

	return []byte(cal.Serialize())
}

func WriteICS(path string, project model.Project, events []model.StoryEvent) error {
	return atomic.WriteFile(path, bytes.NewReader(ICS(project, events)))
}
