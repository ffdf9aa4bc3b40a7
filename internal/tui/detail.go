package tui

import (
	"fmt"
	"strings"

	"storyline/internal/model"
	"storyline/internal/timeline"
)

// detailContent builds the side panel body for the current selection. The
// panel is a read view; all mutation goes through the chart or the CLI.
func detailContent(snap timeline.Snapshot, sel timeline.CurrentSelection, width int) string {
	switch {
	case sel.EventID != "":
		if ev, ok := snap.Event(sel.EventID); ok {
			return eventDetail(snap, ev, sel.IsProvisional, width)
		}
	case sel.ArcID != "":
		for _, a := range snap.Arcs {
			if a.ID == sel.ArcID {
				return arcDetail(snap, a)
			}
		}
	}
	return styleMuted().Render(strings.Join([]string{
		"Nothing selected.",
		"",
		"click      select event / arc",
		"drag       reschedule event",
		"wheel      pan · +/- zoom",
		"esc        deselect",
		"q          quit",
	}, "\n"))
}

func eventDetail(snap timeline.Snapshot, ev model.StoryEvent, provisional bool, width int) string {
	var b strings.Builder
	b.WriteString(styleTitle().Render(ev.Title))
	b.WriteString("\n\n")

	date := ev.Date
	if provisional {
		date += " " + styleMuted().Render("(moving…)")
	}
	b.WriteString(field("Date", date))
	if ev.DurationDays > 0 {
		b.WriteString(field("Duration", fmt.Sprintf("%d days", ev.DurationDays)))
	}
	if ev.Kind != "" {
		b.WriteString(field("Kind", ev.Kind))
	}
	if ev.Location != "" {
		b.WriteString(field("Location", ev.Location))
	}

	if len(ev.ParticipantIDs) == 0 {
		b.WriteString(field("Lane", "general"))
	} else {
		names := make([]string, 0, len(ev.ParticipantIDs))
		for _, id := range ev.ParticipantIDs {
			if c, ok := snap.Character(id); ok {
				names = append(names, c.Name)
			}
		}
		b.WriteString(field("Characters", strings.Join(names, ", ")))
	}

	if ev.Summary != "" {
		b.WriteString("\n")
		b.WriteString(renderMarkdown(ev.Summary, width))
	}
	return b.String()
}

func arcDetail(snap timeline.Snapshot, arc model.CharacterArc) string {
	var b strings.Builder
	b.WriteString(styleTitle().Render(arc.Name))
	b.WriteString("\n\n")
	if c, ok := snap.Character(arc.CharacterID); ok {
		b.WriteString(field("Character", c.Name))
	}
	b.WriteString(field("Start", arcEndpoint(snap, arc.StartEventID)))
	b.WriteString(field("Peak", arcEndpoint(snap, arc.PeakEventID)))
	b.WriteString(field("End", arcEndpoint(snap, arc.EndEventID)))
	if !arc.HasSpan() {
		b.WriteString("\n")
		b.WriteString(styleMuted().Render("Not drawn: needs both a start and an end event."))
	}
	return b.String()
}

func arcEndpoint(snap timeline.Snapshot, id *string) string {
	if id == nil || *id == "" {
		return "—"
	}
	if ev, ok := snap.Event(*id); ok {
		return fmt.Sprintf("%s (%s)", ev.Title, ev.Date)
	}
	return "missing event"
}

func field(name, value string) string {
	return styleMuted().Render(name+":") + " " + value + "\n"
}
