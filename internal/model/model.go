package model

import "time"

// DayFormat is the canonical storage format for calendar dates.
// Timeline semantics are day-granular; no time-of-day is ever stored.
const DayFormat = "2006-01-02"

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Archived  bool      `json:"archived"`
}

type Character struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"` // hex, e.g. "#e05252"
	CreatedAt time.Time `json:"createdAt"`
}

type StoryEvent struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`

	Title        string `json:"title"`
	Date         string `json:"date"`         // YYYY-MM-DD, required
	DurationDays int    `json:"durationDays"` // 0 = instantaneous

	// ParticipantIDs lists the characters involved. Empty means the event
	// renders in the shared "general" lane.
	ParticipantIDs []string `json:"participantIds,omitempty"`

	Color    string `json:"color,omitempty"` // optional override of the participant tint
	Kind     string `json:"kind,omitempty"`
	Location string `json:"location,omitempty"`
	Summary  string `json:"summary,omitempty"` // markdown

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CharacterArc is a derived visual span over one character's lane. It holds
// no date data of its own; its extent comes from the referenced events.
type CharacterArc struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	Name        string `json:"name"`
	CharacterID string `json:"characterId"`

	StartEventID *string `json:"startEventId,omitempty"`
	PeakEventID  *string `json:"peakEventId,omitempty"`
	EndEventID   *string `json:"endEventId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// ParseDay parses a stored YYYY-MM-DD date into a UTC midnight time.
func ParseDay(s string) (time.Time, bool) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDay renders t as a stored YYYY-MM-DD date (UTC).
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// StartDay returns the event's start date as UTC midnight.
func (e StoryEvent) StartDay() (time.Time, bool) {
	return ParseDay(e.Date)
}

// EndDay returns the duration-adjusted end of the event: start plus
// DurationDays. For an instantaneous event this equals the start.
func (e StoryEvent) EndDay() (time.Time, bool) {
	t, ok := e.StartDay()
	if !ok {
		return time.Time{}, false
	}
	return t.AddDate(0, 0, e.DurationDays), true
}

// HasSpan reports whether the arc references both a start and an end event.
// Arcs without both are listed elsewhere but never drawn on the timeline.
func (a CharacterArc) HasSpan() bool {
	return a.StartEventID != nil && *a.StartEventID != "" &&
		a.EndEventID != nil && *a.EndEventID != ""
}
