package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"storyline/internal/model"
)

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Story event commands",
	}
	cmd.AddCommand(newEventsAddCmd(app))
	cmd.AddCommand(newEventsListCmd(app))
	cmd.AddCommand(newEventsSetDateCmd(app))
	cmd.AddCommand(newEventsMoveCmd(app))
	cmd.AddCommand(newEventsRemoveCmd(app))
	return cmd
}

func parseDayArg(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, ok := model.ParseDay(s); !ok {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return s, nil
}

func newEventsAddCmd(app *App) *cobra.Command {
	var (
		title      string
		date       string
		duration   int
		characters []string
		kind       string
		location   string
		summary    string
		color      string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a story event",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			projectID, err := currentProjectID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			day, err := parseDayArg(date)
			if err != nil {
				return writeErr(cmd, err)
			}
			if duration < 0 {
				return writeErr(cmd, fmt.Errorf("duration must be >= 0, got %d", duration))
			}
			for _, id := range characters {
				if _, ok := db.FindCharacter(id); !ok {
					return writeErr(cmd, errNotFound("character", id))
				}
			}

			now := time.Now().UTC()
			ev := model.StoryEvent{
				ID:             s.NextID(db, "ev"),
				ProjectID:      projectID,
				Title:          strings.TrimSpace(title),
				Date:           day,
				DurationDays:   duration,
				ParticipantIDs: characters,
				Kind:           strings.TrimSpace(kind),
				Location:       strings.TrimSpace(location),
				Summary:        summary,
				Color:          strings.TrimSpace(color),
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			db.Events = append(db.Events, ev)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": ev})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Event title")
	cmd.Flags().StringVar(&date, "date", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in days (0 = instantaneous)")
	cmd.Flags().StringSliceVar(&characters, "character", nil, "Participant character id (repeatable)")
	cmd.Flags().StringVar(&kind, "kind", "", "Free-form event kind (e.g. scene, battle)")
	cmd.Flags().StringVar(&location, "location", "", "Where the event happens")
	cmd.Flags().StringVar(&summary, "summary", "", "Markdown summary")
	cmd.Flags().StringVar(&color, "color", "", "Display color override (hex)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newEventsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the current project's events, earliest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			projectID, err := currentProjectID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			events := db.ProjectEvents(projectID)
			sort.Slice(events, func(i, j int) bool {
				if events[i].Date != events[j].Date {
					return events[i].Date < events[j].Date
				}
				return events[i].ID < events[j].ID
			})
			return writeOut(cmd, app, map[string]any{"data": events})
		},
	}
}

func newEventsSetDateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-date <event-id> <date>",
		Short: "Reschedule an event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := db.FindEvent(args[0]); !ok {
				return writeErr(cmd, errNotFound("event", args[0]))
			}
			day, err := parseDayArg(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			date, _ := model.ParseDay(day)
			if err := s.CommitEventDate(cmd.Context(), args[0], date); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{
				"id":   args[0],
				"date": day,
			}})
		},
	}
}

func newEventsMoveCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "move <event-id>",
		Short: "Shift an event by a number of days (negative moves earlier)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ev, ok := db.FindEvent(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("event", args[0]))
			}
			start, ok := ev.StartDay()
			if !ok {
				return writeErr(cmd, fmt.Errorf("event %s has unparseable date %q", ev.ID, ev.Date))
			}
			date := start.AddDate(0, 0, days)
			if err := s.CommitEventDate(cmd.Context(), ev.ID, date); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{
				"id":   ev.ID,
				"date": model.FormatDay(date),
			}})
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Day delta to apply")
	_ = cmd.MarkFlagRequired("days")
	return cmd
}

func newEventsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <event-id>",
		Short: "Delete an event (arc references to it are cleared)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !db.DeleteEvent(args[0]) {
				return writeErr(cmd, errNotFound("event", args[0]))
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"removed": args[0]}})
		},
	}
}
