package cli

import (
	"time"

	"github.com/spf13/cobra"

	"storyline/internal/config"
	"storyline/internal/export"
	"storyline/internal/timeline"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current project's timeline",
	}
	cmd.AddCommand(newExportSVGCmd(app))
	cmd.AddCommand(newExportICSCmd(app))
	return cmd
}

func newExportSVGCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "svg",
		Short: "Render the timeline chart as an SVG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			projectID, err := currentProjectID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := config.Load(s.Dir)
			if err != nil {
				return writeErr(cmd, err)
			}

			snap := timeline.Snapshot{
				Events:     db.ProjectEvents(projectID),
				Characters: db.ProjectCharacters(projectID),
				Arcs:       db.ProjectArcs(projectID),
			}
			m := timeline.DefaultMetrics()
			m.LaneHeight = cfg.Timeline.LaneHeight
			m.LaneHeaderWidth = cfg.Timeline.LaneHeaderWidth
			m.InstantaneousWidth = cfg.Timeline.InstantaneousWidth

			rng := timeline.VisibleRange(snap.Events, time.Now())
			l := timeline.BuildLayout(snap, rng, cfg.Timeline.PixelsPerDay, m)
			if err := export.WriteSVG(out, l, snap); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"out":    out,
				"events": len(snap.Events),
				"days":   rng.Days(),
			}})
		},
	}

	cmd.Flags().StringVar(&out, "out", "timeline.svg", "Output file path")
	return cmd
}

func newExportICSCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export events as an iCalendar file (all-day entries)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			projectID, err := currentProjectID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			project, ok := db.FindProject(projectID)
			if !ok {
				return writeErr(cmd, errNotFound("project", projectID))
			}
			events := db.ProjectEvents(projectID)
			if err := export.WriteICS(out, *project, events); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"out":    out,
				"events": len(events),
			}})
		},
	}

	cmd.Flags().StringVar(&out, "out", "timeline.ics", "Output file path")
	return cmd
}
