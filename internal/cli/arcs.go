package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"storyline/internal/model"
	"storyline/internal/store"
)

func newArcsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arcs",
		Short: "Character arc commands",
	}
	cmd.AddCommand(newArcsAddCmd(app))
	cmd.AddCommand(newArcsListCmd(app))
	cmd.AddCommand(newArcsSetCmd(app))
	cmd.AddCommand(newArcsRemoveCmd(app))
	return cmd
}

// arcEventRef validates an arc endpoint flag value: empty clears, "-" is the
// explicit clear spelling, otherwise the event must exist.
func arcEventRef(db *store.DB, v string) (*string, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == "-" {
		return nil, nil
	}
	if _, ok := db.FindEvent(v); !ok {
		return nil, errNotFound("event", v)
	}
	return &v, nil
}

func newArcsAddCmd(app *App) *cobra.Command {
	var (
		name      string
		character string
		start     string
		peak      string
		end       string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a character arc",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			projectID, err := currentProjectID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := db.FindCharacter(character); !ok {
				return writeErr(cmd, errNotFound("character", character))
			}

			arc := model.CharacterArc{
				ID:          s.NextID(db, "arc"),
				ProjectID:   projectID,
				Name:        strings.TrimSpace(name),
				CharacterID: character,
				CreatedAt:   time.Now().UTC(),
			}
			for _, ep := range []struct {
				flag string
				dst  **string
			}{
				{start, &arc.StartEventID},
				{peak, &arc.PeakEventID},
				{end, &arc.EndEventID},
			} {
				ref, err := arcEventRef(db, ep.flag)
				if err != nil {
					return writeErr(cmd, err)
				}
				*ep.dst = ref
			}

			db.Arcs = append(db.Arcs, arc)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": arc})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Arc name")
	cmd.Flags().StringVar(&character, "character", "", "Owning character id")
	cmd.Flags().StringVar(&start, "start", "", "Start event id")
	cmd.Flags().StringVar(&peak, "peak", "", "Peak event id")
	cmd.Flags().StringVar(&end, "end", "", "End event id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("character")
	return cmd
}

func newArcsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the current project's arcs",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			projectID, err := currentProjectID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": db.ProjectArcs(projectID)})
		},
	}
}

func newArcsSetCmd(app *App) *cobra.Command {
	var (
		start string
		peak  string
		end   string
	)

	cmd := &cobra.Command{
		Use:   "set <arc-id>",
		Short: "Update an arc's start/peak/end events (pass '-' to clear one)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			arc, ok := db.FindArc(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("arc", args[0]))
			}

			for _, ep := range []struct {
				flag    string
				changed bool
				dst     **string
			}{
				{start, cmd.Flags().Changed("start"), &arc.StartEventID},
				{peak, cmd.Flags().Changed("peak"), &arc.PeakEventID},
				{end, cmd.Flags().Changed("end"), &arc.EndEventID},
			} {
				if !ep.changed {
					continue
				}
				ref, err := arcEventRef(db, ep.flag)
				if err != nil {
					return writeErr(cmd, err)
				}
				*ep.dst = ref
			}

			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": arc})
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start event id ('-' clears)")
	cmd.Flags().StringVar(&peak, "peak", "", "Peak event id ('-' clears)")
	cmd.Flags().StringVar(&end, "end", "", "End event id ('-' clears)")
	return cmd
}

func newArcsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <arc-id>",
		Short: "Delete an arc",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			idx := -1
			for i := range db.Arcs {
				if db.Arcs[i].ID == args[0] {
					idx = i
					break
				}
			}
			if idx < 0 {
				return writeErr(cmd, errNotFound("arc", args[0]))
			}
			db.Arcs = append(db.Arcs[:idx], db.Arcs[idx+1:]...)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"removed": args[0]}})
		},
	}
}
