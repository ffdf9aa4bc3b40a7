// Package cli wires the cobra command tree over the workspace store. Every
// command is scriptable and prints JSON; running without a subcommand opens
// the interactive timeline.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storyline/internal/store"
	"storyline/internal/tui"
)

type App struct {
	Dir        string
	Project    string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "storyline",
		Short:        "Local-first story timeline planner (CLI + TUI)",
		SilenceUsage: true,
		Example: `  # Open the interactive timeline
  storyline

  # Scriptable commands
  storyline events list
  storyline events add --title "Tea Party" --date 2026-05-05 --character char-abc
  storyline export svg --out timeline.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("STORYLINE_DIR", ""), "Path to the .storyline workspace dir (default: discovered from cwd)")
	cmd.PersistentFlags().StringVar(&app.Project, "project", "", "Project id (default: the workspace's current project)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newCharactersCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newArcsCmd(app))
	cmd.AddCommand(newExportCmd(app))

	return cmd
}

func runTUI(app *App) error {
	dir, err := resolveDir(app)
	if err != nil {
		return err
	}
	return tui.Run(dir)
}

func resolveDir(app *App) (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}
	dir, err := store.DefaultDir()
	if err != nil {
		return "", err
	}
	app.Dir = dir
	return dir, nil
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir, err := resolveDir(app)
	if err != nil {
		return nil, store.Store{}, err
	}
	s := store.Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return nil, s, err
	}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

// currentProjectID resolves the project a command operates on: the --project
// flag wins, then the workspace's current project, then a sole project.
func currentProjectID(app *App, db *store.DB) (string, error) {
	if app.Project != "" {
		if _, ok := db.FindProject(app.Project); !ok {
			return "", errNotFound("project", app.Project)
		}
		return app.Project, nil
	}
	if db.CurrentProjectID != "" {
		if _, ok := db.FindProject(db.CurrentProjectID); ok {
			return db.CurrentProjectID, nil
		}
	}
	if len(db.Projects) == 1 {
		return db.Projects[0].ID, nil
	}
	return "", errors.New("no current project; run `storyline projects use <project-id>` (or pass --project)")
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if app.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func errNotFound(kind, id string) error {
	return fmt.Errorf("%s not found: %s", kind, id)
}
