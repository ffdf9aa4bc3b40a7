package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"storyline/internal/model"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsAddCmd(app))
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsUseCmd(app))
	cmd.AddCommand(newProjectsArchiveCmd(app))
	return cmd
}

func newProjectsAddCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p := model.Project{
				ID:        s.NextID(db, "proj"),
				Name:      strings.TrimSpace(name),
				CreatedAt: time.Now().UTC(),
			}
			db.Projects = append(db.Projects, p)
			if db.CurrentProjectID == "" {
				db.CurrentProjectID = p.ID
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":    db.Projects,
				"current": db.CurrentProjectID,
			})
		},
	}
}

func newProjectsUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <project-id>",
		Short: "Set the workspace's current project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := db.FindProject(args[0]); !ok {
				return writeErr(cmd, errNotFound("project", args[0]))
			}
			db.CurrentProjectID = args[0]
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"current": args[0]}})
		},
	}
}

func newProjectsArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <project-id>",
		Short: "Archive a project (kept in storage, hidden from pickers)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, ok := db.FindProject(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("project", args[0]))
			}
			p.Archived = true
			if db.CurrentProjectID == p.ID {
				db.CurrentProjectID = ""
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
}
