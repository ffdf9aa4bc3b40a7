package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"storyline/internal/config"
	"storyline/internal/model"
)

func newInitCmd(app *App) *cobra.Command {
	var projectName string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a .storyline workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			// Writes config.yaml with defaults if it doesn't exist yet.
			if _, err := config.Load(s.Dir); err != nil {
				return writeErr(cmd, err)
			}

			if name := strings.TrimSpace(projectName); name != "" {
				p := model.Project{
					ID:        s.NextID(db, "proj"),
					Name:      name,
					CreatedAt: time.Now().UTC(),
				}
				db.Projects = append(db.Projects, p)
				if db.CurrentProjectID == "" {
					db.CurrentProjectID = p.ID
				}
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"dir":      s.Dir,
				"projects": len(db.Projects),
			}})
		},
	}

	cmd.Flags().StringVar(&projectName, "name", "", "Also create a first project with this name")
	return cmd
}
