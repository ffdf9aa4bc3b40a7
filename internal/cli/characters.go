package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"storyline/internal/model"
)

func newCharactersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "characters",
		Short: "Character commands",
	}
	cmd.AddCommand(newCharactersAddCmd(app))
	cmd.AddCommand(newCharactersListCmd(app))
	cmd.AddCommand(newCharactersRemoveCmd(app))
	return cmd
}

func newCharactersAddCmd(app *App) *cobra.Command {
	var (
		name  string
		color string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a character in the current project",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			projectID, err := currentProjectID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			c := model.Character{
				ID:        s.NextID(db, "char"),
				ProjectID: projectID,
				Name:      strings.TrimSpace(name),
				Color:     strings.TrimSpace(color),
				CreatedAt: time.Now().UTC(),
			}
			db.Characters = append(db.Characters, c)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Character name")
	cmd.Flags().StringVar(&color, "color", "", "Display color (hex, e.g. #e05252)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCharactersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the current project's characters",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			projectID, err := currentProjectID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": db.ProjectCharacters(projectID)})
		},
	}
}

func newCharactersRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <character-id>",
		Short: "Delete a character (also strips it from events and drops its arcs)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !db.DeleteCharacter(args[0]) {
				return writeErr(cmd, errNotFound("character", args[0]))
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"removed": args[0]}})
		},
	}
}
