// Package tui is the interactive timeline: a scrollable chart of event
// blocks and arc bars per character lane, with mouse drag to reschedule.
package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"storyline/internal/config"
	"storyline/internal/log"
	"storyline/internal/store"
)

// Run opens the timeline for the workspace at dir. The project shown is the
// workspace's current project, or the only project when just one exists.
func Run(dir string) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	applyTheme(cfg.Theme)

	// The alt-screen owns the terminal, so debug logging goes to a file.
	if os.Getenv("STORYLINE_DEBUG") != "" {
		f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err == nil {
			defer f.Close()
			log.SetOutput(f)
			log.SetLevel(log.LevelDebug)
		}
	}

	st := store.Store{Dir: dir}
	db, err := st.Load()
	if err != nil {
		return err
	}
	projectID, err := resolveProject(db)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		newAppModel(st, cfg, db, projectID),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err = p.Run()
	return err
}

func resolveProject(db *store.DB) (string, error) {
	if db.CurrentProjectID != "" {
		if _, ok := db.FindProject(db.CurrentProjectID); ok {
			return db.CurrentProjectID, nil
		}
	}
	var active []string
	for _, p := range db.Projects {
		if !p.Archived {
			active = append(active, p.ID)
		}
	}
	switch len(active) {
	case 0:
		return "", errors.New("no projects; create one with `storyline projects add`")
	case 1:
		return active[0], nil
	}
	return "", fmt.Errorf("%d projects; pick one with `storyline projects use`", len(active))
}
