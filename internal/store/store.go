package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"storyline/internal/model"
)

// DB is the in-memory image of one workspace. The SQLite file under
// Store.Dir is the source of truth; Load/Save move the whole image.
type DB struct {
	Version          int                  `json:"version"`
	CurrentProjectID string               `json:"currentProjectId,omitempty"`
	Projects         []model.Project      `json:"projects"`
	Characters       []model.Character    `json:"characters"`
	Events           []model.StoryEvent   `json:"events"`
	Arcs             []model.CharacterArc `json:"arcs"`
}

type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for a .storyline directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".storyline")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, ".storyline"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) Load() (*DB, error) {
	return s.LoadSQLite(context.Background())
}

func (s Store) Save(db *DB) error {
	return s.SaveSQLite(context.Background(), db)
}

func (db *DB) FindProject(id string) (*model.Project, bool) {
	for i := range db.Projects {
		if db.Projects[i].ID == id {
			return &db.Projects[i], true
		}
	}
	return nil, false
}

func (db *DB) FindCharacter(id string) (*model.Character, bool) {
	for i := range db.Characters {
		if db.Characters[i].ID == id {
			return &db.Characters[i], true
		}
	}
	return nil, false
}

func (db *DB) FindEvent(id string) (*model.StoryEvent, bool) {
	for i := range db.Events {
		if db.Events[i].ID == id {
			return &db.Events[i], true
		}
	}
	return nil, false
}

func (db *DB) FindArc(id string) (*model.CharacterArc, bool) {
	for i := range db.Arcs {
		if db.Arcs[i].ID == id {
			return &db.Arcs[i], true
		}
	}
	return nil, false
}

// ProjectCharacters returns the characters scoped to one project. All fetch
// predicates are project-scoped; the timeline never mixes projects.
func (db *DB) ProjectCharacters(projectID string) []model.Character {
	var out []model.Character
	for _, c := range db.Characters {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out
}

func (db *DB) ProjectEvents(projectID string) []model.StoryEvent {
	var out []model.StoryEvent
	for _, e := range db.Events {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out
}

func (db *DB) ProjectArcs(projectID string) []model.CharacterArc {
	var out []model.CharacterArc
	for _, a := range db.Arcs {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out
}

// EventDate and SetEventDate give the timeline engine its mutable view of
// event dates (the optimistic drag mutation writes through here).
func (db *DB) EventDate(eventID string) (time.Time, bool) {
	ev, ok := db.FindEvent(eventID)
	if !ok {
		return time.Time{}, false
	}
	return model.ParseDay(ev.Date)
}

func (db *DB) SetEventDate(eventID string, date time.Time) {
	if ev, ok := db.FindEvent(eventID); ok {
		ev.Date = model.FormatDay(date)
	}
}

// DeleteEvent removes the event and clears any arc references to it, so a
// deleted event never leaves a dangling start/peak/end pointer.
func (db *DB) DeleteEvent(eventID string) bool {
	idx := -1
	for i := range db.Events {
		if db.Events[i].ID == eventID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	db.Events = append(db.Events[:idx], db.Events[idx+1:]...)

	clear := func(ref **string) {
		if *ref != nil && **ref == eventID {
			*ref = nil
		}
	}
	for i := range db.Arcs {
		clear(&db.Arcs[i].StartEventID)
		clear(&db.Arcs[i].PeakEventID)
		clear(&db.Arcs[i].EndEventID)
	}
	return true
}

// DeleteCharacter removes the character, strips it from event participant
// lists, and removes its arcs (an arc requires exactly one owner).
func (db *DB) DeleteCharacter(charID string) bool {
	idx := -1
	for i := range db.Characters {
		if db.Characters[i].ID == charID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	db.Characters = append(db.Characters[:idx], db.Characters[idx+1:]...)

	for i := range db.Events {
		parts := db.Events[i].ParticipantIDs[:0]
		for _, p := range db.Events[i].ParticipantIDs {
			if p != charID {
				parts = append(parts, p)
			}
		}
		db.Events[i].ParticipantIDs = parts
	}

	arcs := db.Arcs[:0]
	for _, a := range db.Arcs {
		if a.CharacterID != charID {
			arcs = append(arcs, a)
		}
	}
	db.Arcs = arcs
	return true
}
