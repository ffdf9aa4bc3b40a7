package tui

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"storyline/internal/config"
	"storyline/internal/model"
	"storyline/internal/store"
	"storyline/internal/timeline"
)

func seedWorkspace(t *testing.T) (store.Store, *store.DB) {
	t.Helper()
	st := store.Store{Dir: t.TempDir()}
	if err := st.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	db := &store.DB{
		Version:          1,
		CurrentProjectID: "proj-1",
		Projects:         []model.Project{{ID: "proj-1", Name: "Wonderland"}},
		Characters: []model.Character{
			{ID: "char-alice", ProjectID: "proj-1", Name: "Alice", Color: "#e05252"},
		},
		Events: []model.StoryEvent{
			{
				ID: "ev-tea", ProjectID: "proj-1", Title: "Tea Party",
				Date: "2026-05-05", DurationDays: 2,
				ParticipantIDs: []string{"char-alice"},
			},
			{
				ID: "ev-storm", ProjectID: "proj-1", Title: "Summer Storm",
				Date: "2026-08-05",
			},
		},
	}
	if err := st.Save(db); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return st, db
}

func sizedModel(t *testing.T, st store.Store, db *store.DB) appModel {
	t.Helper()
	m := newAppModel(st, config.Default(), db, "proj-1")
	upd, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return upd.(appModel)
}

func blockOf(t *testing.T, m appModel, eventID string) timeline.EventBlock {
	t.Helper()
	for _, b := range m.layout.Blocks {
		if b.EventID == eventID {
			return b
		}
	}
	t.Fatalf("no block for %s in layout", eventID)
	return timeline.EventBlock{}
}

// blockCell returns a screen coordinate inside the block (title bar offset
// applied), assuming panX is 0.
func blockCell(b timeline.EventBlock) (int, int) {
	return int(b.Rect.X + b.Rect.W/2), int(b.Rect.Y) + 1
}

func press(m appModel, x, y int) appModel {
	upd, _ := m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	return upd.(appModel)
}

func TestPressSelectsBlock(t *testing.T) {
	t.Parallel()
	st, db := seedWorkspace(t)
	m := sizedModel(t, st, db)

	x, y := blockCell(blockOf(t, m, "ev-tea"))
	m = press(m, x, y)

	if got := m.sel.Current().EventID; got != "ev-tea" {
		t.Fatalf("selected event = %q, want ev-tea", got)
	}
	if m.armedEventID != "ev-tea" {
		t.Fatalf("press did not arm the drag")
	}
}

func TestBackgroundPressDeselects(t *testing.T) {
	t.Parallel()
	st, db := seedWorkspace(t)
	m := sizedModel(t, st, db)

	x, y := blockCell(blockOf(t, m, "ev-tea"))
	m = press(m, x, y)
	m = press(m, m.chartWidth()-1, m.chartHeight())

	if cur := m.sel.Current(); cur.EventID != "" || cur.ArcID != "" {
		t.Fatalf("background press left selection %+v", cur)
	}
}

func TestDragMovesOptimisticallyAndCommits(t *testing.T) {
	t.Parallel()
	st, db := seedWorkspace(t)
	m := sizedModel(t, st, db)

	x, y := blockCell(blockOf(t, m, "ev-tea"))
	m = press(m, x, y)

	ppd := m.layout.PixelsPerDay
	delta := int(math.Round(3 * ppd))
	wantDays := int(math.Round(float64(delta) / ppd))

	upd, _ := m.Update(tea.MouseMsg{X: x + delta, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = upd.(appModel)

	start, _ := model.ParseDay("2026-05-05")
	wantDate := model.FormatDay(start.AddDate(0, 0, wantDays))
	if ev, _ := m.data.db.FindEvent("ev-tea"); ev.Date != wantDate {
		t.Fatalf("optimistic date = %s, want %s", ev.Date, wantDate)
	}
	if !m.sel.Current().IsProvisional {
		t.Fatalf("selection not marked provisional during drag")
	}

	upd, cmd := m.Update(tea.MouseMsg{X: x + delta, Y: y, Action: tea.MouseActionRelease})
	m = upd.(appModel)
	if cmd == nil {
		t.Fatalf("release returned no commit command")
	}
	upd, _ = m.Update(cmd())
	m = upd.(appModel)

	if got := m.drag.StateOf("ev-tea"); got != timeline.DragIdle {
		t.Fatalf("state after resolve = %v, want idle", got)
	}
	persisted, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ev, _ := persisted.FindEvent("ev-tea"); ev.Date != wantDate {
		t.Fatalf("persisted date = %s, want %s", ev.Date, wantDate)
	}
}

func TestCommitFailureRollsBackAndFlashes(t *testing.T) {
	t.Parallel()
	st, db := seedWorkspace(t)
	m := sizedModel(t, st, db)

	x, y := blockCell(blockOf(t, m, "ev-tea"))
	m = press(m, x, y)
	delta := int(math.Round(2 * m.layout.PixelsPerDay))
	upd, _ := m.Update(tea.MouseMsg{X: x + delta, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = upd.(appModel)
	upd, cmd := m.Update(tea.MouseMsg{X: x + delta, Y: y, Action: tea.MouseActionRelease})
	m = upd.(appModel)
	if cmd == nil {
		t.Fatalf("release returned no commit command")
	}

	// The event vanishes from disk before the commit lands.
	onDisk, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	onDisk.DeleteEvent("ev-tea")
	if err := st.Save(onDisk); err != nil {
		t.Fatalf("Save: %v", err)
	}

	res := cmd().(commitResultMsg)
	if res.err == nil {
		t.Fatalf("commit against deleted event succeeded")
	}
	upd, _ = m.Update(res)
	m = upd.(appModel)

	if ev, _ := m.data.db.FindEvent("ev-tea"); ev.Date != "2026-05-05" {
		t.Fatalf("date after rollback = %s, want 2026-05-05", ev.Date)
	}
	if m.flash == "" {
		t.Fatalf("rollback did not surface a flash message")
	}
}

func TestEscapeDeselectsWithoutRevert(t *testing.T) {
	t.Parallel()
	st, db := seedWorkspace(t)
	m := sizedModel(t, st, db)

	x, y := blockCell(blockOf(t, m, "ev-tea"))
	m = press(m, x, y)
	delta := int(math.Round(2 * m.layout.PixelsPerDay))
	upd, _ := m.Update(tea.MouseMsg{X: x + delta, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = upd.(appModel)
	moved, _ := m.data.db.FindEvent("ev-tea")
	movedDate := moved.Date

	upd, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = upd.(appModel)

	if cur := m.sel.Current(); cur.EventID != "" {
		t.Fatalf("escape left selection %+v", cur)
	}
	if ev, _ := m.data.db.FindEvent("ev-tea"); ev.Date != movedDate {
		t.Fatalf("deselect reverted the provisional date: %s != %s", ev.Date, movedDate)
	}
}

func TestZoomKeysChangeScale(t *testing.T) {
	t.Parallel()
	st, db := seedWorkspace(t)
	m := sizedModel(t, st, db)

	before := m.layout.PixelsPerDay
	upd, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m = upd.(appModel)
	if m.layout.PixelsPerDay <= before {
		t.Fatalf("zoom in: %v -> %v", before, m.layout.PixelsPerDay)
	}

	upd, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	m = upd.(appModel)
	if m.layout.PixelsPerDay > before {
		t.Fatalf("zoom out overshot: %v -> %v", before, m.layout.PixelsPerDay)
	}
}

func TestReloadSkippedWhileDragging(t *testing.T) {
	t.Parallel()
	st, db := seedWorkspace(t)
	m := sizedModel(t, st, db)

	x, y := blockCell(blockOf(t, m, "ev-tea"))
	m = press(m, x, y)
	delta := int(math.Round(2 * m.layout.PixelsPerDay))
	upd, _ := m.Update(tea.MouseMsg{X: x + delta, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = upd.(appModel)
	moved, _ := m.data.db.FindEvent("ev-tea")
	movedDate := moved.Date

	upd, _ = m.Update(reloadTickMsg{})
	m = upd.(appModel)

	if ev, _ := m.data.db.FindEvent("ev-tea"); ev.Date != movedDate {
		t.Fatalf("reload clobbered the optimistic date: %s != %s", ev.Date, movedDate)
	}
}

func TestViewIsRectangular(t *testing.T) {
	t.Parallel()
	st, db := seedWorkspace(t)
	m := sizedModel(t, st, db)

	view := m.View()
	if got := strings.Count(view, "\n"); got != m.height-1 {
		t.Fatalf("view has %d newlines for height %d", got, m.height)
	}
	if !strings.Contains(view, "Wonderland") {
		t.Fatalf("title bar missing project name:\n%s", view)
	}
}
