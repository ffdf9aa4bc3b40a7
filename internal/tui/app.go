package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storyline/internal/config"
	"storyline/internal/log"
	"storyline/internal/store"
	"storyline/internal/timeline"
)

// cellPixelScale converts config-space layout pixels to terminal cells.
// Zoom bookkeeping stays in pixel units so the engine's clamps and the SVG
// exporter agree with what the TUI shows.
const cellPixelScale = 15

const (
	laneHeaderCells = 16
	reloadEvery     = 2 * time.Second
	flashFor        = 3 * time.Second
	commitTimeout   = 5 * time.Second
	panStep         = 4
)

type (
	reloadTickMsg   time.Time
	flashDoneMsg    struct{ id int }
	commitResultMsg struct {
		eventID string
		err     error
	}
)

// dbHolder is the stable EventDates indirection: reloads swap the DB image
// underneath without invalidating the dragger.
type dbHolder struct {
	db *store.DB
}

func (h *dbHolder) EventDate(id string) (time.Time, bool)  { return h.db.EventDate(id) }
func (h *dbHolder) SetEventDate(id string, date time.Time) { h.db.SetEventDate(id, date) }

type appModel struct {
	st        store.Store
	cfg       *config.Config
	data      *dbHolder
	projectID string

	zoom *timeline.Zoom
	drag *timeline.Dragger
	sel  *timeline.Router

	metrics timeline.Metrics
	snap    timeline.Snapshot
	layout  timeline.Layout

	width, height int
	panX          int

	// One press-drag-release interaction on a block.
	armedEventID string
	pressX       int

	detail viewport.Model

	flash   string
	flashID int
}

func newAppModel(st store.Store, cfg *config.Config, db *store.DB, projectID string) appModel {
	holder := &dbHolder{db: db}
	drag := timeline.NewDragger(holder)
	m := appModel{
		st:        st,
		cfg:       cfg,
		data:      holder,
		projectID: projectID,
		zoom:      timeline.NewZoom(cfg.Timeline.PixelsPerDay),
		drag:      drag,
		sel:       timeline.NewRouter(drag),
		metrics:   cellMetrics(),
		detail:    viewport.New(0, 0),
	}
	m.rebuild()
	return m
}

// cellMetrics is the engine geometry in terminal cells: three rows per lane
// (block, name, arc), one axis header row.
func cellMetrics() timeline.Metrics {
	return timeline.Metrics{
		LaneHeight:          3,
		AxisHeaderHeight:    1,
		BottomMargin:        0,
		LaneHeaderWidth:     laneHeaderCells,
		HorizontalPadding:   1,
		InstantaneousWidth:  1,
		ArcMinWidth:         1,
		ArcHeight:           1,
		BlockFraction:       0.1,
		BlockHeightFraction: 0.3,
		ArcFraction:         0.7,
	}
}

func (m appModel) Init() tea.Cmd {
	return reloadTick()
}

func reloadTick() tea.Cmd {
	return tea.Tick(reloadEvery, func(t time.Time) tea.Msg { return reloadTickMsg(t) })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detail.Width = m.detailWidth()
		m.detail.Height = m.chartHeight()
		m.rebuild()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case reloadTickMsg:
		// Skip reloads while an interaction is in flight: a disk image from
		// before the optimistic mutation would visibly snap the block back.
		if !m.drag.Busy() {
			if db, err := m.st.Load(); err == nil {
				m.data.db = db
				m.rebuild()
			}
		}
		return m, reloadTick()

	case commitResultMsg:
		outcome := m.drag.Resolve(msg.eventID, msg.err)
		var cmd tea.Cmd
		if outcome.RolledBack {
			log.Error("event commit failed", outcome.Err, "event", outcome.EventID)
			m.flash = "couldn't save, move reverted"
			m.flashID++
			cmd = flashTick(m.flashID)
		} else {
			log.Debug("event commit", "event", outcome.EventID, "date", outcome.Date.Format("2006-01-02"))
		}
		m.rebuild()
		return m, cmd

	case flashDoneMsg:
		if msg.id == m.flashID {
			m.flash = ""
		}
		return m, nil
	}
	return m, nil
}

func flashTick(id int) tea.Cmd {
	return tea.Tick(flashFor, func(time.Time) tea.Msg { return flashDoneMsg{id: id} })
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.sel.RequestDeselect()
		m.armedEventID = ""
		m.rebuild()
	case "+", "=":
		m.zoom.In()
		m.rebuild()
	case "-":
		m.zoom.Out()
		m.rebuild()
	case "left", "h":
		m.setPan(m.panX - panStep)
	case "right", "l":
		m.setPan(m.panX + panStep)
	case "0":
		m.setPan(0)
	case "r":
		if !m.drag.Busy() {
			if db, err := m.st.Load(); err == nil {
				m.data.db = db
				m.rebuild()
			}
		}
	case "pgup", "pgdown", "up", "down", "k", "j":
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if msg.Ctrl {
				m.zoom.In()
				m.rebuild()
			} else {
				m.setPan(m.panX - panStep)
			}
		case tea.MouseButtonWheelDown:
			if msg.Ctrl {
				m.zoom.Out()
				m.rebuild()
			} else {
				m.setPan(m.panX + panStep)
			}
		case tea.MouseButtonWheelLeft:
			m.setPan(m.panX - panStep)
		case tea.MouseButtonWheelRight:
			m.setPan(m.panX + panStep)
		case tea.MouseButtonLeft:
			return m.press(msg.X, msg.Y), nil
		}

	case tea.MouseActionMotion:
		if m.armedEventID != "" && msg.Button == tea.MouseButtonLeft {
			if m.drag.Move(m.armedEventID, float64(msg.X-m.pressX), m.layout.PixelsPerDay) {
				m.rebuild()
			}
		}

	case tea.MouseActionRelease:
		if m.armedEventID == "" {
			break
		}
		deltaX := float64(msg.X - m.pressX)
		m.armedEventID = ""
		req, ok := m.drag.Release(deltaX, m.layout.PixelsPerDay)
		m.rebuild()
		if ok {
			return m, commitCmd(m.st, req)
		}
	}
	return m, nil
}

// press resolves a left click: block beats arc beats background. A block
// press also arms a potential drag; whether it becomes one is decided by
// the motion events that follow.
func (m appModel) press(x, y int) appModel {
	if x >= m.chartWidth() || y < 1 || y > m.chartHeight() {
		return m
	}
	ex := float64(x+m.panX) + 0.5
	ey := float64(y-1) + 0.5

	if blk, ok := m.layout.BlockAt(ex, ey); ok {
		m.sel.SelectEvent(blk.EventID)
		m.armedEventID = blk.EventID
		m.pressX = x
		m.rebuild()
		return m
	}
	if bar, ok := m.layout.ArcAt(ex, ey); ok {
		m.sel.SelectArc(bar.ArcID)
		m.rebuild()
		return m
	}
	m.sel.DeselectAll()
	m.rebuild()
	return m
}

func commitCmd(st store.Store, req timeline.CommitRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		defer cancel()
		err := st.CommitEventDate(ctx, req.EventID, req.Date)
		return commitResultMsg{eventID: req.EventID, err: err}
	}
}

func (m *appModel) rebuild() {
	db := m.data.db
	m.snap = timeline.Snapshot{
		Events:     db.ProjectEvents(m.projectID),
		Characters: db.ProjectCharacters(m.projectID),
		Arcs:       db.ProjectArcs(m.projectID),
	}
	m.sel.PruneMissing(m.snap)

	rng := timeline.VisibleRange(m.snap.Events, time.Now())
	viewPx := float64(m.chartWidth()-int(m.metrics.OriginX())) * cellPixelScale
	ppd := m.zoom.Effective(viewPx, rng.Days()) / cellPixelScale
	m.layout = timeline.BuildLayout(m.snap, rng, ppd, m.metrics)
	m.setPan(m.panX)

	m.detail.SetContent(detailContent(m.snap, m.sel.Current(), m.detail.Width))
}

func (m *appModel) setPan(panX int) {
	max := int(m.layout.Width) - m.chartWidth()
	if panX > max {
		panX = max
	}
	if panX < 0 {
		panX = 0
	}
	m.panX = panX
}

func (m appModel) detailVisible() bool { return m.width >= 72 }

func (m appModel) detailWidth() int {
	if !m.detailVisible() {
		return 0
	}
	w := m.width / 3
	if w > 38 {
		w = 38
	}
	return w
}

func (m appModel) chartWidth() int {
	w := m.width
	if m.detailVisible() {
		w -= m.detailWidth() + 2 // border column + padding
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (m appModel) chartHeight() int {
	h := m.height - 2 // title bar and help line
	if h < 1 {
		h = 1
	}
	return h
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	title := styleTitle().Render(" storyline")
	if p, ok := m.data.db.FindProject(m.projectID); ok {
		title += styleMuted().Render(" · ") + p.Name
	}
	if m.flash != "" {
		title += "  " + styleFlashError().Render(" "+m.flash+" ")
	}

	chart := normalizePane(
		renderTimeline(m.layout, m.snap, m.sel.Current(), m.panX, m.chartWidth(), m.chartHeight()),
		m.chartWidth(), m.chartHeight(),
	)
	body := chart
	if m.detailVisible() {
		panel := stylePanelBorder().Render(normalizePane(m.detail.View(), m.detail.Width, m.chartHeight()))
		body = lipgloss.JoinHorizontal(lipgloss.Top, chart, panel)
	}

	help := styleMuted().Render(" drag: move event · +/-: zoom · ←/→: pan · esc: deselect · q: quit")
	return title + "\n" + body + "\n" + help
}
