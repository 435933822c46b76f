package internal

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"agenda_tui/internal/config"
	"agenda_tui/internal/countdown"
	"agenda_tui/internal/project"
	"agenda_tui/internal/runlog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type viewMode int

const (
	modeList viewMode = iota
	modeAddForm
	modeEditForm
	modeRun
	modeLogs
)

// engineEventMsg carries one countdown engine event into the update loop.
type engineEventMsg struct {
	event countdown.Event
}

// engineClosedMsg is sent when the engine closes its event channel.
type engineClosedMsg struct{}

type Model struct {
	registry *project.Registry
	repo     *project.Repository
	engine   *countdown.Engine
	events   <-chan countdown.Event
	settings config.Settings
	keys     KeyMap
	logger   *slog.Logger

	width  int
	height int

	mode          viewMode
	selectedIndex int
	statusErr     error

	// Add/edit form state
	nameInput    textinput.Model
	minutesInput textinput.Model
	focusIndex   int
	editingID    string

	// Run view state
	run          countdown.Snapshot
	accent       string
	segmentStart time.Time

	// Run history view state
	historyLogs   []runlog.RunLog
	historyScroll int
}

// NewModel wires the registry, engine and persistence together. The repo may
// be nil, in which case nothing outlives the session.
func NewModel(registry *project.Registry, engine *countdown.Engine, repo *project.Repository, settings config.Settings, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	nameInput := textinput.New()
	nameInput.Placeholder = "Project name"
	nameInput.CharLimit = 64

	minutesInput := textinput.New()
	minutesInput.Placeholder = fmt.Sprintf("%d", int(settings.DefaultDuration/time.Minute))
	minutesInput.CharLimit = 4
	minutesInput.Validate = func(s string) error {
		for _, r := range s {
			if r < '0' || r > '9' {
				return fmt.Errorf("minutes must be a number")
			}
		}
		return nil
	}

	return &Model{
		registry:     registry,
		engine:       engine,
		events:       engine.Subscribe(16),
		repo:         repo,
		settings:     settings,
		keys:         DefaultKeyMap(),
		logger:       logger,
		nameInput:    nameInput,
		minutesInput: minutesInput,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent blocks on the engine's event channel and feeds the next event
// back into Update.
func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return engineClosedMsg{}
		}
		return engineEventMsg{event: event}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case engineEventMsg:
		return m.handleEngineEvent(msg.event)
	case engineClosedMsg:
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Model) View() string {
	switch m.mode {
	case modeAddForm:
		return m.formView("Add New Project")
	case modeEditForm:
		return m.formView("Edit Project")
	case modeRun:
		return m.runView()
	case modeLogs:
		return m.historyView()
	default:
		if m.registry.Len() == 0 {
			return m.emptyStateView()
		}
		return m.listView()
	}
}

func (m *Model) handleEngineEvent(event countdown.Event) (tea.Model, tea.Cmd) {
	m.run = m.engine.Snapshot()

	var cmds []tea.Cmd
	switch event.Type {
	case countdown.EventProjectChanged:
		m.accent = nextAccent()
		m.segmentStart = event.At
	case countdown.EventAlarm:
		m.recordSegment(event.Project, event.At, true)
		if m.settings.SoundEnabled {
			cmds = append(cmds, tea.Printf("\a"))
		}
	case countdown.EventRunComplete:
		m.accent = ""
		if m.mode == modeRun {
			m.mode = modeList
			cmds = append(cmds, tea.ExitAltScreen)
		}
	}

	cmds = append(cmds, m.waitForEvent())
	return m, tea.Batch(cmds...)
}

// recordSegment writes one run history row for a traversed project.
func (m *Model) recordSegment(p project.Project, endedAt time.Time, completed bool) {
	if m.repo == nil {
		return
	}
	startedAt := m.segmentStart
	if startedAt.IsZero() {
		startedAt = endedAt
	}
	log := &runlog.RunLog{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		StartedAt:   startedAt,
		EndedAt:     endedAt,
		Planned:     p.Duration,
		Completed:   completed,
	}
	if err := m.repo.CreateRunLog(log); err != nil {
		m.logger.Warn("recording run log", "project", p.Name, "error", err)
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAddForm, modeEditForm:
		return m.handleFormKey(msg)
	case modeRun:
		return m.handleRunKey(msg)
	case modeLogs:
		return m.handleHistoryKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selectedIndex < m.registry.Len()-1 {
			m.selectedIndex++
		}
	case key.Matches(msg, m.keys.Start):
		sequence := m.registry.List()
		if err := m.engine.Start(sequence, m.selectedIndex); err != nil {
			m.statusErr = err
			return m, nil
		}
		m.statusErr = nil
		m.mode = modeRun
		m.run = m.engine.Snapshot()
		return m, tea.EnterAltScreen
	case key.Matches(msg, m.keys.New):
		m.mode = modeAddForm
		m.statusErr = nil
		m.nameInput.Reset()
		m.minutesInput.Reset()
		m.focusIndex = 0
		m.minutesInput.Blur()
		return m, m.nameInput.Focus()
	case key.Matches(msg, m.keys.Edit):
		projects := m.registry.List()
		if m.selectedIndex >= len(projects) {
			break
		}
		p := projects[m.selectedIndex]
		m.mode = modeEditForm
		m.statusErr = nil
		m.editingID = p.ID
		m.nameInput.SetValue(p.Name)
		m.minutesInput.SetValue(strconv.Itoa(int(p.Duration / time.Minute)))
		m.focusIndex = 0
		m.minutesInput.Blur()
		return m, m.nameInput.Focus()
	case key.Matches(msg, m.keys.Delete):
		projects := m.registry.List()
		if m.selectedIndex >= len(projects) {
			break
		}
		if err := m.registry.Delete(projects[m.selectedIndex].ID); err != nil {
			m.statusErr = err
		}
		if m.selectedIndex >= m.registry.Len() && m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(msg, m.keys.Logs):
		if m.repo == nil {
			break
		}
		logs, err := m.repo.RunLogs()
		if err != nil {
			m.statusErr = err
			break
		}
		m.historyLogs = logs
		m.historyScroll = 0
		m.mode = modeLogs
	}
	return m, nil
}

func (m *Model) handleRunKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.abandonRun()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		if err := m.engine.TogglePause(); err == nil {
			m.run = m.engine.Snapshot()
		}
	case key.Matches(msg, m.keys.Next):
		m.engine.Navigate(countdown.Forward)
	case key.Matches(msg, m.keys.Prev):
		m.engine.Navigate(countdown.Backward)
	case key.Matches(msg, m.keys.ExitRun):
		m.abandonRun()
	}
	return m, nil
}

// abandonRun records the interrupted project and exits the engine. The view
// switch back to the list happens when the RunComplete event arrives.
func (m *Model) abandonRun() {
	snapshot := m.engine.Snapshot()
	if snapshot.State == countdown.StateIdle {
		return
	}
	m.recordSegment(snapshot.Sequence[snapshot.Index], time.Now(), false)
	m.engine.Exit()
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Logs):
		m.mode = modeList
		m.historyLogs = nil
	case key.Matches(msg, m.keys.Up):
		if m.historyScroll > 0 {
			m.historyScroll--
		}
	case key.Matches(msg, m.keys.Down):
		if m.historyScroll < len(m.historyLogs)-1 {
			m.historyScroll++
		}
	}
	return m, nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		m.editingID = ""
		m.statusErr = nil
		return m, nil
	case key.Matches(msg, m.keys.Switch):
		return m, m.toggleFormFocus()
	case key.Matches(msg, m.keys.Accept):
		if m.focusIndex == 0 {
			return m, m.toggleFormFocus()
		}
		return m, m.submitForm()
	}

	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.minutesInput, cmd = m.minutesInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleFormFocus() tea.Cmd {
	m.focusIndex = 1 - m.focusIndex
	if m.focusIndex == 0 {
		m.minutesInput.Blur()
		return m.nameInput.Focus()
	}
	m.nameInput.Blur()
	return m.minutesInput.Focus()
}

func (m *Model) submitForm() tea.Cmd {
	minutes := int(m.settings.DefaultDuration / time.Minute)
	if raw := m.minutesInput.Value(); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			minutes = v
		}
	}

	var err error
	if m.mode == modeAddForm {
		if _, err = m.registry.Add(m.nameInput.Value(), minutes); err == nil {
			m.selectedIndex = m.registry.Len() - 1
		}
	} else {
		_, err = m.registry.Edit(m.editingID, m.nameInput.Value(), minutes)
	}
	if err != nil {
		m.statusErr = err
		return nil
	}

	m.mode = modeList
	m.editingID = ""
	m.statusErr = nil
	return nil
}

// Close flushes anything the session still owns.
func (m *Model) Close() error {
	m.abandonRun()
	if m.repo != nil {
		return m.repo.Close()
	}
	return nil
}

// accentPalette holds the colors a run cycles through; one is picked at
// random on every project change. The value itself carries no meaning.
var accentPalette = []string{"62", "86", "170", "205", "82", "214", "39", "129"}

func nextAccent() string {
	return accentPalette[rand.Intn(len(accentPalette))]
}
