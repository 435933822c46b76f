package countdown

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"agenda_tui/internal/project"
)

var (
	// ErrNoProjects indicates Start was called with an empty sequence.
	ErrNoProjects = errors.New("no projects to run")
	// ErrBadIndex indicates Start was called with an out-of-range index.
	ErrBadIndex = errors.New("start index out of range")
	// ErrNotRunning indicates an operation that needs an active run.
	ErrNotRunning = errors.New("no run active")
)

// Config contains runtime options for the Engine.
type Config struct {
	TickInterval time.Duration
}

// Engine drives one sequential countdown across a list of projects. It owns
// the tick schedule: a ticker goroutine is armed whenever the engine enters
// StateRunning and disarmed the moment it leaves it, so no tick can fire
// while paused or idle.
type Engine struct {
	mu        sync.Mutex
	options   Config
	logger    *slog.Logger
	state     State
	sequence  []project.Project
	index     int
	remaining time.Duration
	events    []chan Event
	stopCh    chan struct{}
}

// New creates an idle Engine. The logger may be nil.
func New(options Config, logger *slog.Logger) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		options: options,
		logger:  logger,
		state:   StateIdle,
	}
}

// Subscribe registers a new observer channel. Sends never block: a consumer
// that falls behind misses events rather than stalling the engine.
func (e *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	e.mu.Lock()
	e.events = append(e.events, ch)
	e.mu.Unlock()
	return ch
}

// Start begins a run over the given sequence at startIndex. The engine works
// on its own copy of the sequence, so registry edits during the run cannot
// shift it.
func (e *Engine) Start(sequence []project.Project, startIndex int) error {
	e.mu.Lock()
	if len(sequence) == 0 {
		e.mu.Unlock()
		return ErrNoProjects
	}
	if startIndex < 0 || startIndex >= len(sequence) {
		e.mu.Unlock()
		return ErrBadIndex
	}
	if e.state != StateIdle {
		e.exitLocked()
	}

	e.sequence = append([]project.Project(nil), sequence...)
	e.index = startIndex
	e.remaining = e.sequence[startIndex].Duration
	e.state = StateRunning
	e.armLocked()
	e.logger.Info("run started", "projects", len(e.sequence), "index", startIndex)
	e.emitLocked(Event{
		Type:      EventProjectChanged,
		Project:   e.sequence[e.index],
		Index:     e.index,
		Remaining: e.remaining,
		At:        time.Now(),
	})
	e.mu.Unlock()
	return nil
}

// Tick advances the countdown by one second. It is called by the engine's own
// ticker while running; it is a no-op in any other state.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateRunning {
		return
	}

	now := time.Now()
	e.remaining -= time.Second
	if e.remaining > 0 {
		e.emitLocked(Event{
			Type:      EventProgress,
			Project:   e.sequence[e.index],
			Index:     e.index,
			Remaining: e.remaining,
			At:        now,
		})
		return
	}

	expired := e.sequence[e.index]
	e.emitLocked(Event{
		Type:    EventAlarm,
		Project: expired,
		Index:   e.index,
		At:      now,
	})

	if e.index < len(e.sequence)-1 {
		e.index++
		e.remaining = e.sequence[e.index].Duration
		e.emitLocked(Event{
			Type:      EventProjectChanged,
			Project:   e.sequence[e.index],
			Index:     e.index,
			Remaining: e.remaining,
			At:        now,
		})
		return
	}

	e.logger.Info("run finished", "project", expired.Name)
	e.state = StateIdle
	e.disarmLocked()
	e.sequence = nil
	e.index = 0
	e.remaining = 0
	e.emitLocked(Event{Type: EventRunComplete, Project: expired, At: now})
}

// TogglePause flips between Running and Paused. The tick schedule is disarmed
// for the whole paused span.
func (e *Engine) TogglePause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case StateRunning:
		e.state = StatePaused
		e.disarmLocked()
	case StatePaused:
		e.state = StateRunning
		e.armLocked()
	default:
		return ErrNotRunning
	}
	return nil
}

// Navigate moves the run to the previous or next project, resetting the
// countdown to that project's full duration. Moving past either end of the
// sequence leaves the run where it is. Navigation never raises the alarm.
func (e *Engine) Navigate(direction Direction) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateRunning && e.state != StatePaused {
		return ErrNotRunning
	}

	next := e.index + 1
	if direction == Backward {
		next = e.index - 1
	}
	if next < 0 || next >= len(e.sequence) {
		return nil
	}

	e.index = next
	e.remaining = e.sequence[next].Duration
	e.emitLocked(Event{
		Type:      EventProjectChanged,
		Project:   e.sequence[next],
		Index:     next,
		Remaining: e.remaining,
		At:        time.Now(),
	})
	return nil
}

// Exit abandons an active run, discarding any remaining time. The alarm does
// not sound; RunComplete is still emitted so the presentation layer resets.
func (e *Engine) Exit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateIdle {
		return
	}
	e.exitLocked()
}

func (e *Engine) exitLocked() {
	current := e.sequence[e.index]
	e.logger.Info("run exited", "project", current.Name, "remaining", e.remaining)
	e.state = StateIdle
	e.disarmLocked()
	e.sequence = nil
	e.index = 0
	e.remaining = 0
	e.emitLocked(Event{Type: EventRunComplete, Project: current, At: time.Now()})
}

// Snapshot is a point-in-time copy of the run for rendering.
type Snapshot struct {
	State     State
	Sequence  []project.Project
	Index     int
	Remaining time.Duration
}

// Snapshot returns the current run state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		State:     e.state,
		Sequence:  append([]project.Project(nil), e.sequence...),
		Index:     e.index,
		Remaining: e.remaining,
	}
}

// Stop disarms the tick schedule and closes all observer channels. The engine
// is unusable afterwards.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.disarmLocked()
	e.state = StateIdle
	events := e.events
	e.events = nil
	e.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (e *Engine) armLocked() {
	if e.stopCh != nil {
		return
	}
	stopCh := make(chan struct{})
	e.stopCh = stopCh

	go func() {
		ticker := time.NewTicker(e.options.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				e.Tick()
			}
		}
	}()
}

func (e *Engine) disarmLocked() {
	if e.stopCh == nil {
		return
	}
	close(e.stopCh)
	e.stopCh = nil
}

func (e *Engine) emitLocked(event Event) {
	for _, ch := range e.events {
		select {
		case ch <- event:
		default:
		}
	}
}
