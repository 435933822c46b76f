package countdown

import (
	"time"

	"agenda_tui/internal/project"
)

// State represents the current engine mode.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// Direction selects where manual navigation moves.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// EventType defines the type of engine event.
type EventType string

const (
	// EventProjectChanged fires when a run lands on a project: on start, on
	// auto-advance and on manual navigation.
	EventProjectChanged EventType = "project_changed"
	// EventAlarm fires when a project's remaining time expires naturally.
	// Manual navigation never raises it.
	EventAlarm EventType = "alarm"
	// EventRunComplete fires when the run leaves the active states, either by
	// finishing the last project or by an explicit exit.
	EventRunComplete EventType = "run_complete"
	// EventProgress fires on each tick that does not expire the project.
	EventProgress EventType = "progress"
)

// Event represents an engine update for observers.
type Event struct {
	Type      EventType
	Project   project.Project
	Index     int
	Remaining time.Duration
	At        time.Time
}
