package countdown_test

import (
	"testing"
	"time"

	"agenda_tui/internal/countdown"
	"agenda_tui/internal/project"

	"github.com/stretchr/testify/require"
)

// newTestEngine builds an engine whose internal ticker is effectively inert,
// so tests drive Tick deterministically.
func newTestEngine(t *testing.T) (*countdown.Engine, <-chan countdown.Event) {
	t.Helper()
	engine := countdown.New(countdown.Config{TickInterval: time.Hour}, nil)
	t.Cleanup(engine.Stop)
	return engine, engine.Subscribe(1024)
}

func drain(ch <-chan countdown.Event) []countdown.Event {
	var out []countdown.Event
	for {
		select {
		case event := <-ch:
			out = append(out, event)
		default:
			return out
		}
	}
}

func countType(events []countdown.Event, eventType countdown.EventType) int {
	n := 0
	for _, event := range events {
		if event.Type == eventType {
			n++
		}
	}
	return n
}

func tickN(engine *countdown.Engine, n int) {
	for i := 0; i < n; i++ {
		engine.Tick()
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func makeSequence(durations ...time.Duration) []project.Project {
	sequence := make([]project.Project, len(durations))
	names := []string{"Draft", "Review", "Polish", "Ship", "Retro"}
	for i, d := range durations {
		sequence[i] = project.Project{
			ID:       names[i%len(names)],
			Name:     names[i%len(names)],
			Duration: d,
		}
	}
	return sequence
}

func TestEngine_StartEmptySequence(t *testing.T) {
	engine, events := newTestEngine(t)

	err := engine.Start(nil, 0)
	require.ErrorIs(t, err, countdown.ErrNoProjects)
	require.Equal(t, countdown.StateIdle, engine.Snapshot().State)
	require.Empty(t, drain(events))
}

func TestEngine_StartIndexOutOfRange(t *testing.T) {
	engine, _ := newTestEngine(t)
	sequence := makeSequence(seconds(10))

	require.ErrorIs(t, engine.Start(sequence, 1), countdown.ErrBadIndex)
	require.ErrorIs(t, engine.Start(sequence, -1), countdown.ErrBadIndex)
	require.Equal(t, countdown.StateIdle, engine.Snapshot().State)
}

func TestEngine_StartEmitsProjectChanged(t *testing.T) {
	engine, events := newTestEngine(t)

	require.NoError(t, engine.Start(makeSequence(seconds(10), seconds(20)), 1))

	got := drain(events)
	require.Len(t, got, 1)
	require.Equal(t, countdown.EventProjectChanged, got[0].Type)
	require.Equal(t, "Review", got[0].Project.Name)
	require.Equal(t, seconds(20), got[0].Remaining)
}

func TestEngine_FullTraversal(t *testing.T) {
	cases := []struct {
		name       string
		durations  []int
		startIndex int
	}{
		{"three from zero", []int{3, 2, 4}, 0},
		{"three from middle", []int{3, 2, 4}, 1},
		{"three from last", []int{3, 2, 4}, 2},
		{"single", []int{5}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine, events := newTestEngine(t)

			durations := make([]time.Duration, len(tc.durations))
			total := 0
			for i, d := range tc.durations {
				durations[i] = seconds(d)
				if i >= tc.startIndex {
					total += d
				}
			}

			require.NoError(t, engine.Start(makeSequence(durations...), tc.startIndex))
			tickN(engine, total)

			require.Equal(t, countdown.StateIdle, engine.Snapshot().State)
			got := drain(events)
			traversed := len(tc.durations) - tc.startIndex
			require.Equal(t, traversed, countType(got, countdown.EventAlarm))
			require.Equal(t, 1, countType(got, countdown.EventRunComplete))
		})
	}
}

func TestEngine_DraftReviewScenario(t *testing.T) {
	engine, events := newTestEngine(t)

	sequence := makeSequence(seconds(60), seconds(30))
	require.NoError(t, engine.Start(sequence, 0))
	drain(events)

	tickN(engine, 60)
	got := drain(events)
	require.Equal(t, 1, countType(got, countdown.EventAlarm))
	require.Equal(t, 1, countType(got, countdown.EventProjectChanged))
	require.Equal(t, 0, countType(got, countdown.EventRunComplete))

	snapshot := engine.Snapshot()
	require.Equal(t, countdown.StateRunning, snapshot.State)
	require.Equal(t, 1, snapshot.Index)
	require.Equal(t, "Review", snapshot.Sequence[snapshot.Index].Name)
	require.Equal(t, seconds(30), snapshot.Remaining)

	tickN(engine, 30)
	got = drain(events)
	require.Equal(t, 1, countType(got, countdown.EventAlarm))
	require.Equal(t, 1, countType(got, countdown.EventRunComplete))
	require.Equal(t, countdown.StateIdle, engine.Snapshot().State)
}

func TestEngine_SingleProjectOneShot(t *testing.T) {
	engine, events := newTestEngine(t)

	require.NoError(t, engine.Start(makeSequence(seconds(5)), 0))
	drain(events)

	tickN(engine, 5)
	got := drain(events)
	require.Equal(t, 0, countType(got, countdown.EventProjectChanged))

	// The alarm precedes run completion.
	var order []countdown.EventType
	for _, event := range got {
		if event.Type == countdown.EventAlarm || event.Type == countdown.EventRunComplete {
			order = append(order, event.Type)
		}
	}
	require.Equal(t, []countdown.EventType{countdown.EventAlarm, countdown.EventRunComplete}, order)
	require.Equal(t, countdown.StateIdle, engine.Snapshot().State)
}

func TestEngine_PauseFreezesRemaining(t *testing.T) {
	engine, _ := newTestEngine(t)

	require.NoError(t, engine.Start(makeSequence(seconds(30)), 0))
	tickN(engine, 5)
	require.Equal(t, seconds(25), engine.Snapshot().Remaining)

	require.NoError(t, engine.TogglePause())
	require.Equal(t, countdown.StatePaused, engine.Snapshot().State)

	tickN(engine, 100)
	require.Equal(t, seconds(25), engine.Snapshot().Remaining)

	require.NoError(t, engine.TogglePause())
	tickN(engine, 5)
	require.Equal(t, seconds(20), engine.Snapshot().Remaining)
}

func TestEngine_TogglePauseIdle(t *testing.T) {
	engine, _ := newTestEngine(t)
	require.ErrorIs(t, engine.TogglePause(), countdown.ErrNotRunning)
}

func TestEngine_NavigateBounds(t *testing.T) {
	engine, events := newTestEngine(t)

	require.NoError(t, engine.Start(makeSequence(seconds(10), seconds(20)), 0))
	drain(events)

	require.NoError(t, engine.Navigate(countdown.Backward))
	require.Equal(t, 0, engine.Snapshot().Index)
	require.Empty(t, drain(events))

	require.NoError(t, engine.Navigate(countdown.Forward))
	require.Equal(t, 1, engine.Snapshot().Index)

	require.NoError(t, engine.Navigate(countdown.Forward))
	require.Equal(t, 1, engine.Snapshot().Index)
}

func TestEngine_NavigateResetsRemainingAndNeverAlarms(t *testing.T) {
	engine, events := newTestEngine(t)

	require.NoError(t, engine.Start(makeSequence(seconds(10), seconds(20)), 0))
	tickN(engine, 9)
	drain(events)

	// One second left on the first project; navigation must not ring the alarm.
	require.NoError(t, engine.Navigate(countdown.Forward))
	got := drain(events)
	require.Equal(t, 0, countType(got, countdown.EventAlarm))
	require.Equal(t, 1, countType(got, countdown.EventProjectChanged))
	require.Equal(t, seconds(20), engine.Snapshot().Remaining)

	require.NoError(t, engine.Navigate(countdown.Backward))
	got = drain(events)
	require.Equal(t, 0, countType(got, countdown.EventAlarm))
	require.Equal(t, seconds(10), engine.Snapshot().Remaining)
}

func TestEngine_NavigateIdle(t *testing.T) {
	engine, _ := newTestEngine(t)
	require.ErrorIs(t, engine.Navigate(countdown.Forward), countdown.ErrNotRunning)
}

func TestEngine_NavigateWhilePaused(t *testing.T) {
	engine, events := newTestEngine(t)

	require.NoError(t, engine.Start(makeSequence(seconds(10), seconds(20)), 0))
	require.NoError(t, engine.TogglePause())
	drain(events)

	require.NoError(t, engine.Navigate(countdown.Forward))
	snapshot := engine.Snapshot()
	require.Equal(t, countdown.StatePaused, snapshot.State)
	require.Equal(t, 1, snapshot.Index)
	require.Equal(t, 1, countType(drain(events), countdown.EventProjectChanged))
}

func TestEngine_ExitDiscardsRunWithoutAlarm(t *testing.T) {
	engine, events := newTestEngine(t)

	require.NoError(t, engine.Start(makeSequence(seconds(10), seconds(20)), 0))
	tickN(engine, 3)
	drain(events)

	engine.Exit()
	got := drain(events)
	require.Equal(t, 0, countType(got, countdown.EventAlarm))
	require.Equal(t, 1, countType(got, countdown.EventRunComplete))
	require.Equal(t, countdown.StateIdle, engine.Snapshot().State)

	// Ticks after exit do nothing.
	tickN(engine, 10)
	require.Empty(t, drain(events))
}

func TestEngine_ExitWhilePaused(t *testing.T) {
	engine, events := newTestEngine(t)

	require.NoError(t, engine.Start(makeSequence(seconds(10)), 0))
	require.NoError(t, engine.TogglePause())
	drain(events)

	engine.Exit()
	require.Equal(t, 1, countType(drain(events), countdown.EventRunComplete))
	require.Equal(t, countdown.StateIdle, engine.Snapshot().State)
}

func TestEngine_TickIdleIsNoop(t *testing.T) {
	engine, events := newTestEngine(t)
	tickN(engine, 10)
	require.Empty(t, drain(events))
	require.Equal(t, countdown.StateIdle, engine.Snapshot().State)
}

func TestEngine_SnapshotIsACopy(t *testing.T) {
	engine, _ := newTestEngine(t)

	sequence := makeSequence(seconds(10), seconds(20))
	require.NoError(t, engine.Start(sequence, 0))

	// Mutating the caller's slice after Start must not affect the run.
	sequence[0].Duration = seconds(1)
	tickN(engine, 1)
	require.Equal(t, seconds(9), engine.Snapshot().Remaining)
	require.Equal(t, countdown.StateRunning, engine.Snapshot().State)
}

func TestEngine_ProgressEventsCarryRemaining(t *testing.T) {
	engine, events := newTestEngine(t)

	require.NoError(t, engine.Start(makeSequence(seconds(3)), 0))
	drain(events)

	engine.Tick()
	got := drain(events)
	require.Len(t, got, 1)
	require.Equal(t, countdown.EventProgress, got[0].Type)
	require.Equal(t, seconds(2), got[0].Remaining)
}

func TestEngine_StartWhileRunningRestarts(t *testing.T) {
	engine, events := newTestEngine(t)

	require.NoError(t, engine.Start(makeSequence(seconds(10)), 0))
	drain(events)

	require.NoError(t, engine.Start(makeSequence(seconds(30), seconds(5)), 1))
	got := drain(events)
	require.Equal(t, 1, countType(got, countdown.EventRunComplete))
	require.Equal(t, 1, countType(got, countdown.EventProjectChanged))

	snapshot := engine.Snapshot()
	require.Equal(t, countdown.StateRunning, snapshot.State)
	require.Equal(t, 1, snapshot.Index)
	require.Equal(t, seconds(5), snapshot.Remaining)
}
