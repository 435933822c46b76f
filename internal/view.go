package internal

import (
	"fmt"
	"strings"
	"time"

	"agenda_tui/internal/countdown"
	"agenda_tui/internal/runlog"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	projectItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	projectItemSelectedStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("170")).
					Background(lipgloss.Color("235")).
					Padding(0, 1)

	timerDisplayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("69")).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	logHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	logTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func (m *Model) emptyStateView() string {
	return lipgloss.Place(
		80, 24,
		lipgloss.Center, lipgloss.Center,
		titleStyle.Render("Agenda")+"\n\n"+
			inactiveStyle.Render("No projects yet. Press 'n' to add one."),
	)
}

func (m *Model) listView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Width(80).Render("Agenda"))
	sb.WriteString("\n\n")

	projects := m.registry.List()
	var total time.Duration
	for i, p := range projects {
		total += p.Duration
		line := fmt.Sprintf("%-24s %s", p.Name, formatDuration(p.Duration))
		if i == m.selectedIndex {
			sb.WriteString(projectItemSelectedStyle.Render(line))
		} else {
			sb.WriteString(projectItemStyle.Render(inactiveStyle.Render(line)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total: %s\n", timerDisplayStyle.Render(formatDuration(total))))
	if m.statusErr != nil {
		sb.WriteString(errStyle.Render(m.statusErr.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Navigate: ↑/↓ | Start run: enter | New: n | Edit: e | Delete: d | History: l | Quit: q"))

	return sb.String()
}

func (m *Model) formView(title string) string {
	nameMarker := "  "
	timeMarker := "  "
	if m.focusIndex == 0 {
		nameMarker = "→ "
	} else {
		timeMarker = "→ "
	}

	var errLine string
	if m.statusErr != nil {
		errLine = errStyle.Render(m.statusErr.Error()) + "\n\n"
	}

	form := fmt.Sprintf("%sName: %s\n\n%sDuration (min): %s\n\n%s%s",
		nameMarker, m.nameInput.View(),
		timeMarker, m.minutesInput.View(),
		errLine,
		helpStyle.Render("Tab: Switch | Enter: Save | Esc: Cancel"),
	)

	return lipgloss.Place(
		80, 24,
		lipgloss.Center, lipgloss.Center,
		titleStyle.Render(title)+"\n\n"+boxStyle.Width(50).Padding(1, 2).Render(form),
	)
}

func (m *Model) runView() string {
	run := m.run
	if run.State == countdown.StateIdle || len(run.Sequence) == 0 {
		return ""
	}

	accent := lipgloss.Color(m.accent)
	current := run.Sequence[run.Index]

	nameStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)
	clockStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)
	frame := boxStyle.BorderForeground(accent).Width(46).Padding(1, 2).Align(lipgloss.Center)

	var sb strings.Builder
	sb.WriteString(nameStyle.Render(current.Name))
	sb.WriteString("\n\n")
	sb.WriteString(clockStyle.Render(formatDuration(run.Remaining)))
	sb.WriteString("\n\n")
	sb.WriteString(inactiveStyle.Render(fmt.Sprintf("Project %d of %d", run.Index+1, len(run.Sequence))))
	if run.State == countdown.StatePaused {
		sb.WriteString("\n\n")
		sb.WriteString(pausedStyle.Render("PAUSED"))
	}

	width := m.width
	height := m.height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		frame.Render(sb.String())+"\n\n"+
			helpStyle.Render("Pause: space | Prev/Next: ←/→ | Exit: esc"),
	)
}

func (m *Model) historyView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Width(80).Render("Run History"))
	sb.WriteString("\n\n")

	if len(m.historyLogs) == 0 {
		sb.WriteString(inactiveStyle.Render("No runs recorded yet."))
		sb.WriteString("\n")
	} else {
		sb.WriteString(logHeaderStyle.Render(fmt.Sprintf("%-18s %-24s %-10s %s", "Ended", "Project", "Planned", "Outcome")))
		sb.WriteString("\n")
		visible := m.historyLogs[m.historyScroll:]
		if len(visible) > 15 {
			visible = visible[:15]
		}
		for _, l := range visible {
			sb.WriteString(m.formatHistoryEntry(l))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Scroll: ↑/↓ | Back: esc"))
	return sb.String()
}

func (m *Model) formatHistoryEntry(l runlog.RunLog) string {
	outcome := "completed"
	if !l.Completed {
		outcome = inactiveStyle.Render("exited")
	}
	return fmt.Sprintf("%-18s %-24s %-10s %s",
		logTimeStyle.Render(l.EndedAt.Format("Jan 02 15:04")),
		l.ProjectName,
		formatDuration(l.Planned),
		outcome,
	)
}
