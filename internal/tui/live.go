// Package tui shows live pipeline progress while a plan runs.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/cloverrun/internal/orchestrator"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	phaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	haltStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666688"))
)

// Run drives the live view until the event channel closes or the user
// quits. A mid-plan quit leaves the pipeline still emitting phase events,
// so draining continues in the background until the sender closes the
// channel; otherwise the observer send would block once the buffer fills.
func Run(events <-chan orchestrator.Event, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(NewLive(events), opts...).Run()
	go func() {
		for range events {
		}
	}()
	return err
}

type doneMsg struct{}

// Model consumes orchestrator events from a channel and renders the
// current iteration and phase. The program quits when the channel closes.
type Model struct {
	events  <-chan orchestrator.Event
	current orchestrator.Event
	done    bool
}

func NewLive(events <-chan orchestrator.Event) Model {
	return Model{events: events}
}

func (m Model) Init() tea.Cmd {
	return m.wait()
}

func (m Model) wait() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return ev
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case orchestrator.Event:
		m.current = msg
		return m, m.wait()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.current.Total == 0 {
		return titleStyle.Render("cloverrun") + "\n  waiting for first iteration...\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("cloverrun"))
	b.WriteString("\n")

	completed := m.current.Iteration - 1
	if m.current.Phase == orchestrator.Completed {
		completed = m.current.Total
	}
	b.WriteString(fmt.Sprintf("  iteration %d/%d  %s\n",
		m.current.Iteration, m.current.Total, progressBar(completed, m.current.Total)))

	switch m.current.Phase {
	case orchestrator.Halted:
		b.WriteString("  " + haltStyle.Render("halted") + "\n")
	case orchestrator.Completed:
		b.WriteString("  " + phaseStyle.Render("all iterations complete") + "\n")
	default:
		b.WriteString("  " + phaseStyle.Render(m.current.Phase.String()) + "\n")
	}
	return b.String()
}

func progressBar(completed, total int) string {
	const width = 30
	filled := 0
	if total > 0 {
		filled = completed * width / total
	}
	return barStyle.Render("[" + strings.Repeat("#", filled) + strings.Repeat(" ", width-filled) + "]")
}
