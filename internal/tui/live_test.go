package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/cloverrun/internal/orchestrator"
)

func TestRunDrainsEventsAfterQuit(t *testing.T) {
	events := make(chan orchestrator.Event, 64)

	// The user quits immediately, long before the plan finishes.
	err := Run(events, tea.WithInput(strings.NewReader("q")), tea.WithoutRenderer())
	if err != nil {
		t.Fatalf("live view failed: %v", err)
	}

	// The pipeline keeps emitting phase events with the view gone. Well
	// past the channel buffer, every send must still complete so the
	// control loop can run to the end.
	done := make(chan struct{})
	go func() {
		for i := 1; i <= 200; i++ {
			events <- orchestrator.Event{Iteration: i, Total: 200, Phase: orchestrator.Executing}
		}
		close(events)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("event sender blocked after the live view exited")
	}
}

func TestUpdateQuitKeys(t *testing.T) {
	m := NewLive(make(chan orchestrator.Event))

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should quit the view")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Error("ctrl+c should quit the view")
	}
}
