package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inkwell-studio/inkwell/pkg/studio"
)

var (
	tuiPhaseStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	tuiIssueStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

// maxLogLines bounds the visible event log.
const maxLogLines = 12

// =============================================================================
// ReconstructModel - Live reconstruction progress
// =============================================================================

// eventsClosedMsg signals that the studio flow finished and the event
// channel was closed.
type eventsClosedMsg struct{}

// ReconstructModel is the bubbletea model that displays reconstruction
// progress from a studio event stream.
type ReconstructModel struct {
	events <-chan studio.Event

	phase    string
	applied  int
	rejected int
	log      []string
	reason   string
	failed   bool
	quitting bool
}

// NewReconstructModel creates a model reading from the given event stream.
func NewReconstructModel(events <-chan studio.Event) ReconstructModel {
	return ReconstructModel{events: events}
}

func waitForEvent(events <-chan studio.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return e
	}
}

func (m ReconstructModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m ReconstructModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	case eventsClosedMsg:
		return m, tea.Quit
	case studio.Event:
		m.apply(msg)
		return m, waitForEvent(m.events)
	}
	return m, nil
}

func (m *ReconstructModel) apply(e studio.Event) {
	switch e.Type {
	case studio.EventPhase:
		m.phase = e.Phase
		m.appendLog(tuiPhaseStyle.Render(e.Phase) + " " + tuiDimStyle.Render(e.Message))
	case studio.EventAIResponse:
		if e.Message != "" {
			m.appendLog(e.Message)
		}
	case studio.EventCritique:
		for _, issue := range e.Issues {
			m.appendLog(tuiIssueStyle.Render("· " + issue))
		}
		if e.Done {
			m.appendLog(StyleSuccess.Render("reconstruction approved"))
		}
	case studio.EventPatchesApplied:
		m.applied += e.Applied
		m.rejected += e.Rejected
	case studio.EventValidationError:
		for _, r := range e.Results {
			m.appendLog(tuiIssueStyle.Render(fmt.Sprintf("rejected %s %q: %s", r.Op, r.ID, r.Reason)))
		}
	case studio.EventComplete:
		m.reason = e.Message
	case studio.EventError:
		m.failed = true
		m.appendLog(styleIconError.Render(iconError) + " " + e.Message)
	}
}

func (m *ReconstructModel) appendLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

func (m ReconstructModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Reconstructing"))
	if m.phase != "" {
		b.WriteString(tuiDimStyle.Render("  phase: ") + tuiPhaseStyle.Render(m.phase))
	}
	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render(fmt.Sprintf("%d patches applied, %d rejected", m.applied, m.rejected)))
	b.WriteString("\n\n")

	for _, line := range m.log {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.reason != "" {
		b.WriteString("\n")
		b.WriteString(StyleSuccess.Render(m.reason))
		b.WriteString("\n")
	}
	return b.String()
}
