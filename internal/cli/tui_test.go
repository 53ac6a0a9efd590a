package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inkwell-studio/inkwell/pkg/scene/patch"
	"github.com/inkwell-studio/inkwell/pkg/studio"
)

func TestReconstructModelTracksProgress(t *testing.T) {
	events := make(chan studio.Event)
	var m tea.Model = NewReconstructModel(events)

	feed := []studio.Event{
		{Type: studio.EventPhase, Phase: "build", Message: "reconstructing scene"},
		{Type: studio.EventPatchesApplied, Applied: 4, Rejected: 1},
		{Type: studio.EventValidationError, Results: []patch.Result{
			{Op: patch.OpAdd, ID: "bad", Reason: patch.ReasonInvalidElement},
		}},
		{Type: studio.EventPatchesApplied, Applied: 2},
		{Type: studio.EventComplete, Reason: "fix pass complete", Message: "fix pass complete (91.40% similar)"},
	}
	for _, e := range feed {
		m, _ = m.Update(e)
	}

	rm := m.(ReconstructModel)
	if rm.phase != "build" {
		t.Errorf("phase = %q", rm.phase)
	}
	if rm.applied != 6 || rm.rejected != 1 {
		t.Errorf("applied/rejected = %d/%d, want 6/1", rm.applied, rm.rejected)
	}

	view := rm.View()
	for _, frag := range []string{"Reconstructing", "6 patches applied, 1 rejected", "91.40% similar"} {
		if !strings.Contains(view, frag) {
			t.Errorf("view missing %q:\n%s", frag, view)
		}
	}
}

func TestReconstructModelLogBounded(t *testing.T) {
	var m tea.Model = NewReconstructModel(nil)
	for i := 0; i < maxLogLines*3; i++ {
		m, _ = m.Update(studio.Event{Type: studio.EventAIResponse, Message: "line"})
	}
	rm := m.(ReconstructModel)
	if len(rm.log) != maxLogLines {
		t.Errorf("log length = %d, want %d", len(rm.log), maxLogLines)
	}
}

func TestReconstructModelQuits(t *testing.T) {
	var m tea.Model = NewReconstructModel(nil)

	_, cmd := m.Update(eventsClosedMsg{})
	if cmd == nil {
		t.Fatal("closed events should produce a quit command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("msg = %T, want tea.QuitMsg", msg)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should produce a quit command")
	}
	if view := next.(ReconstructModel).View(); view != "" {
		t.Errorf("quitting view = %q, want empty", view)
	}
}
