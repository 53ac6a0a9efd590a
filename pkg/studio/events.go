package studio

import "github.com/inkwell-studio/inkwell/pkg/scene/patch"

// EventType discriminates progress events.
type EventType string

// Event types, in the rough order they occur within a flow.
const (
	EventStatus          EventType = "status"
	EventPhase           EventType = "phase"
	EventAIResponse      EventType = "ai_response"
	EventCritique        EventType = "critique"
	EventValidationError EventType = "validation_error"
	EventPatchesApplied  EventType = "patches_applied"
	EventRenderUpdate    EventType = "render_update"
	EventComplete        EventType = "complete"
	EventError           EventType = "error"
)

// Event is one progress record. Fields beyond Type are populated per
// variant; the zero value of an unused field is omitted on the wire.
type Event struct {
	Type    EventType `json:"type"`
	Phase   string    `json:"phase,omitempty"`
	Message string    `json:"message,omitempty"`

	// ai_response
	Thinking string `json:"thinking,omitempty"`

	// critique
	Issues []string `json:"issues,omitempty"`
	Done   bool     `json:"done,omitempty"`

	// validation_error
	Results []patch.Result `json:"results,omitempty"`

	// patches_applied
	Applied  int `json:"applied,omitempty"`
	Rejected int `json:"rejected,omitempty"`

	// render_update: current raster as a data URI
	ImageURI string `json:"image_uri,omitempty"`

	// complete
	Reason string `json:"reason,omitempty"`
}

// Sink receives events synchronously during a studio call. Invocation is
// fire-and-forget: the studio does not wait for acknowledgement, and a
// sink must not block if it wants the flow to make progress. A nil sink
// discards everything.
type Sink func(Event)

func (s Sink) emit(e Event) {
	if s != nil {
		s(e)
	}
}

func (s Sink) status(msg string) {
	s.emit(Event{Type: EventStatus, Message: msg})
}

func (s Sink) phase(name, msg string) {
	s.emit(Event{Type: EventPhase, Phase: name, Message: msg})
}

func (s Sink) error(msg string) {
	s.emit(Event{Type: EventError, Message: msg})
}
