// Package hookevent defines the wire contract between the host's hook
// dispatcher and ccname: a SessionStart payload on stdin and a hook
// response on stdout.
package hookevent

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/joescharf/ccname/internal/models"
)

// Event is the subset of the SessionStart payload ccname requires. The host
// sends additional fields; they are ignored on decode.
type Event struct {
	SessionID string `json:"session_id"`
	CWD       string `json:"cwd"`
	Source    string `json:"source"`
}

// TriggerSource maps the raw source string onto the known trigger kinds.
// Unknown sources are returned as-is so the pipeline can log them.
func (e Event) TriggerSource() models.TriggerSource {
	return models.TriggerSource(e.Source)
}

// Output is the hook response. Continue is always true: renaming is a
// convenience and must never block session startup.
type Output struct {
	Continue      bool   `json:"continue"`
	SystemMessage string `json:"systemMessage,omitempty"`
}

// Decode reads a SessionStart event from r.
func Decode(r io.Reader) (Event, error) {
	var ev Event
	if err := json.NewDecoder(r).Decode(&ev); err != nil {
		return Event{}, fmt.Errorf("decode hook event: %w", err)
	}
	if ev.SessionID == "" {
		return Event{}, fmt.Errorf("hook event missing session_id")
	}
	return ev, nil
}

// Encode writes output to w as a single JSON line.
func Encode(w io.Writer, out Output) error {
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encode hook output: %w", err)
	}
	return nil
}
