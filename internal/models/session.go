package models

import "time"

// TriggerSource identifies what kind of event created or reactivated a session.
type TriggerSource string

const (
	TriggerStartup TriggerSource = "startup"
	TriggerResume  TriggerSource = "resume"
	TriggerClear   TriggerSource = "clear"
	TriggerCompact TriggerSource = "compact"
)

// Session represents one Claude Code session known to the host session store.
// The store owns every field; ccname only reads them and requests display-name
// updates via custom-title records.
type Session struct {
	ID          string
	ProjectDir  string // encoded project directory name under the projects root
	Path        string // absolute path to the session's .jsonl file
	CustomTitle string // last custom-title record, if any
	Summary     string // last summary record, if any
	Modified    time.Time
}

// DisplayName returns the name the host shows for this session: the custom
// title when one has been set, otherwise the rolling summary.
func (s *Session) DisplayName() string {
	if s.CustomTitle != "" {
		return s.CustomTitle
	}
	return s.Summary
}
