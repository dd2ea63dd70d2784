package session

import (
	"slices"

	"github.com/futig/genie-client/internal/entity"
)

// View is the active tab
type View string

const (
	ViewChat      View = "chat"
	ViewDocuments View = "documents"
)

// Outcome reports how an operation settled
type Outcome int

const (
	// OutcomeSkipped means a precondition failed and nothing was sent
	OutcomeSkipped Outcome = iota
	OutcomeDone
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDone:
		return "done"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only copy of the session state handed to renderers
type Snapshot struct {
	ActiveView      View
	Draft           string
	Busy            bool
	ResponseTimeout int
	SettingsOpen    bool
	ThreadID        string
	History         []entity.ChatTurn
	Documents       []entity.DocumentRef
}

type state struct {
	activeView      View
	draft           string
	busy            bool
	responseTimeout int
	settingsOpen    bool
	threadID        string
	history         []entity.ChatTurn
	documents       []entity.DocumentRef
}

func (s *state) snapshot() Snapshot {
	return Snapshot{
		ActiveView:      s.activeView,
		Draft:           s.draft,
		Busy:            s.busy,
		ResponseTimeout: s.responseTimeout,
		SettingsOpen:    s.settingsOpen,
		ThreadID:        s.threadID,
		History:         slices.Clone(s.history),
		Documents:       slices.Clone(s.documents),
	}
}
