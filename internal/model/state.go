package model

// State is a position in the pipeline state machine.
//
// The happy path is Idle → Rasterizing → Filtering → Redacting →
// Persisting → Done. Failed is terminal and reachable from document type
// resolution (before Rasterizing) and from any later step.
type State int

const (
	// StateIdle is the state of a run that has not started.
	StateIdle State = iota

	// StateRasterizing converts the PDF into page images.
	StateRasterizing

	// StateFiltering drops pages listed in skip_pages.
	StateFiltering

	// StateRedacting fills zones and stamps redacted pages.
	StateRedacting

	// StatePersisting writes page files and the processing log.
	StatePersisting

	// StateDone marks a complete run. Only a Done run has a log on disk.
	StateDone

	// StateFailed marks a run that stopped on an error.
	StateFailed
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRasterizing:
		return "rasterizing"
	case StateFiltering:
		return "filtering"
	case StateRedacting:
		return "redacting"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
