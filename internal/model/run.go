package model

// Run carries the state of one pipeline execution between steps.
type Run struct {
	// Inputs, fixed before the first step.
	SourceFile   string
	DocumentType string
	Config       ZoneConfig
	OutputDir    string
	PageRange    *PageRange
	DPI          int
	Stamp        bool

	// State is the current state machine position.
	State State

	// Pages holds the pages owned by the step currently executing.
	// Filtering removes skipped pages; persisting releases all of them.
	Pages []*Page

	// Stats accumulates as steps execute.
	Stats Stats

	// Digests lists output file hashes in page order.
	Digests []PageDigest

	// Log is set once the processing log has been written.
	Log *ProcessingLog

	// Error records the error that moved the run to StateFailed.
	Error error
}

// NewRun creates a run in StateIdle.
func NewRun(sourceFile, documentType string, cfg ZoneConfig) *Run {
	return &Run{
		SourceFile:   sourceFile,
		DocumentType: documentType,
		Config:       cfg,
		State:        StateIdle,
		Stats:        Stats{OutputFiles: make([]string, 0)},
	}
}

// Fail moves the run to StateFailed and records err.
func (r *Run) Fail(err error) {
	r.State = StateFailed
	r.Error = err
}
