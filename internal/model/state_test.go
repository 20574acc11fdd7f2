package model

import (
	"errors"
	"testing"
)

// TestStateString tests the String method of State.
func TestStateString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		state    State
		expected string
		terminal bool
	}{
		{StateIdle, "idle", false},
		{StateRasterizing, "rasterizing", false},
		{StateFiltering, "filtering", false},
		{StateRedacting, "redacting", false},
		{StatePersisting, "persisting", false},
		{StateDone, "done", true},
		{StateFailed, "failed", true},
		{State(99), "unknown", false},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.state.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.state.String(), tc.expected)
			}
			if tc.state.Terminal() != tc.terminal {
				t.Errorf("Terminal() = %v, expected %v", tc.state.Terminal(), tc.terminal)
			}
		})
	}
}

// TestRunFail tests the failure transition.
func TestRunFail(t *testing.T) {
	t.Parallel()

	run := NewRun("a.pdf", "BPR", ZoneConfig{})
	if run.State != StateIdle {
		t.Fatalf("new run should be idle, got %s", run.State)
	}
	if run.Stats.OutputFiles == nil {
		t.Error("OutputFiles should be an empty slice so the log encodes []")
	}

	boom := errors.New("boom")
	run.Fail(boom)
	if run.State != StateFailed || !errors.Is(run.Error, boom) {
		t.Errorf("unexpected run after Fail: %s %v", run.State, run.Error)
	}
}
