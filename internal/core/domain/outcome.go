package domain

import "time"

// RunState is a terminal state of a reconciliation run.
type RunState string

const (
	// StateAlreadyListening means the daemon was already bound; nothing was restarted.
	StateAlreadyListening RunState = "already_listening"
	// StateConverged means the daemon was restarted and observed listening.
	StateConverged RunState = "converged"
	// StateTimedOut means the poll budget ran out without observing a listener.
	StateTimedOut RunState = "timed_out"
	// StateDryRun means files were patched but the daemon was left alone.
	StateDryRun RunState = "dry_run"
)

// Succeeded reports whether the state maps to exit code 0.
func (s RunState) Succeeded() bool {
	return s != StateTimedOut
}

// Connectivity is the advisory result of one HTTP reachability check.
type Connectivity struct {
	Label      string `json:"label" yaml:"label"`
	URL        string `json:"url" yaml:"url"`
	Reachable  bool   `json:"reachable" yaml:"reachable"`
	StatusCode int    `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Outcome summarizes a finished reconciliation run.
type Outcome struct {
	RunID        string         `json:"run_id" yaml:"run_id"`
	State        RunState       `json:"state" yaml:"state"`
	Binding      DesiredBinding `json:"binding" yaml:"binding"`
	Attempts     int            `json:"attempts" yaml:"attempts"`
	Listening    ListeningState `json:"listening" yaml:"listening"`
	Connectivity []Connectivity `json:"connectivity,omitempty" yaml:"connectivity,omitempty"`
	Duration     time.Duration  `json:"duration" yaml:"duration"`

	// DaemonPID is the launched daemon, zero when none was started.
	DaemonPID int `json:"daemon_pid,omitempty" yaml:"daemon_pid,omitempty"`
	// DaemonExited is set when the launched daemon exited during polling.
	DaemonExited bool `json:"daemon_exited,omitempty" yaml:"daemon_exited,omitempty"`
}

// RunStates lists every terminal run state.
func RunStates() []RunState {
	return []RunState{StateAlreadyListening, StateConverged, StateTimedOut, StateDryRun}
}
