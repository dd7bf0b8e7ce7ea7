package metric

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/lanbind/internal/core/domain"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if r.reg == nil {
		t.Fatal("registry has no prometheus registry")
	}
}

func TestRegistry_ObserveProbe(t *testing.T) {
	r := NewRegistry()

	r.ObserveProbe(domain.ListeningState{Outcome: domain.ProbeListening}, false)
	r.ObserveProbe(domain.ListeningState{Outcome: domain.ProbeNotListening}, true)
	r.ObserveProbe(domain.Inconclusive("lsof", errors.New("missing")), true)

	if got := testutil.ToFloat64(r.PollAttempts); got != 2 {
		t.Errorf("PollAttempts = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.ProbeOutcomes.WithLabelValues("listening")); got != 1 {
		t.Errorf("listening outcomes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.ProbeOutcomes.WithLabelValues("inconclusive")); got != 1 {
		t.Errorf("inconclusive outcomes = %v, want 1", got)
	}
}

func TestRegistry_ObserveConnectivity(t *testing.T) {
	r := NewRegistry()

	r.ObserveConnectivity(domain.Connectivity{Label: "localhost", Reachable: true})
	r.ObserveConnectivity(domain.Connectivity{Label: "target", Reachable: false})

	if got := testutil.ToFloat64(r.ConnectivityChecks.WithLabelValues("localhost", "reachable")); got != 1 {
		t.Errorf("localhost reachable = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.ConnectivityChecks.WithLabelValues("target", "unreachable")); got != 1 {
		t.Errorf("target unreachable = %v, want 1", got)
	}
}

func TestRegistry_RecordOutcome(t *testing.T) {
	r := NewRegistry()
	finished := time.Unix(1700000000, 0)

	r.ObserveRestart()
	r.RecordOutcome(domain.Outcome{
		State:    domain.StateConverged,
		Attempts: 3,
		Duration: 4500 * time.Millisecond,
	}, finished)

	if got := testutil.ToFloat64(r.RunState.WithLabelValues("converged")); got != 1 {
		t.Errorf("run_state{converged} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.RunState.WithLabelValues("timed_out")); got != 0 {
		t.Errorf("run_state{timed_out} = %v, want 0", got)
	}
	if got := testutil.ToFloat64(r.RunDuration); got != 4.5 {
		t.Errorf("RunDuration = %v, want 4.5", got)
	}
	if got := testutil.ToFloat64(r.LastRunTime); got != 1700000000 {
		t.Errorf("LastRunTime = %v, want 1700000000", got)
	}
	if got := testutil.ToFloat64(r.PollsPerRun); got != 3 {
		t.Errorf("PollsPerRun = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.Restarts); got != 1 {
		t.Errorf("Restarts = %v, want 1", got)
	}
}

func TestRegistry_NilSafe(t *testing.T) {
	var r *Registry

	// None of these should panic.
	r.ObserveProbe(domain.ListeningState{Outcome: domain.ProbeListening}, true)
	r.ObserveConnectivity(domain.Connectivity{Label: "localhost"})
	r.ObserveRestart()
	r.RecordOutcome(domain.Outcome{State: domain.StateConverged}, time.Now())
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Errorf("WriteTextfile on nil registry error = %v", err)
	}
}

func TestRegistry_WriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordOutcome(domain.Outcome{State: domain.StateAlreadyListening}, time.Now())

	path := filepath.Join(t.TempDir(), "lanbind.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `lanbind_reconcile_run_state{state="already_listening"} 1`) {
		t.Errorf("textfile missing run_state sample:\n%s", out)
	}
}

func TestRegistry_WriteTextfile_EmptyPath(t *testing.T) {
	if err := NewRegistry().WriteTextfile(""); err != nil {
		t.Errorf("WriteTextfile(\"\") error = %v", err)
	}
}
