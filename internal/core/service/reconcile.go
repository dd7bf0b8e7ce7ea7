package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/yndnr/lanbind/internal/core/domain"
	"github.com/yndnr/lanbind/internal/ollama/health"
	"github.com/yndnr/lanbind/internal/ollama/supervisor"
	"github.com/yndnr/lanbind/internal/telemetry/logger"
	"github.com/yndnr/lanbind/internal/telemetry/metric"
)

// Connectivity check labels.
const (
	LabelLocalhost  = "localhost"
	LabelNetwork    = "network"
	LabelTarget     = "target"
	LabelConfigured = "configured"
)

// ConfigPatcher keeps the daemon's listen directive in sync.
type ConfigPatcher interface {
	Patch(b domain.DesiredBinding) (changed bool, err error)
	Path() string
}

// Surface is an additional file rewritten after the config patch, such as
// the environment file or the shell profile. Write errors are fatal.
type Surface struct {
	Name  string
	Path  string
	Write func(b domain.DesiredBinding) (changed bool, err error)
}

// PortProber reports whether something listens on port for host.
type PortProber interface {
	Probe(ctx context.Context, port int, host string) domain.ListeningState
}

// Supervisor stops and starts the daemon.
type Supervisor interface {
	Stop(ctx context.Context)
	Start(ctx context.Context, b domain.DesiredBinding) (*supervisor.Process, error)
}

// Verifier checks HTTP reachability.
type Verifier interface {
	Check(ctx context.Context, host string, port int) health.Result
}

// Options tunes a run.
type Options struct {
	// PollAttempts is the number of probes after a restart. Must be >= 1.
	PollAttempts int
	// PollInterval is waited before every probe.
	PollInterval time.Duration
	// TargetIP is an extra reachability check for wildcard bindings.
	TargetIP string
	// DryRun patches files and probes once but never restarts the daemon.
	DryRun bool
}

// Deps are the collaborators of a Reconciler. Patcher, Prober, Supervisor
// and Verifier are required; the rest have defaults.
type Deps struct {
	Patcher    ConfigPatcher
	Surfaces   []Surface
	Prober     PortProber
	Supervisor Supervisor
	Verifier   Verifier

	// OutboundIP returns the LAN-visible address, ok=false when unknown.
	OutboundIP func() (ip string, ok bool)
	// Sleep paces polling. Defaults to time.Sleep.
	Sleep func(time.Duration)
	// Now defaults to time.Now.
	Now func() time.Time
	// NewRunID defaults to domain.NewRunID.
	NewRunID func() string
	// OnPoll is called after every poll attempt, e.g. to draw progress.
	OnPoll func(attempt, total int, state domain.ListeningState)
	// Metrics may be nil.
	Metrics *metric.Registry
}

// Reconciler drives one daemon toward the desired binding.
type Reconciler struct {
	deps Deps
	opts Options
}

// NewReconciler creates a reconciler. It panics when a required
// dependency is missing, which is a wiring bug.
func NewReconciler(deps Deps, opts Options) *Reconciler {
	if deps.Patcher == nil || deps.Prober == nil || deps.Supervisor == nil || deps.Verifier == nil {
		panic("service: NewReconciler requires Patcher, Prober, Supervisor and Verifier")
	}
	if deps.OutboundIP == nil {
		deps.OutboundIP = func() (string, bool) { return "", false }
	}
	if deps.Sleep == nil {
		deps.Sleep = time.Sleep
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewRunID == nil {
		deps.NewRunID = domain.NewRunID
	}
	if opts.PollAttempts < 1 {
		opts.PollAttempts = 1
	}
	return &Reconciler{deps: deps, opts: opts}
}

// Run executes one reconciliation.
//
// The returned error is non-nil only for fatal file write failures. A
// daemon that never binds is reported as domain.StateTimedOut with a nil
// error.
func (r *Reconciler) Run(ctx context.Context, b domain.DesiredBinding) (domain.Outcome, error) {
	start := r.deps.Now()
	out := domain.Outcome{RunID: r.deps.NewRunID(), Binding: b}

	ctx = logger.WithRunID(ctx, out.RunID)
	log := logger.L(ctx)
	log.Info("reconciliation started", "host", b.Host, "port", b.Port, "dry_run", r.opts.DryRun)

	if err := r.writeFiles(ctx, b); err != nil {
		log.Error("reconciliation aborted", "error", err)
		return out, err
	}

	// The shortcut always asks about the wildcard, whatever host is desired.
	out.Listening = r.probe(ctx, b.Port, domain.WildcardHost, false)
	if out.Listening.Listening() {
		log.Info("daemon already listening, leaving it running",
			"port", b.Port,
			"addresses", out.Listening.Addresses,
		)
		return r.finish(ctx, out, domain.StateAlreadyListening, start), nil
	}

	if r.opts.DryRun {
		log.Info("dry run, not restarting daemon", "outcome", out.Listening.Outcome)
		return r.finish(ctx, out, domain.StateDryRun, start), nil
	}

	log.Info("stopping daemon")
	r.deps.Supervisor.Stop(ctx)

	log.Info("starting daemon", "host", b.Host, "port", b.Port)
	proc, err := r.deps.Supervisor.Start(ctx, b)
	if err != nil {
		// Polling will time out and report the failure.
		log.Error("daemon launch failed", "error", err)
	} else if proc != nil {
		out.DaemonPID = proc.PID
	}
	r.deps.Metrics.ObserveRestart()

	converged := r.poll(ctx, b, proc, &out)
	if proc != nil {
		out.DaemonExited, _ = proc.Exited()
	}
	if !converged {
		log.Error("daemon did not start listening",
			"host", b.Host,
			"port", b.Port,
			"attempts", out.Attempts,
		)
		return r.finish(ctx, out, domain.StateTimedOut, start), nil
	}

	log.Info("daemon listening", "host", b.Host, "port", b.Port, "attempts", out.Attempts)
	out.Connectivity = r.verify(ctx, b)
	return r.finish(ctx, out, domain.StateConverged, start), nil
}

func (r *Reconciler) writeFiles(ctx context.Context, b domain.DesiredBinding) error {
	log := logger.L(ctx)

	changed, err := r.deps.Patcher.Patch(b)
	if err != nil {
		return err
	}
	log.Info("config patched",
		"path", r.deps.Patcher.Path(),
		"changed", changed,
		"listen", b.Address(),
	)

	for _, s := range r.deps.Surfaces {
		changed, err := s.Write(b)
		if err != nil {
			return err
		}
		log.Info(s.Name+" written", "path", s.Path, "changed", changed)
	}
	return nil
}

func (r *Reconciler) probe(ctx context.Context, port int, host string, polling bool) domain.ListeningState {
	state := r.deps.Prober.Probe(ctx, port, host)
	r.deps.Metrics.ObserveProbe(state, polling)
	return state
}

// poll probes on a fixed schedule until the daemon listens on the desired
// host or the attempts run out.
func (r *Reconciler) poll(ctx context.Context, b domain.DesiredBinding, proc *supervisor.Process, out *domain.Outcome) bool {
	log := logger.L(ctx)
	total := r.opts.PollAttempts
	schedule := backoff.WithMaxRetries(backoff.NewConstantBackOff(r.opts.PollInterval), uint64(total))

	exitReported := false
	for attempt := 1; ; attempt++ {
		wait := schedule.NextBackOff()
		if wait == backoff.Stop {
			return false
		}
		r.deps.Sleep(wait)

		state := r.probe(ctx, b.Port, b.Host, true)
		out.Attempts = attempt
		out.Listening = state

		log.Info("waiting for daemon",
			"attempt", attempt,
			"of", total,
			"outcome", state.Outcome,
		)
		if r.deps.OnPoll != nil {
			r.deps.OnPoll(attempt, total, state)
		}
		if state.Listening() {
			return true
		}

		if proc != nil && !exitReported {
			if exited, err := proc.Exited(); exited {
				exitReported = true
				log.Warn("daemon exited before binding", "pid", proc.PID, "exit_code", proc.ExitCode(), "error", err)
			}
		}
	}
}

type checkTarget struct {
	label string
	host  string
}

// targets lists the advisory connectivity checks for b.
func (r *Reconciler) targets(b domain.DesiredBinding) []checkTarget {
	targets := []checkTarget{{LabelLocalhost, "localhost"}}

	if !b.IsWildcard() {
		return append(targets, checkTarget{LabelConfigured, b.Host})
	}

	ip, ok := r.deps.OutboundIP()
	if ok {
		targets = append(targets, checkTarget{LabelNetwork, ip})
	}
	if r.opts.TargetIP != "" && (!ok || r.opts.TargetIP != ip) {
		targets = append(targets, checkTarget{LabelTarget, r.opts.TargetIP})
	}
	return targets
}

func (r *Reconciler) verify(ctx context.Context, b domain.DesiredBinding) []domain.Connectivity {
	log := logger.L(ctx)

	var results []domain.Connectivity
	for _, t := range r.targets(b) {
		res := r.deps.Verifier.Check(ctx, t.host, b.Port)
		c := domain.Connectivity{
			Label:      t.label,
			URL:        res.URL,
			Reachable:  res.Reachable,
			StatusCode: res.StatusCode,
		}
		if res.Err != nil {
			c.Error = res.Err.Error()
		}

		if c.Reachable {
			log.Info("connectivity check passed", "target", t.label, "url", c.URL)
		} else {
			log.Warn("connectivity check failed", "target", t.label, "url", c.URL, "error", c.Error)
		}
		r.deps.Metrics.ObserveConnectivity(c)
		results = append(results, c)
	}
	return results
}

func (r *Reconciler) finish(ctx context.Context, out domain.Outcome, state domain.RunState, start time.Time) domain.Outcome {
	end := r.deps.Now()
	out.State = state
	out.Duration = end.Sub(start)
	r.deps.Metrics.RecordOutcome(out, end)

	logger.L(ctx).Info("reconciliation finished",
		"state", state,
		"attempts", out.Attempts,
		"duration", out.Duration.String(),
	)
	return out
}

// Summary renders a one-line summary of an outcome.
func Summary(o domain.Outcome) string {
	switch o.State {
	case domain.StateAlreadyListening:
		return fmt.Sprintf("ollama already listening on port %d", o.Binding.Port)
	case domain.StateConverged:
		return fmt.Sprintf("ollama listening on %s after %d attempt(s)", o.Binding.Address(), o.Attempts)
	case domain.StateTimedOut:
		return fmt.Sprintf("ollama not listening on %s after %d attempt(s)", o.Binding.Address(), o.Attempts)
	case domain.StateDryRun:
		return fmt.Sprintf("dry run: files patched for %s, daemon untouched (%s)", o.Binding.Address(), o.Listening.Outcome)
	default:
		return string(o.State)
	}
}
