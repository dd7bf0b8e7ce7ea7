package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/lanbind/internal/core/domain"
)

const namespace = "lanbind"

// Registry holds all metrics for one reconciliation run.
//
// All methods are safe to call on a nil *Registry, which records nothing.
type Registry struct {
	reg *prometheus.Registry

	PollAttempts       prometheus.Counter
	ProbeOutcomes      *prometheus.CounterVec
	ConnectivityChecks *prometheus.CounterVec
	Restarts           prometheus.Counter

	RunState    *prometheus.GaugeVec
	RunDuration prometheus.Gauge
	LastRunTime prometheus.Gauge
	PollsPerRun prometheus.Gauge
}

// NewRegistry creates a registry with every lanbind metric registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
	}

	r.PollAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reconcile",
		Name:      "poll_attempts_total",
		Help:      "Number of listener poll attempts after a daemon restart",
	})

	r.ProbeOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "portprobe",
		Name:      "outcomes_total",
		Help:      "Port probe results by outcome",
	}, []string{"outcome"})

	r.ConnectivityChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "health",
		Name:      "checks_total",
		Help:      "HTTP connectivity checks by target label and result",
	}, []string{"target", "result"})

	r.Restarts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "supervisor",
		Name:      "restarts_total",
		Help:      "Number of daemon stop/start cycles issued",
	})

	r.RunState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "reconcile",
		Name:      "run_state",
		Help:      "1 for the state the last run finished in, 0 otherwise",
	}, []string{"state"})

	r.RunDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "reconcile",
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last reconciliation run",
	})

	r.LastRunTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "reconcile",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last reconciliation run",
	})

	r.PollsPerRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "reconcile",
		Name:      "last_run_poll_attempts",
		Help:      "Poll attempts used by the last reconciliation run",
	})

	r.reg.MustRegister(
		r.PollAttempts,
		r.ProbeOutcomes,
		r.ConnectivityChecks,
		r.Restarts,
		r.RunState,
		r.RunDuration,
		r.LastRunTime,
		r.PollsPerRun,
	)

	return r
}

// ObserveProbe counts one port probe and, when polling, one poll attempt.
func (r *Registry) ObserveProbe(state domain.ListeningState, polling bool) {
	if r == nil {
		return
	}
	r.ProbeOutcomes.WithLabelValues(string(state.Outcome)).Inc()
	if polling {
		r.PollAttempts.Inc()
	}
}

// ObserveConnectivity counts one connectivity check.
func (r *Registry) ObserveConnectivity(c domain.Connectivity) {
	if r == nil {
		return
	}
	result := "unreachable"
	if c.Reachable {
		result = "reachable"
	}
	r.ConnectivityChecks.WithLabelValues(c.Label, result).Inc()
}

// ObserveRestart counts one stop/start cycle.
func (r *Registry) ObserveRestart() {
	if r == nil {
		return
	}
	r.Restarts.Inc()
}

// RecordOutcome sets the run gauges from a finished run.
func (r *Registry) RecordOutcome(o domain.Outcome, finishedAt time.Time) {
	if r == nil {
		return
	}
	for _, s := range domain.RunStates() {
		v := 0.0
		if s == o.State {
			v = 1
		}
		r.RunState.WithLabelValues(string(s)).Set(v)
	}
	r.RunDuration.Set(o.Duration.Seconds())
	r.LastRunTime.Set(float64(finishedAt.Unix()))
	r.PollsPerRun.Set(float64(o.Attempts))
}

// WriteTextfile writes the registry in text exposition format to path.
// The write is atomic, so a node_exporter scrape never sees a partial file.
func (r *Registry) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
