package command

import (
	"context"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/lanbind/internal/cli/output"
	"github.com/yndnr/lanbind/internal/config"
	"github.com/yndnr/lanbind/internal/core/domain"
	"github.com/yndnr/lanbind/internal/core/service"
	"github.com/yndnr/lanbind/internal/netutil"
	"github.com/yndnr/lanbind/internal/ollama/configfile"
	"github.com/yndnr/lanbind/internal/ollama/health"
	"github.com/yndnr/lanbind/internal/ollama/portprobe"
	"github.com/yndnr/lanbind/internal/telemetry/logger"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the effective binding, listener and reachability without changing anything",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides OLLAMA_HOST)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides OLLAMA_PORT)",
			},
		},
		Action: statusAction,
	}
}

// Reachability is one row of the status report's checks.
type Reachability struct {
	Label     string `json:"label" yaml:"label"`
	URL       string `json:"url" yaml:"url"`
	Reachable bool   `json:"reachable" yaml:"reachable"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// StatusReport is everything lanbind can observe without side effects.
type StatusReport struct {
	Binding         domain.DesiredBinding `json:"binding" yaml:"binding"`
	ConfigPath      string                `json:"config_path" yaml:"config_path"`
	ListenDirective string                `json:"listen_directive,omitempty" yaml:"listen_directive,omitempty"`
	Listener        domain.ListeningState `json:"listener" yaml:"listener"`
	DaemonVersion   string                `json:"daemon_version,omitempty" yaml:"daemon_version,omitempty"`
	Checks          []Reachability        `json:"checks" yaml:"checks"`
	OutboundIP      string                `json:"outbound_ip,omitempty" yaml:"outbound_ip,omitempty"`
	Interfaces      []netutil.Interface   `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Firewall        netutil.FirewallState `json:"firewall" yaml:"firewall"`
}

// Table renders the report as key/value rows.
func (r *StatusReport) Table() *output.Table {
	t := &output.Table{}
	t.SetHeaders("FIELD", "VALUE")

	t.AddRow("binding", r.Binding.Address())
	t.AddRow("origins", r.Binding.OriginPolicy)
	t.AddRow("config file", r.ConfigPath)
	t.AddRow("listen directive", orDash(r.ListenDirective))

	listener := string(r.Listener.Outcome)
	if len(r.Listener.Addresses) > 0 {
		listener += " (" + strings.Join(r.Listener.Addresses, ", ") + ")"
	}
	t.AddRow("listener", listener)
	t.AddRow("daemon version", orDash(r.DaemonVersion))

	for _, c := range r.Checks {
		state := "unreachable"
		if c.Reachable {
			state = "reachable"
		}
		t.AddRow("check "+c.Label, c.URL+" "+state)
	}

	t.AddRow("outbound ip", orDash(r.OutboundIP))
	for _, i := range r.Interfaces {
		t.AddRow("interface "+i.Name, i.Address)
	}
	t.AddRow("firewall", string(r.Firewall))
	return t
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// versionChecker is a Verifier that can also ask for the daemon version.
type versionChecker interface {
	Check(ctx context.Context, host string, port int) health.Result
	Version(ctx context.Context, host string, port int) (string, error)
}

// statusSources are the read-only observers behind a status report.
type statusSources struct {
	Patcher    *configfile.Patcher
	Prober     portprobe.Prober
	Checker    versionChecker
	TargetIP   string
	OutboundIP func() (string, bool)
	Interfaces func() ([]netutil.Interface, error)
	Firewall   func(ctx context.Context) netutil.FirewallState
}

func statusAction(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}

	b, err := config.LoadBinding(cfg, c.String("host"), c.Int("port"))
	if err != nil {
		return err
	}

	src := statusSources{
		Patcher: configfile.NewPatcher(cfg.Ollama.ConfigPath),
		Prober: portprobe.NewDefault(
			portprobe.WithLogger(log),
			portprobe.WithTimeout(cfg.Reconcile.ProbeTimeout),
		),
		Checker:    health.NewChecker(cfg.Ollama.HealthPath, health.DefaultTimeout),
		TargetIP:   cfg.Ollama.TargetIP,
		OutboundIP: netutil.OutboundIP,
		Interfaces: netutil.Interfaces,
		Firewall:   netutil.Firewall,
	}

	report := collectStatus(logger.WithLogger(c.Context, log), b, src)
	return render(c, report)
}

// collectStatus gathers a report. Every failure is folded into the report
// instead of aborting it.
func collectStatus(ctx context.Context, b domain.DesiredBinding, src statusSources) *StatusReport {
	log := logger.L(ctx)
	r := &StatusReport{
		Binding:    b,
		ConfigPath: src.Patcher.Path(),
	}

	if value, found, err := src.Patcher.ReadListen(); err != nil {
		log.Warn("failed to read daemon config", "path", r.ConfigPath, "error", err)
	} else if found {
		r.ListenDirective = value
	}

	r.Listener = src.Prober.Probe(ctx, b.Port, b.Host)

	type target struct{ label, host string }
	targets := []target{{service.LabelLocalhost, "localhost"}}
	if ip, ok := src.OutboundIP(); ok {
		r.OutboundIP = ip
		if b.IsWildcard() {
			targets = append(targets, target{service.LabelNetwork, ip})
		}
	}
	if !b.IsWildcard() {
		targets = append(targets, target{service.LabelConfigured, b.Host})
	} else if src.TargetIP != "" && src.TargetIP != r.OutboundIP {
		targets = append(targets, target{service.LabelTarget, src.TargetIP})
	}

	for _, t := range targets {
		res := src.Checker.Check(ctx, t.host, b.Port)
		check := Reachability{Label: t.label, URL: res.URL, Reachable: res.Reachable}
		if res.Err != nil {
			check.Error = res.Err.Error()
		}
		r.Checks = append(r.Checks, check)
	}

	if v, err := src.Checker.Version(ctx, "localhost", b.Port); err == nil {
		r.DaemonVersion = v
	} else {
		log.Debug("daemon version unavailable", "error", err)
	}

	if ifs, err := src.Interfaces(); err != nil {
		log.Warn("failed to list interfaces", "error", err)
	} else {
		r.Interfaces = ifs
	}

	r.Firewall = src.Firewall(ctx)
	return r
}
