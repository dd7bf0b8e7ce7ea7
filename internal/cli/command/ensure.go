package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/lanbind/internal/cli/output"
	"github.com/yndnr/lanbind/internal/config"
	"github.com/yndnr/lanbind/internal/core/domain"
	"github.com/yndnr/lanbind/internal/core/service"
	"github.com/yndnr/lanbind/internal/netutil"
	"github.com/yndnr/lanbind/internal/ollama/configfile"
	"github.com/yndnr/lanbind/internal/ollama/health"
	"github.com/yndnr/lanbind/internal/ollama/portprobe"
	"github.com/yndnr/lanbind/internal/ollama/supervisor"
	"github.com/yndnr/lanbind/internal/telemetry/logger"
	"github.com/yndnr/lanbind/internal/telemetry/metric"
)

// EnsureCommand returns the ensure command, which is also the default action.
func EnsureCommand() *cli.Command {
	return &cli.Command{
		Name:   "ensure",
		Usage:  "Patch the Ollama config and restart the daemon until it listens on the LAN",
		Flags:  ensureFlags(),
		Action: ensureAction,
	}
}

func ensureFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "host",
			Usage: "Listen host (overrides OLLAMA_HOST, default 0.0.0.0)",
		},
		&cli.IntFlag{
			Name:  "port",
			Usage: "Listen port (overrides OLLAMA_PORT, default 11434)",
		},
		&cli.BoolFlag{
			Name:  "persist-profile",
			Usage: "Also export the OLLAMA_* variables from the shell profile",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "Write run metrics in Prometheus text format to this file",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Patch files and probe once, never restart the daemon",
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "Draw a progress bar while waiting for the daemon",
		},
	}
}

// ensureOptions are the per-invocation choices of the ensure command.
type ensureOptions struct {
	PersistProfile bool
	DryRun         bool
	Progress       io.Writer
}

func ensureAction(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}

	b, err := config.LoadBinding(cfg, c.String("host"), c.Int("port"))
	if err != nil {
		return err
	}

	opts := ensureOptions{
		PersistProfile: c.Bool("persist-profile"),
		DryRun:         c.Bool("dry-run"),
	}
	if c.Bool("progress") {
		opts.Progress = c.App.ErrWriter
		if opts.Progress == nil {
			opts.Progress = os.Stderr
		}
	}

	ctx := logger.WithLogger(c.Context, log)
	if b.IsWildcard() && netutil.Firewall(ctx) == netutil.FirewallEnabled {
		log.Warn("application firewall is enabled, LAN clients may be blocked until ollama is allowed")
	}

	registry := metric.NewRegistry()
	deps := reconcilerDeps(cfg, opts, log)
	deps.Metrics = registry

	outcome, err := service.NewReconciler(deps, service.Options{
		PollAttempts: cfg.Reconcile.PollAttempts,
		PollInterval: cfg.Reconcile.PollInterval,
		TargetIP:     cfg.Ollama.TargetIP,
		DryRun:       opts.DryRun,
	}).Run(ctx, b)
	if err != nil {
		return err
	}

	textfile := cfg.Metrics.Textfile
	if c.IsSet("metrics-file") {
		if textfile, err = config.ExpandHome(c.String("metrics-file")); err != nil {
			return err
		}
	}
	if err := registry.WriteTextfile(textfile); err != nil {
		log.Warn("failed to write metrics textfile", "path", textfile, "error", err)
	}

	if err := reportOutcome(c, outcome); err != nil {
		return err
	}
	return exitFor(outcome)
}

// reconcilerDeps wires the platform implementations for cfg.
func reconcilerDeps(cfg *config.Config, opts ensureOptions, log logger.Logger) service.Deps {
	return service.Deps{
		Patcher:  configfile.NewPatcher(cfg.Ollama.ConfigPath),
		Surfaces: surfaces(cfg, opts.PersistProfile),
		Prober: portprobe.NewDefault(
			portprobe.WithLogger(log),
			portprobe.WithTimeout(cfg.Reconcile.ProbeTimeout),
		),
		Supervisor: supervisor.New(supervisor.Config{
			Binary:      cfg.Ollama.Binary,
			ProcessName: cfg.Ollama.ProcessName,
			ServeLog:    cfg.Ollama.ServeLog,
			SettleDelay: cfg.Reconcile.SettleDelay,
		}, supervisor.WithLogger(log)),
		Verifier:   health.NewChecker(cfg.Ollama.HealthPath, health.DefaultTimeout),
		OutboundIP: netutil.OutboundIP,
		OnPoll:     progressReporter(opts.Progress),
	}
}

// surfaces lists the files rewritten after the daemon config.
func surfaces(cfg *config.Config, persistProfile bool) []service.Surface {
	envPath := cfg.Ollama.EnvPath
	list := []service.Surface{{
		Name: "environment file",
		Path: envPath,
		Write: func(b domain.DesiredBinding) (bool, error) {
			return configfile.WriteEnvFile(envPath, b)
		},
	}}

	if persistProfile {
		profilePath := cfg.Ollama.ProfilePath
		list = append(list, service.Surface{
			Name: "shell profile",
			Path: profilePath,
			Write: func(b domain.DesiredBinding) (bool, error) {
				return configfile.PersistProfile(profilePath, b)
			},
		})
	}
	return list
}

// progressReporter draws poll attempts on w. A nil w disables it.
func progressReporter(w io.Writer) func(attempt, total int, state domain.ListeningState) {
	if w == nil {
		return nil
	}
	var bar *output.ProgressBar
	return func(attempt, total int, state domain.ListeningState) {
		if bar == nil {
			bar = output.NewProgressBar(w, "waiting for ollama", total)
		}
		bar.Update(attempt)
		switch {
		case state.Listening():
			bar.Finish("listening")
		case attempt >= total:
			bar.Finish("timed out")
		}
	}
}

// reportOutcome prints the run result in the selected format.
func reportOutcome(c *cli.Context, o domain.Outcome) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	w := writer(c)

	if flags.Output != output.FormatTable {
		return output.NewFormatter(flags.Output).Format(w, o)
	}

	fmt.Fprintln(w, service.Summary(o))
	if len(o.Connectivity) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	return output.NewFormatter(output.FormatTable).Format(w, o.Connectivity)
}

// exitFor maps a run state onto the process exit status.
func exitFor(o domain.Outcome) error {
	if o.State.Succeeded() {
		return nil
	}
	return cli.Exit("", 1)
}
