package supervisor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/lanbind/internal/core/domain"
	"github.com/yndnr/lanbind/internal/telemetry/logger"
)

// DefaultSettleDelay is how long Stop waits for sockets to be released.
const DefaultSettleDelay = 2 * time.Second

// Supervisor controls the daemon's lifecycle for one run.
type Supervisor interface {
	Stop(ctx context.Context)
	Start(ctx context.Context, b domain.DesiredBinding) (*Process, error)
}

// Config describes the managed daemon.
type Config struct {
	// Binary is executed as "<Binary> serve".
	Binary string
	// ProcessName is matched exactly by the kill command.
	ProcessName string
	// ServeLog receives the daemon's output. Empty discards it.
	ServeLog string
	// SettleDelay follows every Stop.
	SettleDelay time.Duration
}

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Daemon is the default Supervisor.
type Daemon struct {
	cfg     Config
	log     logger.Logger
	run     Runner
	sleep   func(time.Duration)
	environ func() []string
}

// Option configures a Daemon.
type Option func(*Daemon)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(d *Daemon) { d.log = log }
}

// WithRunner replaces execution of the kill command.
func WithRunner(run Runner) Option {
	return func(d *Daemon) { d.run = run }
}

// WithSleep replaces time.Sleep for the settle delay.
func WithSleep(sleep func(time.Duration)) Option {
	return func(d *Daemon) { d.sleep = sleep }
}

// WithEnviron replaces os.Environ as the base of the child environment.
func WithEnviron(environ func() []string) Option {
	return func(d *Daemon) { d.environ = environ }
}

// New creates a supervisor for the daemon described by cfg.
func New(cfg Config, opts ...Option) *Daemon {
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	}
	d := &Daemon{
		cfg:     cfg,
		log:     logger.Default(),
		run:     execRunner,
		sleep:   time.Sleep,
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Stop kills any running daemon and waits the settle delay.
//
// A failing kill command, including "no process matched", is logged at
// debug level and otherwise ignored.
func (d *Daemon) Stop(ctx context.Context) {
	name, args := killCommand(d.cfg.ProcessName)
	out, err := d.run(ctx, name, args...)
	if err != nil {
		d.log.Debug("kill command reported failure",
			"command", name,
			"error", err,
			"output", strings.TrimSpace(string(out)),
		)
	}

	d.log.Info("waiting for daemon to release its port", "settle_delay", d.cfg.SettleDelay)
	d.sleep(d.cfg.SettleDelay)
}

// Start launches the daemon and returns without waiting for it.
func (d *Daemon) Start(ctx context.Context, b domain.DesiredBinding) (*Process, error) {
	cmd := exec.Command(d.cfg.Binary, "serve")
	cmd.Env = Overlay(d.environ(), b.Environment())
	cmd.Stdin = nil
	detach(cmd)

	logFile, err := d.openServeLog()
	if err != nil {
		// Output is diagnostics only; launch anyway.
		d.log.Warn("cannot open serve log, discarding daemon output", "path", d.cfg.ServeLog, "error", err)
	}
	if logFile != nil {
		cmd.Stdout = logFile
		cmd.Stderr = logFile
		defer logFile.Close()
	}

	if err := cmd.Start(); err != nil {
		return nil, domain.ErrDaemonLaunch.WithDetails(d.cfg.Binary).Wrap(err)
	}

	proc := newProcess(cmd.Process.Pid)
	d.log.Info("daemon started",
		"pid", proc.PID,
		"binary", d.cfg.Binary,
		"host", b.Host,
		"port", b.Port,
	)

	go func() {
		err := cmd.Wait()
		proc.finish(err)
		d.log.Warn("daemon exited", "pid", proc.PID, "error", err, "serve_log", d.cfg.ServeLog)
	}()

	return proc, nil
}

func (d *Daemon) openServeLog() (*os.File, error) {
	if d.cfg.ServeLog == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(d.cfg.ServeLog), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(d.cfg.ServeLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// Overlay returns env with every managed key replaced by vars.
func Overlay(env []string, vars []domain.EnvVar) []string {
	out := make([]string, 0, len(env)+len(vars))
	for _, kv := range env {
		key, _, _ := strings.Cut(kv, "=")
		if !managed(key, vars) {
			out = append(out, kv)
		}
	}
	for _, v := range vars {
		out = append(out, v.String())
	}
	return out
}

func managed(key string, vars []domain.EnvVar) bool {
	for _, v := range vars {
		// Windows environment keys are case-insensitive.
		if strings.EqualFold(key, v.Key) {
			return true
		}
	}
	return false
}

// Process is the handle of a launched daemon.
//
// It only records whether the daemon has exited; nothing waits on it.
type Process struct {
	PID int

	done chan struct{}
	mu   sync.Mutex
	err  error
}

func newProcess(pid int) *Process {
	return &Process{PID: pid, done: make(chan struct{})}
}

func (p *Process) finish(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
	close(p.done)
}

// Exited reports whether the daemon has exited and with which error.
// A nil error with exited=true is a clean exit.
func (p *Process) Exited() (exited bool, err error) {
	select {
	case <-p.done:
	default:
		return false, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return true, p.err
}

// ExitCode returns the exit status once the daemon has exited, or -1.
func (p *Process) ExitCode() int {
	exited, err := p.Exited()
	if !exited {
		return -1
	}
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}
