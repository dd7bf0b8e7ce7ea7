package portprobe

import (
	"context"
	"errors"
	"net"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/lanbind/internal/core/domain"
	"github.com/yndnr/lanbind/internal/telemetry/logger"
)

// DefaultTimeout bounds a single socket-table query.
const DefaultTimeout = 5 * time.Second

// Prober checks whether a port is being listened on.
type Prober interface {
	Probe(ctx context.Context, port int, host string) domain.ListeningState
}

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Option configures a prober.
type Option func(*options)

type options struct {
	run     Runner
	log     logger.Logger
	timeout time.Duration
}

// WithRunner replaces command execution, mainly for tests.
func WithRunner(run Runner) Option {
	return func(o *options) { o.run = run }
}

// WithLogger sets the logger for query diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithTimeout bounds each query.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func buildOptions(opts []Option) options {
	o := options{
		run:     ExecRunner,
		log:     logger.Default(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// toolMissing reports whether err means the command is not installed.
func toolMissing(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

// exitCode extracts a process exit status, or -1.
func exitCode(err error) int {
	var ec interface{ ExitCode() int }
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}

// wildcardAddrs are the spellings tools use for "all interfaces".
var wildcardAddrs = map[string]bool{
	"*":       true,
	"0.0.0.0": true,
	"::":      true,
	"[::]":    true,
}

// splitAddr splits "host:port" on the last colon, keeping IPv6 brackets.
func splitAddr(addr string) (host, port string, ok bool) {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return "", "", false
	}
	return addr[:i], addr[i+1:], true
}

// hostMatches applies the qualification rule shared by the Unix parsers:
// the wildcard request needs a wildcard bind, anything else needs the
// bound address to contain the requested host.
func hostMatches(boundHost, wantHost string) bool {
	if wantHost == domain.WildcardHost {
		return wildcardAddrs[boundHost]
	}
	return strings.Contains(boundHost, wantHost)
}

// result assembles a ListeningState from parsed addresses.
func result(tool string, matched bool, addrs []string) domain.ListeningState {
	state := domain.ListeningState{
		Outcome:   domain.ProbeNotListening,
		Addresses: addrs,
		Tool:      tool,
	}
	if matched {
		state.Outcome = domain.ProbeListening
	}
	return state
}

func portSuffix(port int) string {
	return ":" + strconv.Itoa(port)
}

// HostPort joins host and port the way Windows netstat prints them.
func HostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
