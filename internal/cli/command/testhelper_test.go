package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/lanbind/internal/core/domain"
	"github.com/yndnr/lanbind/internal/netutil"
	"github.com/yndnr/lanbind/internal/ollama/health"
)

// isolate points HOME at a temp dir and clears the binding variables so
// commands never touch the real user's files or environment.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range []string{domain.EnvHost, domain.EnvPort, domain.EnvOrigins, "LANBIND_CONFIG"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

// ollamaDir is where the default config puts the daemon files under home.
func ollamaDir(home string) string {
	return filepath.Join(home, ".ollama")
}

// result captures one CLI invocation.
type result struct {
	stdout string
	stderr string
	err    error
}

// runApp runs the full application with args (without the program name).
// Exit errors are returned instead of terminating the test binary.
func runApp(t *testing.T, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer

	app := App()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"lanbind", "--log-level", "error"}, args...))
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

// exitCode extracts the status of a cli.Exit error, 0 for nil.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if ec, ok := err.(cli.ExitCoder); ok {
		return ec.ExitCode()
	}
	return 1
}

type fakeProber struct {
	state domain.ListeningState
	calls int
}

func (p *fakeProber) Probe(context.Context, int, string) domain.ListeningState {
	p.calls++
	return p.state
}

type fakeChecker struct {
	reachable map[string]bool
	version   string
	hosts     []string
}

func (c *fakeChecker) Check(_ context.Context, host string, port int) health.Result {
	c.hosts = append(c.hosts, host)
	return health.Result{URL: health.BaseURL(host, port) + health.DefaultPath, Reachable: c.reachable[host]}
}

func (c *fakeChecker) Version(context.Context, string, int) (string, error) {
	if c.version == "" {
		return "", os.ErrNotExist
	}
	return c.version, nil
}

func staticInterfaces(ifs ...netutil.Interface) func() ([]netutil.Interface, error) {
	return func() ([]netutil.Interface, error) { return ifs, nil }
}

func staticFirewall(s netutil.FirewallState) func(context.Context) netutil.FirewallState {
	return func(context.Context) netutil.FirewallState { return s }
}
