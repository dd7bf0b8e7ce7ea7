package portprobe

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/yndnr/lanbind/internal/core/domain"
)

// UnixProbe queries lsof, or ss when lsof is not installed or sees no
// listener. An unprivileged lsof hides sockets owned by other users, which
// ss still lists.
type UnixProbe struct {
	opts options
}

// NewUnixProbe creates a prober for Unix-like systems.
func NewUnixProbe(opts ...Option) *UnixProbe {
	return &UnixProbe{opts: buildOptions(opts)}
}

// Probe implements Prober.
func (p *UnixProbe) Probe(ctx context.Context, port int, host string) domain.ListeningState {
	ctx, cancel := context.WithTimeout(ctx, p.opts.timeout)
	defer cancel()

	out, err := p.opts.run(ctx, "lsof", "-i", portSuffix(port), "-n", "-P")
	switch {
	case err == nil:
		matched, addrs := ParseLsof(out, port, host)
		if len(addrs) == 0 {
			return p.confirmWithSS(ctx, port, host)
		}
		return result("lsof", matched, addrs)
	case toolMissing(err):
		p.opts.log.Debug("lsof not installed, trying ss")
		return p.probeSS(ctx, port, host)
	case exitCode(err) == 1 && len(bytes.TrimSpace(out)) == 0:
		// lsof exits 1 when nothing matched the filter.
		return p.confirmWithSS(ctx, port, host)
	default:
		p.opts.log.Warn("port probe failed", "tool", "lsof", "port", port, "error", err)
		return domain.Inconclusive("lsof", err)
	}
}

// confirmWithSS asks ss after lsof saw no listener. When ss is unusable
// the lsof answer stands.
func (p *UnixProbe) confirmWithSS(ctx context.Context, port int, host string) domain.ListeningState {
	state := p.probeSS(ctx, port, host)
	if state.Outcome == domain.ProbeInconclusive {
		return result("lsof", false, nil)
	}
	return state
}

func (p *UnixProbe) probeSS(ctx context.Context, port int, host string) domain.ListeningState {
	out, err := p.opts.run(ctx, "ss", "-ltnH", "sport", "=", portSuffix(port))
	if err != nil {
		if toolMissing(err) {
			p.opts.log.Debug("ss not installed, no socket table available")
		} else {
			p.opts.log.Warn("port probe failed", "tool", "ss", "port", port, "error", err)
		}
		return domain.Inconclusive("ss", err)
	}
	matched, addrs := ParseSS(out, port, host)
	return result("ss", matched, addrs)
}

// ParseLsof scans `lsof -i :PORT -n -P` output for LISTEN sockets on port.
//
// addrs lists every local address listening on the port; matched reports
// whether one of them qualifies for host.
//
//	ollama  4242 me  3u  IPv4 0x1  0t0  TCP *:11434 (LISTEN)
func ParseLsof(out []byte, port int, host string) (matched bool, addrs []string) {
	want := strconv.Itoa(port)

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, "(LISTEN)") {
			continue
		}
		fields := strings.Fields(line)
		// NAME is the field right before the state.
		var name string
		for i, f := range fields {
			if f == "(LISTEN)" && i > 0 {
				name = fields[i-1]
				break
			}
		}
		local, _, _ := strings.Cut(name, "->")
		boundHost, boundPort, ok := splitAddr(local)
		if !ok || boundPort != want {
			continue
		}
		addrs = append(addrs, local)
		if hostMatches(boundHost, host) {
			matched = true
		}
	}
	return matched, addrs
}

// ParseSS scans `ss -ltnH` output. The fourth column is the local address.
//
//	LISTEN 0      4096         *:11434      *:*
func ParseSS(out []byte, port int, host string) (matched bool, addrs []string) {
	want := strconv.Itoa(port)

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 5 || fields[0] != "LISTEN" {
			continue
		}
		local := fields[3]
		boundHost, boundPort, ok := splitAddr(local)
		if !ok || boundPort != want {
			continue
		}
		// ss may suffix the host with %iface.
		boundHost, _, _ = strings.Cut(boundHost, "%")
		addrs = append(addrs, local)
		if hostMatches(boundHost, host) {
			matched = true
		}
	}
	return matched, addrs
}
