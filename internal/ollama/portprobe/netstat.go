package portprobe

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/yndnr/lanbind/internal/core/domain"
)

// NetstatProbe queries `netstat -ano`, the Windows connection table.
type NetstatProbe struct {
	opts options
}

// NewNetstatProbe creates a prober for Windows.
func NewNetstatProbe(opts ...Option) *NetstatProbe {
	return &NetstatProbe{opts: buildOptions(opts)}
}

// Probe implements Prober.
func (p *NetstatProbe) Probe(ctx context.Context, port int, host string) domain.ListeningState {
	ctx, cancel := context.WithTimeout(ctx, p.opts.timeout)
	defer cancel()

	out, err := p.opts.run(ctx, "netstat", "-ano")
	if err != nil {
		if toolMissing(err) {
			p.opts.log.Debug("netstat not installed")
		} else {
			p.opts.log.Warn("port probe failed", "tool", "netstat", "port", port, "error", err)
		}
		return domain.Inconclusive("netstat", err)
	}

	matched, addrs := ParseNetstat(out, port, host)
	return result("netstat", matched, addrs)
}

// ParseNetstat scans `netstat -ano` output. A line qualifies when it
// contains the literal host:port pair and the LISTENING state.
//
//	TCP    0.0.0.0:11434    0.0.0.0:0    LISTENING    1234
func ParseNetstat(out []byte, port int, host string) (matched bool, addrs []string) {
	pair := HostPort(host, port)
	suffix := portSuffix(port)

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, "LISTENING") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.HasSuffix(fields[1], suffix) {
			continue
		}
		addrs = append(addrs, fields[1])
		if strings.Contains(line, pair) {
			matched = true
		}
	}
	return matched, addrs
}
