// Package discovery finds reachable Ollama daemons on the local network.
//
// Two sources are combined: a fixed list of candidate hosts probed over
// HTTP, and an mDNS browse for daemons advertising _ollama._tcp.
package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"golang.org/x/time/rate"

	"github.com/yndnr/lanbind/internal/ollama/health"
	"github.com/yndnr/lanbind/internal/telemetry/logger"
)

// ServiceType is the DNS-SD service type browsed for daemons.
const ServiceType = "_ollama._tcp"

// Defaults for a scan.
const (
	DefaultTimeout     = 2 * time.Second
	DefaultRate        = 10 // probes per second
	DefaultBrowseAfter = 3 * time.Second
)

// commonHosts are addresses Ollama is often found on: loopback, typical
// home-router DHCP leases and the Android emulator's view of the host.
var commonHosts = []string{
	"localhost",
	"127.0.0.1",
	"192.168.1.100",
	"192.168.1.101",
	"192.168.1.102",
	"192.168.31.228",
	"192.168.0.100",
	"192.168.0.101",
	"10.0.2.2",
}

// Candidates returns the hosts to probe, in order and without duplicates.
// extra hosts (the outbound IP, the configured target) follow loopback.
func Candidates(extra ...string) []string {
	seen := make(map[string]struct{}, len(commonHosts)+len(extra))
	var out []string
	add := func(h string) {
		if h == "" {
			return
		}
		if _, ok := seen[h]; ok {
			return
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}

	add(commonHosts[0])
	add(commonHosts[1])
	for _, h := range extra {
		add(h)
	}
	for _, h := range commonHosts[2:] {
		add(h)
	}
	return out
}

// Checker is the reachability check used by Scan.
type Checker interface {
	Check(ctx context.Context, host string, port int) health.Result
}

// Host is one discovered daemon.
type Host struct {
	Host      string        `json:"host" yaml:"host"`
	Port      int           `json:"port" yaml:"port"`
	Source    string        `json:"source" yaml:"source"`
	Reachable bool          `json:"reachable" yaml:"reachable"`
	Latency   time.Duration `json:"latency" yaml:"latency"`
	Name      string        `json:"name,omitempty" yaml:"name,omitempty"`
}

// Sources of a discovered host.
const (
	SourceProbe = "probe"
	SourceMDNS  = "mdns"
)

// Scanner probes candidate hosts at a bounded rate.
type Scanner struct {
	checker Checker
	limiter *rate.Limiter
	log     logger.Logger
}

// NewScanner creates a scanner issuing at most perSecond probes per second.
func NewScanner(checker Checker, perSecond int, log logger.Logger) *Scanner {
	if perSecond <= 0 {
		perSecond = DefaultRate
	}
	if log == nil {
		log = logger.Default()
	}
	return &Scanner{
		checker: checker,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		log:     log,
	}
}

// Scan probes every host on port and returns one entry per host, in the
// order given. It stops early, returning what it has, when ctx is done.
func (s *Scanner) Scan(ctx context.Context, hosts []string, port int) []Host {
	results := make([]Host, 0, len(hosts))
	for _, h := range hosts {
		if err := s.limiter.Wait(ctx); err != nil {
			s.log.Debug("scan interrupted", "error", err)
			break
		}

		res := s.checker.Check(ctx, h, port)
		s.log.Debug("probed candidate",
			"host", h,
			"reachable", res.Reachable,
			"latency", res.Latency.String(),
		)
		results = append(results, Host{
			Host:      h,
			Port:      port,
			Source:    SourceProbe,
			Reachable: res.Reachable,
			Latency:   res.Latency,
		})
	}
	return results
}

// Browse collects mDNS advertisements for ServiceType until ctx is done.
func Browse(ctx context.Context) ([]Host, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("mdns resolver: %w", err)
	}

	var (
		hosts []Host
		mu    sync.Mutex
		wg    sync.WaitGroup
	)
	entries := make(chan *zeroconf.ServiceEntry)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for entry := range entries {
			h := fromEntry(entry)
			if h.Host == "" {
				continue
			}
			mu.Lock()
			hosts = append(hosts, h)
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, "local.", entries); err != nil {
		return nil, fmt.Errorf("mdns browse: %w", err)
	}

	// The resolver closes entries once ctx is done.
	<-ctx.Done()
	wg.Wait()

	return hosts, nil
}

// fromEntry converts an advertisement, preferring IPv4.
func fromEntry(entry *zeroconf.ServiceEntry) Host {
	h := Host{
		Name:      entry.Instance,
		Port:      entry.Port,
		Source:    SourceMDNS,
		Reachable: true,
	}
	switch {
	case len(entry.AddrIPv4) > 0:
		h.Host = entry.AddrIPv4[0].String()
	case len(entry.AddrIPv6) > 0:
		h.Host = entry.AddrIPv6[0].String()
	}
	return h
}

// Reachable filters hosts down to the reachable ones.
func Reachable(hosts []Host) []Host {
	var out []Host
	for _, h := range hosts {
		if h.Reachable {
			out = append(out, h)
		}
	}
	return out
}
