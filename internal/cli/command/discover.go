package command

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/lanbind/internal/config"
	"github.com/yndnr/lanbind/internal/netutil"
	"github.com/yndnr/lanbind/internal/ollama/discovery"
	"github.com/yndnr/lanbind/internal/ollama/health"
)

// DiscoverCommand returns the discover command.
func DiscoverCommand() *cli.Command {
	return &cli.Command{
		Name:  "discover",
		Usage: "Look for reachable Ollama daemons on common LAN addresses and via mDNS",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to probe (defaults to the effective binding port)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-host request timeout",
				Value: discovery.DefaultTimeout,
			},
			&cli.IntFlag{
				Name:  "rate",
				Usage: "Maximum probes per second",
				Value: discovery.DefaultRate,
			},
			&cli.DurationFlag{
				Name:  "mdns",
				Usage: "How long to browse for mDNS advertisements, 0 disables it",
				Value: discovery.DefaultBrowseAfter,
			},
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "Also list candidates that did not answer",
			},
		},
		Action: discoverAction,
	}
}

func discoverAction(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}

	b, err := config.LoadBinding(cfg, "", c.Int("port"))
	if err != nil {
		return err
	}

	outbound, _ := netutil.OutboundIP()
	candidates := discovery.Candidates(outbound, cfg.Ollama.TargetIP)

	scanner := discovery.NewScanner(
		health.NewChecker(cfg.Ollama.HealthPath, c.Duration("timeout")),
		c.Int("rate"),
		log,
	)

	var browsed []discovery.Host
	done := make(chan struct{})
	if window := c.Duration("mdns"); window > 0 {
		go func() {
			defer close(done)
			ctx, cancel := context.WithTimeout(c.Context, window)
			defer cancel()

			hosts, err := discovery.Browse(ctx)
			if err != nil {
				log.Warn("mdns browse failed", "error", err)
				return
			}
			browsed = hosts
		}()
	} else {
		close(done)
	}

	start := time.Now()
	hosts := scanner.Scan(c.Context, candidates, b.Port)
	<-done
	hosts = append(hosts, browsed...)

	log.Info("discovery finished",
		"candidates", len(candidates),
		"mdns", len(browsed),
		"reachable", len(discovery.Reachable(hosts)),
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)

	if !c.Bool("all") {
		hosts = discovery.Reachable(hosts)
	}
	if len(hosts) == 0 {
		return cli.Exit("no ollama daemon found", 1)
	}
	return render(c, hosts)
}
