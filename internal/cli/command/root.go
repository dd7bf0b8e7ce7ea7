// Package command provides CLI command definitions for lanbind.
package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/lanbind/internal/cli/output"
	"github.com/yndnr/lanbind/internal/config"
	"github.com/yndnr/lanbind/internal/infra/buildinfo"
	"github.com/yndnr/lanbind/internal/telemetry/logger"
)

const (
	metaConfig = "config"
	metaLogger = "logger"
)

// App creates the CLI application. Without a subcommand it runs ensure.
func App() *cli.App {
	app := &cli.App{
		Name:    "lanbind",
		Usage:   "Keep the local Ollama daemon listening on the LAN",
		Version: buildinfo.String(),
		Flags:   append(globalFlags(), ensureFlags()...),
		Commands: []*cli.Command{
			EnsureCommand(),
			StatusCommand(),
			DiscoverCommand(),
			WatchCommand(),
			ConfigCommand(),
		},
		Action: ensureAction,
		Before: func(c *cli.Context) error {
			_, _, err := setup(c)
			return err
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Tool configuration file (default " + config.DefaultFilePath + " if present)",
			EnvVars: []string{"LANBIND_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config    string
	LogLevel  string
	LogFormat string
	Output    output.Format
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}
	return &GlobalFlags{
		Config:    c.String("config"),
		LogLevel:  c.String("log-level"),
		LogFormat: c.String("log-format"),
		Output:    format,
	}, nil
}

// configOverrides maps flags that were set explicitly onto config keys.
func configOverrides(c *cli.Context) map[string]any {
	overrides := map[string]any{}
	if v := c.String("log-level"); v != "" {
		overrides["log.level"] = v
	}
	if v := c.String("log-format"); v != "" {
		overrides["log.format"] = v
	}
	return overrides
}

// setup loads the configuration and logger once per invocation and caches
// them in the app metadata.
func setup(c *cli.Context) (*config.Config, logger.Logger, error) {
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	if cfg, ok := c.App.Metadata[metaConfig].(*config.Config); ok {
		log, _ := c.App.Metadata[metaLogger].(logger.Logger)
		return cfg, log, nil
	}

	cfg, err := config.Load(c.String("config"), configOverrides(c))
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	logger.SetDefault(log)

	c.App.Metadata[metaConfig] = cfg
	c.App.Metadata[metaLogger] = log
	return cfg, log, nil
}

// writer returns the destination for command results.
func writer(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

// render writes data in the selected output format.
func render(c *cli.Context, data any) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	return output.NewFormatter(flags.Output).Format(writer(c), data)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
