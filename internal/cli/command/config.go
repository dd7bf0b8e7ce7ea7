package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/lanbind/internal/cli/output"
	"github.com/yndnr/lanbind/internal/config"
	"github.com/yndnr/lanbind/internal/infra/buildinfo"
	"github.com/yndnr/lanbind/internal/ollama/configfile"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Tool configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:   "binding",
				Usage:  "Show the binding that ensure would apply",
				Action: configBinding,
			},
			{
				Name:   "version",
				Usage:  "Show build information",
				Action: configVersion,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg, _, err := setup(c)
	if err != nil {
		return err
	}

	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	// A nested struct has no table form.
	if flags.Output == output.FormatTable {
		return (&output.YAMLFormatter{}).Format(writer(c), cfg)
	}
	return render(c, cfg)
}

func configBinding(c *cli.Context) error {
	cfg, _, err := setup(c)
	if err != nil {
		return err
	}

	b, err := config.LoadBinding(cfg, "", 0)
	if err != nil {
		return err
	}

	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	if flags.Output != output.FormatTable {
		return render(c, b)
	}

	w := writer(c)
	fmt.Fprintln(w, configfile.Directive(b))
	for _, v := range b.Environment() {
		fmt.Fprintln(w, v.String())
	}
	return nil
}

func configVersion(c *cli.Context) error {
	return render(c, []buildinfo.Info{buildinfo.Get()})
}
