package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/yndnr/lanbind/internal/infra/confloader"
)

// DefaultFilePath is read when no --config flag is given, if it exists.
const DefaultFilePath = "~/.lanbind/config.yaml"

// Load builds the effective tool configuration.
//
// Priority: flags > LANBIND_* env > YAML file > defaults. An explicit
// configFile must exist; the default file is optional. flags uses dotted
// keys such as "reconcile.poll_attempts".
func Load(configFile string, flags map[string]any) (*Config, error) {
	cfg := Default()

	path, err := resolveFile(configFile)
	if err != nil {
		return nil, err
	}

	opts := []confloader.Option{}
	if path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	loader := confloader.NewLoader(opts...)

	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if len(flags) > 0 {
		if err := loader.LoadMap(flags); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal flags: %w", err)
		}
	}

	if err := ExpandPaths(cfg); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func resolveFile(configFile string) (string, error) {
	if configFile != "" {
		path, err := ExpandHome(configFile)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return path, nil
	}

	path, err := ExpandHome(DefaultFilePath)
	if err != nil {
		// No home directory: run on defaults.
		return "", nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("config file: %w", err)
	}
	return path, nil
}
