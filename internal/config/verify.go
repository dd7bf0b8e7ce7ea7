package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/yndnr/lanbind/internal/core/domain"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyOllama(&cfg.Ollama); err != nil {
		return domain.ErrInvalidSettings.WithDetails(err.Error())
	}
	if err := verifyReconcile(&cfg.Reconcile); err != nil {
		return domain.ErrInvalidSettings.WithDetails(err.Error())
	}
	return nil
}

func verifyOllama(cfg *OllamaSection) error {
	if cfg.Binary == "" {
		return fmt.Errorf("ollama.binary is required")
	}
	if cfg.ProcessName == "" {
		return fmt.Errorf("ollama.process_name is required")
	}
	if cfg.ConfigPath == "" {
		return fmt.Errorf("ollama.config_path is required")
	}
	if cfg.EnvPath == "" {
		return fmt.Errorf("ollama.env_path is required")
	}
	if cfg.TargetIP != "" && net.ParseIP(cfg.TargetIP) == nil {
		return fmt.Errorf("ollama.target_ip %q is not an IP address", cfg.TargetIP)
	}
	if !strings.HasPrefix(cfg.HealthPath, "/") {
		return fmt.Errorf("ollama.health_path must start with /")
	}
	return nil
}

func verifyReconcile(cfg *ReconcileSection) error {
	if cfg.PollAttempts < 1 {
		return fmt.Errorf("reconcile.poll_attempts must be at least 1")
	}
	if cfg.PollInterval < 0 {
		return fmt.Errorf("reconcile.poll_interval must not be negative")
	}
	if cfg.SettleDelay < 0 {
		return fmt.Errorf("reconcile.settle_delay must not be negative")
	}
	if cfg.ProbeTimeout <= 0 {
		return fmt.Errorf("reconcile.probe_timeout must be positive")
	}
	return nil
}

// ExpandPaths replaces a leading "~" in every path setting with the user's
// home directory.
func ExpandPaths(cfg *Config) error {
	paths := []*string{
		&cfg.Ollama.ConfigPath,
		&cfg.Ollama.EnvPath,
		&cfg.Ollama.ProfilePath,
		&cfg.Ollama.ServeLog,
		&cfg.Metrics.Textfile,
	}
	for _, p := range paths {
		expanded, err := ExpandHome(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// ExpandHome expands "~" and "~/..." relative to the current user's home.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
