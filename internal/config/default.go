package config

import (
	"runtime"
	"time"
)

// Default configuration values.
const (
	DefaultBinary      = "ollama"
	DefaultProcessName = "ollama"
	DefaultConfigPath  = "~/.ollama/config"
	DefaultEnvPath     = "~/.ollama/environment"
	DefaultServeLog    = "~/.ollama/lanbind-serve.log"
	DefaultTargetIP    = "192.168.31.228"
	DefaultHealthPath  = "/api/tags"
	DefaultOrigins     = "*"

	DefaultPollAttempts = 15
	DefaultPollInterval = 1 * time.Second
	DefaultSettleDelay  = 2 * time.Second
	DefaultProbeTimeout = 5 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Ollama: OllamaSection{
			Binary:       DefaultBinary,
			ProcessName:  DefaultProcessName,
			ConfigPath:   DefaultConfigPath,
			EnvPath:      DefaultEnvPath,
			ProfilePath:  DefaultProfilePath(runtime.GOOS),
			ServeLog:     DefaultServeLog,
			TargetIP:     DefaultTargetIP,
			OriginPolicy: DefaultOrigins,
			HealthPath:   DefaultHealthPath,
		},
		Reconcile: ReconcileSection{
			PollAttempts: DefaultPollAttempts,
			PollInterval: DefaultPollInterval,
			SettleDelay:  DefaultSettleDelay,
			ProbeTimeout: DefaultProbeTimeout,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultProfilePath returns the interactive shell profile for goos.
func DefaultProfilePath(goos string) string {
	switch goos {
	case "darwin":
		return "~/.zshrc"
	case "linux":
		return "~/.bashrc"
	default:
		return ""
	}
}
