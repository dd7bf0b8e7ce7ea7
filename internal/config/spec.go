package config

import "time"

// Config is the root configuration for lanbind.
type Config struct {
	Ollama    OllamaSection    `koanf:"ollama" json:"ollama" yaml:"ollama"`
	Reconcile ReconcileSection `koanf:"reconcile" json:"reconcile" yaml:"reconcile"`
	Log       LogSection       `koanf:"log" json:"log" yaml:"log"`
	Metrics   MetricsSection   `koanf:"metrics" json:"metrics" yaml:"metrics"`
}

// OllamaSection describes the managed daemon and its files.
type OllamaSection struct {
	// Binary is the daemon executable; "serve" is appended when starting it.
	Binary string `koanf:"binary" json:"binary" yaml:"binary"`

	// ProcessName is matched exactly by the platform kill command.
	ProcessName string `koanf:"process_name" json:"process_name" yaml:"process_name"`

	// ConfigPath is the daemon's persisted config holding the listen directive.
	ConfigPath string `koanf:"config_path" json:"config_path" yaml:"config_path"`

	// EnvPath is the regenerated file of exported OLLAMA_* variables.
	EnvPath string `koanf:"env_path" json:"env_path" yaml:"env_path"`

	// ProfilePath is the shell profile updated by --persist-profile.
	// Empty disables profile persistence on this platform.
	ProfilePath string `koanf:"profile_path" json:"profile_path" yaml:"profile_path"`

	// ServeLog receives the daemon's stdout/stderr. Empty discards it.
	ServeLog string `koanf:"serve_log" json:"serve_log" yaml:"serve_log"`

	// TargetIP is an extra post-convergence reachability check.
	TargetIP string `koanf:"target_ip" json:"target_ip" yaml:"target_ip"`

	// OriginPolicy is exported as OLLAMA_ORIGINS.
	OriginPolicy string `koanf:"origin_policy" json:"origin_policy" yaml:"origin_policy"`

	// HealthPath is requested by connectivity checks.
	HealthPath string `koanf:"health_path" json:"health_path" yaml:"health_path"`
}

// ReconcileSection configures restart and polling.
type ReconcileSection struct {
	PollAttempts int           `koanf:"poll_attempts" json:"poll_attempts" yaml:"poll_attempts"`
	PollInterval time.Duration `koanf:"poll_interval" json:"poll_interval" yaml:"poll_interval"`
	SettleDelay  time.Duration `koanf:"settle_delay" json:"settle_delay" yaml:"settle_delay"`
	ProbeTimeout time.Duration `koanf:"probe_timeout" json:"probe_timeout" yaml:"probe_timeout"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" json:"level" yaml:"level"`
	Format string `koanf:"format" json:"format" yaml:"format"`
}

// MetricsSection configures the run metrics textfile.
type MetricsSection struct {
	// Textfile is written in Prometheus text format after every run.
	Textfile string `koanf:"textfile" json:"textfile" yaml:"textfile"`
}
