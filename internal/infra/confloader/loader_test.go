package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Reconcile struct {
		PollAttempts int           `koanf:"poll_attempts"`
		PollInterval time.Duration `koanf:"poll_interval"`
	} `koanf:"reconcile"`
	Ollama struct {
		TargetIP string `koanf:"target_ip"`
		Binary   string `koanf:"binary"`
	} `koanf:"ollama"`
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("OLLAMA_"),
		WithConfigFile("/path/to/lanbind.yaml"),
	)

	if l.envPrefix != "OLLAMA_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "OLLAMA_")
	}
	if l.filePath != "/path/to/lanbind.yaml" {
		t.Errorf("filePath = %q, want %q", l.filePath, "/path/to/lanbind.yaml")
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		prefix string
		name   string
		want   string
	}{
		{"LANBIND_", "LANBIND_RECONCILE_POLL_ATTEMPTS", "reconcile.poll_attempts"},
		{"LANBIND_", "LANBIND_OLLAMA_TARGET_IP", "ollama.target_ip"},
		{"LANBIND_", "LANBIND_LOG_LEVEL", "log.level"},
		{"OLLAMA_", "OLLAMA_HOST", "host"},
		{"OLLAMA_", "OLLAMA_PORT", "port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnvKey(tt.prefix, tt.name); got != tt.want {
				t.Errorf("EnvKey(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
			}
		})
	}
}

func TestLoader_LoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "lanbind.yaml")

	content := `
reconcile:
  poll_attempts: 20
  poll_interval: 500ms
ollama:
  target_ip: "10.0.0.9"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	l := NewLoader()
	if err := l.LoadFile(configPath); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if ip := l.k.String("ollama.target_ip"); ip != "10.0.0.9" {
		t.Errorf("ollama.target_ip = %q, want %q", ip, "10.0.0.9")
	}
	if n := l.k.Int("reconcile.poll_attempts"); n != 20 {
		t.Errorf("reconcile.poll_attempts = %d, want 20", n)
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile("/nonexistent/lanbind.yaml"); err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
}

func TestLoader_LoadFile_Empty(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("LANBIND_RECONCILE_POLL_ATTEMPTS", "7")
	t.Setenv("LANBIND_OLLAMA_TARGET_IP", "192.168.0.50")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if ip := l.k.String("ollama.target_ip"); ip != "192.168.0.50" {
		t.Errorf("ollama.target_ip = %q, want %q", ip, "192.168.0.50")
	}
	if n := l.k.Int("reconcile.poll_attempts"); n != 7 {
		t.Errorf("reconcile.poll_attempts = %d, want 7", n)
	}
}

func TestLoader_LoadEnv_CustomPrefix(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "192.168.1.9")

	l := NewLoader(WithEnvPrefix("OLLAMA_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if host := l.k.String("host"); host != "192.168.1.9" {
		t.Errorf("host = %q, want %q", host, "192.168.1.9")
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()

	if err := l.LoadMap(map[string]any{"log.level": "debug"}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if level := l.k.String("log.level"); level != "debug" {
		t.Errorf("log.level = %q, want %q", level, "debug")
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "lanbind.yaml")

	content := `
ollama:
  binary: "/opt/from-file/ollama"
  target_ip: "10.0.0.1"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("LANBIND_OLLAMA_BINARY", "/opt/from-env/ollama")

	l := NewLoader(WithConfigFile(configPath))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Ollama.Binary != "/opt/from-env/ollama" {
		t.Errorf("Binary = %q, want env value (env should override file)", cfg.Ollama.Binary)
	}
	if cfg.Ollama.TargetIP != "10.0.0.1" {
		t.Errorf("TargetIP = %q, want file value", cfg.Ollama.TargetIP)
	}
}

func TestLoader_Unmarshal_KeepsDefaults(t *testing.T) {
	var cfg testConfig
	cfg.Reconcile.PollAttempts = 15
	cfg.Reconcile.PollInterval = time.Second

	l := NewLoader()
	if err := l.LoadMap(map[string]any{"reconcile.poll_interval": "250ms"}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if cfg.Reconcile.PollAttempts != 15 {
		t.Errorf("PollAttempts = %d, want default 15 preserved", cfg.Reconcile.PollAttempts)
	}
	if cfg.Reconcile.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v, want 250ms", cfg.Reconcile.PollInterval)
	}
}

func TestLoader_LoadMap_DottedKeysUnmarshal(t *testing.T) {
	var cfg testConfig

	l := NewLoader()
	if err := l.LoadMap(map[string]any{"ollama.binary": "/usr/local/bin/ollama"}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if cfg.Ollama.Binary != "/usr/local/bin/ollama" {
		t.Errorf("Binary = %q, want dotted map key to reach nested field", cfg.Ollama.Binary)
	}
}
