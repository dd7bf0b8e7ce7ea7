package config

import (
	"fmt"

	"github.com/yndnr/lanbind/internal/core/domain"
	"github.com/yndnr/lanbind/internal/infra/confloader"
)

// BindingEnvPrefix is the prefix of the variables the daemon itself reads.
const BindingEnvPrefix = "OLLAMA_"

// bindingSource mirrors the subset of OLLAMA_* variables that select the
// listen address. OLLAMA_ORIGINS is intentionally absent: the origin policy
// comes from tool configuration.
type bindingSource struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// LoadBinding builds the DesiredBinding once for the whole run.
//
// Priority: overrides (CLI flags) > OLLAMA_HOST / OLLAMA_PORT > defaults.
// Empty or zero override values are ignored.
func LoadBinding(cfg *Config, hostOverride string, portOverride int) (domain.DesiredBinding, error) {
	src := bindingSource{Host: domain.WildcardHost, Port: domain.DefaultPort}

	loader := confloader.NewLoader(confloader.WithEnvPrefix(BindingEnvPrefix))
	if err := loader.LoadEnv(); err != nil {
		return domain.DesiredBinding{}, err
	}

	overrides := map[string]any{}
	if hostOverride != "" {
		overrides["host"] = hostOverride
	}
	if portOverride != 0 {
		overrides["port"] = portOverride
	}
	if err := loader.LoadMap(overrides); err != nil {
		return domain.DesiredBinding{}, err
	}

	if err := loader.Unmarshal(&src); err != nil {
		return domain.DesiredBinding{}, fmt.Errorf("decode %s/%s: %w", domain.EnvHost, domain.EnvPort, err)
	}
	if src.Port == 0 {
		src.Port = domain.DefaultPort
	}
	if src.Port < 0 || src.Port > 65535 {
		return domain.DesiredBinding{}, domain.ErrInvalidSettings.WithDetails(fmt.Sprintf("port %d out of range", src.Port))
	}

	return domain.NewDesiredBinding(src.Host, src.Port, cfg.Ollama.OriginPolicy), nil
}
