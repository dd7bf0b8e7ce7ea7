package domain

import (
	"strconv"
)

// Binding defaults, applied before OLLAMA_HOST / OLLAMA_PORT overrides.
const (
	WildcardHost        = "0.0.0.0"
	DefaultPort         = 11434
	DefaultOriginPolicy = "*"
)

// Managed environment keys. These are the only keys lanbind writes to the
// environment file, the shell profile and the daemon's process environment.
const (
	EnvHost    = "OLLAMA_HOST"
	EnvPort    = "OLLAMA_PORT"
	EnvOrigins = "OLLAMA_ORIGINS"
)

// DesiredBinding is the address the daemon should listen on.
//
// It is built once at process entry and passed by value; components never
// re-read the environment to discover it.
type DesiredBinding struct {
	Host         string `json:"host" yaml:"host"`
	Port         int    `json:"port" yaml:"port"`
	OriginPolicy string `json:"origin_policy" yaml:"origin_policy"`
}

// NewDesiredBinding returns a binding with empty fields replaced by defaults.
func NewDesiredBinding(host string, port int, originPolicy string) DesiredBinding {
	if host == "" {
		host = WildcardHost
	}
	if port == 0 {
		port = DefaultPort
	}
	if originPolicy == "" {
		originPolicy = DefaultOriginPolicy
	}
	return DesiredBinding{Host: host, Port: port, OriginPolicy: originPolicy}
}

// IsWildcard reports whether the binding targets all local interfaces.
func (b DesiredBinding) IsWildcard() bool {
	return b.Host == WildcardHost
}

// PortString returns the port as used in commands and env files.
func (b DesiredBinding) PortString() string {
	return strconv.Itoa(b.Port)
}

// Address returns "host:port" exactly as written into the listen directive.
//
// The host is not bracketed: the directive and OLLAMA_HOST both carry the
// raw host text.
func (b DesiredBinding) Address() string {
	return b.Host + ":" + b.PortString()
}

// Environment returns the managed KEY=VALUE pairs in their canonical order.
func (b DesiredBinding) Environment() []EnvVar {
	return []EnvVar{
		{Key: EnvHost, Value: b.Host},
		{Key: EnvPort, Value: b.PortString()},
		{Key: EnvOrigins, Value: b.OriginPolicy},
	}
}

// EnvVar is one managed environment entry.
type EnvVar struct {
	Key   string
	Value string
}

// String renders the pair as KEY=VALUE.
func (e EnvVar) String() string {
	return e.Key + "=" + e.Value
}
