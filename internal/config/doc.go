// Package config provides lanbind's own configuration.
//
// This package defines the tool configuration structure and validation:
//
//   - spec.go: Config struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation and home-directory expansion
//   - load.go: Layered loading of the tool configuration
//   - binding.go: Loading the DesiredBinding from OLLAMA_* variables
//
// Configuration is loaded via internal/infra/confloader and supports
// a YAML file, LANBIND_* environment variables and CLI flags.
package config
