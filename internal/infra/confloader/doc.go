// Package confloader provides configuration loading mechanism.
//
// This package implements a configuration loader that supports multiple
// sources using koanf as the underlying library.
//
// Features:
//
//   - Multiple Sources: YAML files, environment variables, flag maps
//   - Prefix Isolation: one loader per environment prefix (LANBIND_, OLLAMA_)
//   - Watch Support: change notifications for individual files
//   - Type Safety: Unmarshaling into typed structs over pre-filled defaults
//
// Priority (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration files
//  4. Default values
package confloader
