package configfile

import (
	"strings"

	"github.com/yndnr/lanbind/internal/core/domain"
)

// ExportLines renders the managed variables as shell export lines.
func ExportLines(b domain.DesiredBinding) []string {
	env := b.Environment()
	lines := make([]string, 0, len(env))
	for _, kv := range env {
		lines = append(lines, "export "+kv.String()+"\n")
	}
	return lines
}

// WriteEnvFile regenerates the environment file at path. The file is
// replaced, never merged, and always holds exactly the managed exports.
func WriteEnvFile(path string, b domain.DesiredBinding) (changed bool, err error) {
	old, err := readOptional(path)
	if err != nil {
		return false, domain.ErrEnvFileWrite.WithDetails(path).Wrap(err)
	}

	changed, err = writeIfChanged(path, old, strings.Join(ExportLines(b), ""))
	if err != nil {
		return false, domain.ErrEnvFileWrite.WithDetails(path).Wrap(err)
	}
	return changed, nil
}
