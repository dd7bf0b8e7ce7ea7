package configfile

import (
	"strings"

	"github.com/yndnr/lanbind/internal/core/domain"
)

// managedExport reports whether line exports one of the managed keys.
func managedExport(line string) bool {
	s := strings.TrimSpace(line)
	for _, key := range []string{domain.EnvHost, domain.EnvPort, domain.EnvOrigins} {
		if strings.HasPrefix(s, "export "+key+"=") {
			return true
		}
	}
	return false
}

// RewriteProfile drops earlier managed exports from content and appends
// fresh ones. Unmanaged lines keep their text and order.
func RewriteProfile(content string, b domain.DesiredBinding) string {
	var kept []string
	for _, line := range splitLines(content) {
		if !managedExport(line) {
			kept = append(kept, line)
		}
	}
	kept = append(terminate(kept), ExportLines(b)...)
	return strings.Join(kept, "")
}

// PersistProfile updates the shell profile at path with the managed exports.
func PersistProfile(path string, b domain.DesiredBinding) (changed bool, err error) {
	if path == "" {
		return false, domain.ErrProfileWrite.WithDetails("no shell profile configured for this platform")
	}

	old, err := readOptional(path)
	if err != nil {
		return false, domain.ErrProfileWrite.WithDetails(path).Wrap(err)
	}

	changed, err = writeIfChanged(path, old, RewriteProfile(old, b))
	if err != nil {
		return false, domain.ErrProfileWrite.WithDetails(path).Wrap(err)
	}
	return changed, nil
}
