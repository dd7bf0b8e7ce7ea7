package configfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// readOptional returns the file content, or "" when it does not exist.
func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// splitLines splits content into lines that keep their trailing "\n".
// A final line without a newline is returned as-is.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// terminate makes sure the last line ends with a newline so appended
// lines never merge into it.
func terminate(lines []string) []string {
	if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
		lines[n-1] += "\n"
	}
	return lines
}

// writeIfChanged writes content to path unless the file already holds
// exactly that content. The parent directory is created when missing.
func writeIfChanged(path, old, content string) (bool, error) {
	if content == old {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
