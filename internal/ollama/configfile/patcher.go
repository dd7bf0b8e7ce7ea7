package configfile

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/yndnr/lanbind/internal/core/domain"
)

// ListenPrefix identifies the listen directive once leading whitespace is
// trimmed from a line.
const ListenPrefix = "listen ="

// Directive renders the listen line for a binding, without newline.
func Directive(b domain.DesiredBinding) string {
	return fmt.Sprintf("%s %q", ListenPrefix, b.Address())
}

// Patcher keeps the listen directive of one config file in sync.
type Patcher struct {
	path string
}

// NewPatcher creates a patcher for the config file at path.
func NewPatcher(path string) *Patcher {
	return &Patcher{path: path}
}

// Path returns the patched file's path.
func (p *Patcher) Path() string {
	return p.path
}

// Patch ensures the file holds exactly one listen directive for b.
//
// The first matching line is replaced in place and later ones are dropped;
// without one, the directive is appended. Every other line is preserved
// byte for byte. changed is
// false when the file already had the desired content and was not written.
func (p *Patcher) Patch(b domain.DesiredBinding) (changed bool, err error) {
	old, err := readOptional(p.path)
	if err != nil {
		return false, domain.ErrConfigWrite.WithDetails(p.path).Wrap(err)
	}

	changed, err = writeIfChanged(p.path, old, Rewrite(old, b))
	if err != nil {
		return false, domain.ErrConfigWrite.WithDetails(p.path).Wrap(err)
	}
	return changed, nil
}

// Rewrite returns content with its listen directive set to b.
func Rewrite(content string, b domain.DesiredBinding) string {
	directive := Directive(b) + "\n"

	var (
		out      []string
		replaced bool
	)
	for _, line := range splitLines(content) {
		if !isListenLine(line) {
			out = append(out, line)
			continue
		}
		if !replaced {
			out = append(out, directive)
			replaced = true
		}
	}

	if !replaced {
		out = append(terminate(out), directive)
	}
	return strings.Join(out, "")
}

// ReadListen returns the current listen value, e.g. "0.0.0.0:11434".
//
// The file is decoded as TOML when it parses; otherwise the first line
// carrying the directive prefix is used. found is false when the file or
// the directive is absent.
func (p *Patcher) ReadListen() (value string, found bool, err error) {
	content, err := readOptional(p.path)
	if err != nil {
		return "", false, domain.ErrConfigRead.WithDetails(p.path).Wrap(err)
	}

	var doc struct {
		Listen *string `toml:"listen"`
	}
	if _, err := toml.Decode(content, &doc); err == nil {
		if doc.Listen == nil {
			return "", false, nil
		}
		return *doc.Listen, true, nil
	}

	for _, line := range splitLines(content) {
		if isListenLine(line) {
			v := strings.TrimSpace(line)
			v = strings.TrimSpace(strings.TrimPrefix(v, ListenPrefix))
			return strings.Trim(v, `"'`), true, nil
		}
	}
	return "", false, nil
}

func isListenLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), ListenPrefix)
}
