package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBar_Update(t *testing.T) {
	buf := &bytes.Buffer{}
	bar := NewProgressBar(buf, "waiting", 15)

	bar.Update(3)

	out := buf.String()
	if !strings.Contains(out, "waiting") {
		t.Error("output should contain title")
	}
	if !strings.Contains(out, "3/15") {
		t.Errorf("output should contain step count, got %q", out)
	}
}

func TestProgressBar_Clamp(t *testing.T) {
	buf := &bytes.Buffer{}
	bar := NewProgressBar(buf, "waiting", 2)

	bar.Update(5)
	if !strings.Contains(buf.String(), "2/2") {
		t.Errorf("current should clamp to total, got %q", buf.String())
	}
}

func TestProgressBar_Finish(t *testing.T) {
	buf := &bytes.Buffer{}
	bar := NewProgressBar(buf, "waiting", 4)

	bar.Update(4)
	bar.Finish("ok")

	if !strings.HasSuffix(buf.String(), " ok\n") {
		t.Errorf("Finish should end the line with status, got %q", buf.String())
	}
}

func TestProgressBar_NoTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	bar := NewProgressBar(buf, "probing", 0)

	bar.Update(7)
	if !strings.Contains(buf.String(), "probing 7") {
		t.Errorf("unbounded bar should print count, got %q", buf.String())
	}
}
