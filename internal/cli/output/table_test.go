package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type row struct {
	Host      string        `json:"host"`
	Listening bool          `json:"listening"`
	Latency   time.Duration `json:"latency"`
	Secret    string        `json:"secret" table:"-"`
}

type summary struct{ state string }

func (s summary) Table() *Table {
	t := &Table{}
	t.SetHeaders("STATE")
	t.AddRow(s.state)
	return t
}

func TestTable_Render(t *testing.T) {
	tbl := &Table{}
	tbl.SetHeaders("NAME", "VALUE")
	tbl.AddRow("host", "0.0.0.0")
	tbl.AddRow("port", "11434")

	var buf bytes.Buffer
	if err := tbl.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Render() produced %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "NAME") || !strings.Contains(lines[0], "VALUE") {
		t.Errorf("header line = %q", lines[0])
	}
	// Columns are aligned by tabwriter.
	if strings.Index(lines[1], "0.0.0.0") != strings.Index(lines[2], "11434") {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestTableFormatter_NoHeaders(t *testing.T) {
	tbl := &Table{Headers: []string{"A"}, Rows: [][]string{{"x"}}}

	var buf bytes.Buffer
	if err := (&TableFormatter{NoHeaders: true}).Format(&buf, tbl); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "x" {
		t.Errorf("Format() = %q, want %q", got, "x")
	}
}

func TestTableFormatter_Tabler(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, summary{state: "converged"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "converged") {
		t.Errorf("Format() = %q, want it to contain state", buf.String())
	}
}

func TestTableFormatter_SliceOfStructs(t *testing.T) {
	data := []row{
		{Host: "localhost", Listening: true, Latency: 1500 * time.Microsecond, Secret: "s"},
		{Host: "10.0.2.2", Listening: false},
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"HOST", "LISTENING", "LATENCY", "localhost", "yes", "no", "2ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "SECRET") {
		t.Errorf("table:\"-\" field should be hidden:\n%s", out)
	}
}

func TestTableFormatter_FallbackToYAML(t *testing.T) {
	data := map[string]int{"port": 11434}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := buf.String(); got != "port: 11434\n" {
		t.Errorf("Format() = %q, want YAML fallback", got)
	}
}

func TestFormatValue_Empty(t *testing.T) {
	var buf bytes.Buffer
	data := []row{{}}
	if err := (&TableFormatter{NoHeaders: true}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "-") {
		t.Errorf("empty string should render as '-', got %q", buf.String())
	}
}
