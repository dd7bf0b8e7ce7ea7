package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("expected JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("expected YAMLFormatter")
	}
	if _, ok := NewFormatter("unknown").(*TableFormatter); !ok {
		t.Error("expected TableFormatter as default")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	data := struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}{Name: "test", Value: 42}

	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"name": "test"`) {
		t.Errorf("Format() missing name field: %s", out)
	}
	if !strings.Contains(out, `"value": 42`) {
		t.Errorf("Format() missing value field: %s", out)
	}
}

func TestYAMLFormatter_Format(t *testing.T) {
	data := struct {
		Host string   `yaml:"host"`
		Port int      `yaml:"port"`
		Tags []string `yaml:"tags"`
	}{Host: "0.0.0.0", Port: 11434, Tags: []string{"a"}}

	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "host: 0.0.0.0\nport: 11434\ntags:\n  - a\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}
