package configfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yndnr/lanbind/internal/core/domain"
)

func TestRewriteProfile(t *testing.T) {
	b := domain.NewDesiredBinding("0.0.0.0", 11434, "*")
	managed := "export OLLAMA_HOST=0.0.0.0\nexport OLLAMA_PORT=11434\nexport OLLAMA_ORIGINS=*\n"

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "empty profile",
			content: "",
			want:    managed,
		},
		{
			name:    "unmanaged lines kept in order",
			content: "alias ll='ls -l'\nexport PATH=$HOME/bin:$PATH\n",
			want:    "alias ll='ls -l'\nexport PATH=$HOME/bin:$PATH\n" + managed,
		},
		{
			name:    "old managed exports removed",
			content: "export OLLAMA_HOST=127.0.0.1\nalias g=git\n  export OLLAMA_PORT=1\nexport OLLAMA_ORIGINS=x\n",
			want:    "alias g=git\n" + managed,
		},
		{
			name:    "other OLLAMA variables preserved",
			content: "export OLLAMA_MODELS=/data\n",
			want:    "export OLLAMA_MODELS=/data\n" + managed,
		},
		{
			name:    "missing final newline",
			content: "alias g=git",
			want:    "alias g=git\n" + managed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RewriteProfile(tt.content, b)
			if got != tt.want {
				t.Errorf("RewriteProfile() = %q, want %q", got, tt.want)
			}
			if again := RewriteProfile(got, b); again != got {
				t.Errorf("RewriteProfile() not idempotent: %q", again)
			}
		})
	}
}

func TestPersistProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".zshrc")
	if err := os.WriteFile(path, []byte("alias g=git\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	b := domain.NewDesiredBinding("10.0.0.5", 8080, "*")

	changed, err := PersistProfile(path, b)
	if err != nil {
		t.Fatalf("PersistProfile() error = %v", err)
	}
	if !changed {
		t.Error("PersistProfile() should report a change")
	}

	changed, err = PersistProfile(path, b)
	if err != nil {
		t.Fatalf("second PersistProfile() error = %v", err)
	}
	if changed {
		t.Error("second PersistProfile() should be a no-op")
	}

	data, _ := os.ReadFile(path)
	want := "alias g=git\nexport OLLAMA_HOST=10.0.0.5\nexport OLLAMA_PORT=8080\nexport OLLAMA_ORIGINS=*\n"
	if string(data) != want {
		t.Errorf("content = %q, want %q", data, want)
	}
}

func TestPersistProfile_NoPath(t *testing.T) {
	_, err := PersistProfile("", domain.NewDesiredBinding("", 0, ""))
	if !domain.IsDomainError(err, domain.ErrProfileWrite.Code) {
		t.Errorf("PersistProfile(\"\") error = %v, want %s", err, domain.ErrProfileWrite.Code)
	}
}
