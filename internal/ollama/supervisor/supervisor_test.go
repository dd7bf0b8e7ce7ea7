package supervisor

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/lanbind/internal/core/domain"
	"github.com/yndnr/lanbind/internal/telemetry/logger"
)

func TestOverlay(t *testing.T) {
	env := []string{
		"PATH=/usr/bin",
		"OLLAMA_HOST=127.0.0.1",
		"OLLAMA_MODELS=/data",
		"ollama_port=1",
	}
	b := domain.NewDesiredBinding("0.0.0.0", 11434, "*")

	got := Overlay(env, b.Environment())
	want := []string{
		"PATH=/usr/bin",
		"OLLAMA_MODELS=/data",
		"OLLAMA_HOST=0.0.0.0",
		"OLLAMA_PORT=11434",
		"OLLAMA_ORIGINS=*",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Overlay() = %v, want %v", got, want)
	}
}

func TestDaemon_Stop(t *testing.T) {
	var commands []string
	var slept []time.Duration

	d := New(Config{ProcessName: "ollama", SettleDelay: 2 * time.Second},
		WithLogger(logger.Discard()),
		WithRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
			commands = append(commands, name+" "+strings.Join(args, " "))
			return []byte("no process found"), errors.New("exit status 1")
		}),
		WithSleep(func(d time.Duration) { slept = append(slept, d) }),
	)

	d.Stop(context.Background())

	wantCmd := "pkill -x ollama"
	if runtime.GOOS == "windows" {
		wantCmd = "taskkill /IM ollama.exe /F"
	}
	if len(commands) != 1 || commands[0] != wantCmd {
		t.Errorf("commands = %v, want [%s]", commands, wantCmd)
	}
	if !reflect.DeepEqual(slept, []time.Duration{2 * time.Second}) {
		t.Errorf("slept = %v, want [2s]", slept)
	}
}

func TestDaemon_Start_MissingBinary(t *testing.T) {
	d := New(Config{
		Binary:   filepath.Join(t.TempDir(), "no-such-ollama"),
		ServeLog: filepath.Join(t.TempDir(), "serve.log"),
	}, WithLogger(logger.Discard()))

	proc, err := d.Start(context.Background(), domain.NewDesiredBinding("", 0, ""))
	if err == nil {
		t.Fatal("Start() with a missing binary should fail")
	}
	if proc != nil {
		t.Error("Start() should not return a process on failure")
	}
	if !domain.IsDomainError(err, domain.ErrDaemonLaunch.Code) {
		t.Errorf("Start() error = %v, want %s", err, domain.ErrDaemonLaunch.Code)
	}
}

func TestProcess_Exited(t *testing.T) {
	p := newProcess(42)

	if exited, _ := p.Exited(); exited {
		t.Error("new process should not be exited")
	}
	if code := p.ExitCode(); code != -1 {
		t.Errorf("ExitCode() = %d, want -1 while running", code)
	}

	p.finish(nil)

	select {
	case <-p.done:
	default:
		t.Fatal("done should be closed after finish")
	}
	if exited, err := p.Exited(); !exited || err != nil {
		t.Errorf("Exited() = %v, %v; want true, nil", exited, err)
	}
	if code := p.ExitCode(); code != 0 {
		t.Errorf("ExitCode() = %d, want 0", code)
	}
}
