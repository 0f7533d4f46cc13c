package logging

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/groundworklabs/groundwork/provider"
)

// recordingLogger collects formatted messages for assertions.
type recordingLogger struct {
	msgs []string
}

func (r *recordingLogger) record(level, format string, args ...any) {
	r.msgs = append(r.msgs, level+" "+fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Debug(format string, args ...any) { r.record("debug", format, args...) }
func (r *recordingLogger) Info(format string, args ...any)  { r.record("info", format, args...) }
func (r *recordingLogger) Warn(format string, args ...any)  { r.record("warn", format, args...) }
func (r *recordingLogger) Error(format string, args ...any) { r.record("error", format, args...) }

// fakeBackend is a test backend with controllable availability.
type fakeBackend struct {
	available bool
	openErr   error
	logger    Logger
}

func (f fakeBackend) Available() bool { return f.available }

func (f fakeBackend) Open(Config) (Logger, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.logger, nil
}

func TestSelectLoggerPriorityOrder(t *testing.T) {
	reg := provider.NewRegistry[Backend]("logging backend")
	high := &recordingLogger{}
	low := &recordingLogger{}
	reg.MustRegister("high", 100, fakeBackend{available: true, logger: high})
	reg.MustRegister("low", 10, fakeBackend{available: true, logger: low})

	l, name, err := selectLogger(reg, Config{})
	if err != nil {
		t.Fatalf("selectLogger() error = %v", err)
	}
	if name != "high" || l != Logger(high) {
		t.Errorf("selectLogger() picked %q, want high-priority backend", name)
	}
}

func TestSelectLoggerSkipsUnavailable(t *testing.T) {
	reg := provider.NewRegistry[Backend]("logging backend")
	fallback := &recordingLogger{}
	reg.MustRegister("preferred", 100, fakeBackend{available: false})
	reg.MustRegister("broken", 90, fakeBackend{available: true, openErr: fmt.Errorf("boom")})
	reg.MustRegister("fallback", 10, fakeBackend{available: true, logger: fallback})

	l, name, err := selectLogger(reg, Config{})
	if err != nil {
		t.Fatalf("selectLogger() error = %v", err)
	}
	if name != "fallback" || l != Logger(fallback) {
		t.Errorf("selectLogger() picked %q, want fallback", name)
	}
}

func TestSelectLoggerNoUsableBackend(t *testing.T) {
	reg := provider.NewRegistry[Backend]("logging backend")
	reg.MustRegister("gone", 100, fakeBackend{available: false})

	l, _, err := selectLogger(reg, Config{})
	if err == nil {
		t.Fatal("selectLogger() with no usable backend, want error")
	}
	if _, ok := l.(noopLogger); !ok {
		t.Errorf("selectLogger() failure logger = %T, want noopLogger", l)
	}
}

func TestSelectLoggerForcedBackend(t *testing.T) {
	reg := provider.NewRegistry[Backend]("logging backend")
	forced := &recordingLogger{}
	reg.MustRegister("big", 100, fakeBackend{available: true, logger: &recordingLogger{}})
	reg.MustRegister("small", 1, fakeBackend{available: true, logger: forced})

	l, name, err := selectLogger(reg, Config{Backend: "small"})
	if err != nil {
		t.Fatalf("selectLogger() error = %v", err)
	}
	if name != "small" || l != Logger(forced) {
		t.Errorf("selectLogger() picked %q, want forced backend", name)
	}

	if _, _, err := selectLogger(reg, Config{Backend: "missing"}); err == nil {
		t.Error("selectLogger() with unknown forced backend, want error")
	}
}

func TestBuiltinBackendsRegistered(t *testing.T) {
	regs := Backends()
	names := make(map[string]bool, len(regs))
	for _, r := range regs {
		names[r.Name] = true
	}
	for _, want := range []string{"zerolog", "stdlog", "noop"} {
		if !names[want] {
			t.Errorf("built-in backend %q not registered", want)
		}
	}
	for i := 1; i < len(regs); i++ {
		if regs[i-1].Priority < regs[i].Priority {
			t.Errorf("Backends() not sorted by priority at %d: %d < %d", i, regs[i-1].Priority, regs[i].Priority)
		}
	}
}

func TestFacadeDelegates(t *testing.T) {
	rec := &recordingLogger{}
	Set(rec)
	defer Set(nil)

	Debug("d %d", 1)
	Info("i")
	Warn("w")
	Error("e")

	want := []string{"debug d 1", "info i", "warn w", "error e"}
	if len(rec.msgs) != len(want) {
		t.Fatalf("recorded %d messages, want %d", len(rec.msgs), len(want))
	}
	for i := range want {
		if rec.msgs[i] != want[i] {
			t.Errorf("msgs[%d] = %q, want %q", i, rec.msgs[i], want[i])
		}
	}
}

func TestFatalExits(t *testing.T) {
	rec := &recordingLogger{}
	Set(rec)
	defer Set(nil)

	code := 0
	old := osExit
	osExit = func(c int) { code = c }
	defer func() { osExit = old }()

	Fatal("boom")
	if code != 1 {
		t.Errorf("Fatal() exit code = %d, want 1", code)
	}
	if len(rec.msgs) != 1 || !strings.Contains(rec.msgs[0], "boom") {
		t.Errorf("Fatal() logged %v, want the message", rec.msgs)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestZerologBackendFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Level:        "debug",
		AppLogFile:   dir + "/app.log",
		ErrorLogFile: dir + "/error.log",
	}
	l, err := zerologBackend{}.Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	l.Debug("debug line")
	l.Error("error line")

	app, err := os.ReadFile(cfg.AppLogFile)
	if err != nil {
		t.Fatalf("reading app log: %v", err)
	}
	if !strings.Contains(string(app), "debug line") || !strings.Contains(string(app), "error line") {
		t.Errorf("app log missing lines: %q", app)
	}

	errLog, err := os.ReadFile(cfg.ErrorLogFile)
	if err != nil {
		t.Fatalf("reading error log: %v", err)
	}
	if strings.Contains(string(errLog), "debug line") {
		t.Errorf("error log contains debug output: %q", errLog)
	}
	if !strings.Contains(string(errLog), "error line") {
		t.Errorf("error log missing error output: %q", errLog)
	}
}
