package logging

import (
	"log"
	"os"
)

func init() {
	backends.MustRegister("stdlog", 50, stdlogBackend{})
}

// stdlogBackend wraps the standard library log package. It exists as a
// dependency-light fallback below zerolog and journald.
type stdlogBackend struct{}

func (stdlogBackend) Available() bool { return true }

func (stdlogBackend) Open(cfg Config) (Logger, error) {
	out := os.Stderr
	return &stdlogLogger{
		l:   log.New(out, "", log.LstdFlags),
		min: ParseLevel(cfg.Level),
	}, nil
}

type stdlogLogger struct {
	l   *log.Logger
	min Level
}

func (s *stdlogLogger) logf(lvl Level, format string, args ...any) {
	if lvl < s.min {
		return
	}
	s.l.Printf(lvl.String()+": "+format, args...)
}

func (s *stdlogLogger) Debug(format string, args ...any) { s.logf(LevelDebug, format, args...) }
func (s *stdlogLogger) Info(format string, args ...any)  { s.logf(LevelInfo, format, args...) }
func (s *stdlogLogger) Warn(format string, args ...any)  { s.logf(LevelWarn, format, args...) }
func (s *stdlogLogger) Error(format string, args ...any) { s.logf(LevelError, format, args...) }
