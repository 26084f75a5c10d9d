package cluster

import (
	"fmt"
	"log/slog"
)

// Diagnostics is the optional side channel the engine reports Debug/Warning
// trace lines and fatal invariant violations through. It carries no file,
// socket, or persisted state: callers decide how (or whether) to surface
// what they receive.
type Diagnostics interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NoopDiagnostics discards everything. It is what NewEngine installs when
// no Diagnostics option is supplied.
type NoopDiagnostics struct{}

func (NoopDiagnostics) Debugf(string, ...any) {}
func (NoopDiagnostics) Warnf(string, ...any)  {}
func (NoopDiagnostics) Errorf(string, ...any) {}

// slogDiagnostics adapts Diagnostics onto log/slog, tagging every line
// Debug, Warning, or Error.
type slogDiagnostics struct {
	log *slog.Logger
}

// NewSlogDiagnostics wraps logger as a Diagnostics sink. Pass nil to use
// slog.Default().
func NewSlogDiagnostics(logger *slog.Logger) Diagnostics {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogDiagnostics{log: logger}
}

func (s *slogDiagnostics) Debugf(format string, args ...any) {
	s.log.Debug(fmt.Sprintf(format, args...), slog.String("tag", "Debug"))
}

func (s *slogDiagnostics) Warnf(format string, args ...any) {
	s.log.Warn(fmt.Sprintf(format, args...), slog.String("tag", "Warning"))
}

func (s *slogDiagnostics) Errorf(format string, args ...any) {
	s.log.Error(fmt.Sprintf(format, args...), slog.String("tag", "Error"))
}

// InvariantError signals a broken internal invariant: a merge between nodes
// at different levels, a node missing from its declared level, a
// parent/child desync. These arise only from implementation bugs; callers
// are not expected to recover from this panic, only to let it crash loudly.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "cluster: invariant violation: " + e.Msg
}

// abort reports msg through diag at Error level and panics with an
// *InvariantError. It is the engine's sole response to an internal
// inconsistency: no retry, no recovery protocol.
func abort(diag Diagnostics, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	diag.Errorf("%s", msg)
	panic(&InvariantError{Msg: msg})
}
