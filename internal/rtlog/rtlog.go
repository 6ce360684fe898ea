// Package rtlog is the structured logging layer shared by lang/machine and
// runtime: a thin wrapper over go.uber.org/zap adding WarnOnce, a
// per-opcode deduplicating warning sink for the unknown-opcode and
// malformed-input diagnostics spec.md §7 calls for ("surfaced once, not
// once per frame"). Grounded on pack sibling codenerd's use of zap for its
// CLI logger; the teacher itself only writes to stderr via mainer.Stdio,
// too thin for deduplication.
package rtlog

import "go.uber.org/zap"

// Logger wraps a *zap.SugaredLogger with a per-key warn-once set. It is not
// safe for concurrent use from multiple goroutines, which is fine: the
// scheduler it serves runs one frame, one thread, at a time (spec.md §5).
type Logger struct {
	sugar *zap.SugaredLogger
	warned map[string]struct{}
}

// New wraps z, or builds a no-op logger if z is nil (used by tests that
// don't care about log output).
func New(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{sugar: z.Sugar(), warned: map[string]struct{}{}}
}

// WarnOnce logs a warning the first time it is called with a given key in
// this Logger's lifetime (one project run) and silently drops every
// subsequent call with the same key, so a hot opcode hit every frame does
// not flood the log.
func (l *Logger) WarnOnce(key, msg string, args ...interface{}) {
	if _, ok := l.warned[key]; ok {
		return
	}
	l.warned[key] = struct{}{}
	l.sugar.Warnw(msg, args...)
}

// Infow logs an info-level structured message.
func (l *Logger) Infow(msg string, args ...interface{}) { l.sugar.Infow(msg, args...) }

// Errorw logs an error-level structured message.
func (l *Logger) Errorw(msg string, args ...interface{}) { l.sugar.Errorw(msg, args...) }
