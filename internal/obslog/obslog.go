// Package obslog is the ambient structured-logging wrapper: a
// package-level *zap.Logger every other package reaches for instead of
// the standard library's log package, matching the teacher/pack's habit
// of never hand-rolling a logging facade. Grounded on
// _examples/original_source/src/languages/go.rs's tracing::error! call
// site (query-compile failure) translated to zap's structured form.
package obslog

import "go.uber.org/zap"

var logger = zap.NewNop()

// Init installs the process-wide logger. Call once at startup; cmd/envbindd
// does this before constructing internal/envcore.Core. Tests that don't
// call Init get a no-op logger, matching zap.NewNop's usual role as a
// safe default.
func Init(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// L returns the current process-wide logger.
func L() *zap.Logger {
	return logger
}

// NewProduction builds a production JSON logger, the default cmd/envbindd
// installs via Init unless a user asks for more verbosity.
func NewProduction() (*zap.Logger, error) {
	return zap.NewProduction()
}

// NewDevelopment builds a human-readable console logger for local runs.
func NewDevelopment() (*zap.Logger, error) {
	return zap.NewDevelopment()
}
