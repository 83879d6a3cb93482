package logger

// NewNop returns a logger that discards everything. Handy for tests and for
// code paths that run before the real logger exists.
func NewNop() LoggerInterface {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Info(v ...any)                  {}
func (nopLogger) Infof(format string, v ...any)  {}
func (nopLogger) Warn(v ...any)                  {}
func (nopLogger) Warnf(format string, v ...any)  {}
func (nopLogger) Error(v ...any)                 {}
func (nopLogger) Errorf(format string, v ...any) {}
func (nopLogger) Debug(v ...any)                 {}
func (nopLogger) Debugf(format string, v ...any) {}
func (nopLogger) Close() error                   { return nil }
