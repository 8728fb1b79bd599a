package logger

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (n nopLogger) With(label string) Logger {
	return n
}

func (nopLogger) Debugf(format string, args ...any) {}

func (nopLogger) Infof(format string, args ...any) {}

func (nopLogger) Warnf(format string, args ...any) {}

func (nopLogger) Errorf(format string, args ...any) {}

func (nopLogger) Debug(err error) {}

func (nopLogger) Info(err error) {}

func (nopLogger) Warn(err error) {}

func (nopLogger) Error(err error) {}
