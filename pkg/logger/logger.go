package logger

import (
	"go.uber.org/zap"

	"github.com/norvikdb/norvik-go/pkg/errors"
)

type Logger interface {
	With(label string) Logger

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	Debug(err error)
	Info(err error)
	Warn(err error)
	Error(err error)
}

// New builds a zap-backed logger. Development mode means human-readable
// output and debug level.
func New(development bool) (Logger, error) {
	var base *zap.Logger
	var err error

	if development {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}

	if err != nil {
		return nil, errors.WrapFail(err, "init logger")
	}

	return &wrapper{base: base.Sugar()}, nil
}

type wrapper struct {
	base *zap.SugaredLogger
}

func (w *wrapper) With(label string) Logger {
	return &wrapper{base: w.base.Named(label)}
}

func (w *wrapper) Debug(err error) {
	if err != nil {
		w.base.Debugf("%s", err)
	}
}

func (w *wrapper) Info(err error) {
	if err != nil {
		w.base.Infof("%s", err)
	}
}

func (w *wrapper) Warn(err error) {
	if err != nil {
		w.base.Warnf("%s", err)
	}
}

func (w *wrapper) Error(err error) {
	if err != nil {
		w.base.Errorf("%s", err)
	}
}

func (w *wrapper) Debugf(format string, args ...any) {
	w.base.Debugf(format, args...)
}

func (w *wrapper) Infof(format string, args ...any) {
	w.base.Infof(format, args...)
}

func (w *wrapper) Warnf(format string, args ...any) {
	w.base.Warnf(format, args...)
}

func (w *wrapper) Errorf(format string, args ...any) {
	w.base.Errorf(format, args...)
}
