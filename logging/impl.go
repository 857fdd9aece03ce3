package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface used throughout the module. It mirrors the sugared zap API so that
// callers can log key/value pairs with the `w` variants.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Fatal(args ...interface{})

	// Sublogger returns a logger whose name is suffixed with subname. It shares the parent's outputs
	// and level.
	Sublogger(subname string) Logger
	SetLevel(level Level)
	GetLevel() Level
	Desugar() *zap.Logger
	Sync() error
}

type impl struct {
	*zap.SugaredLogger

	name  string
	level AtomicLevel
	core  zapcore.Core
}

func newImpl(name string, level AtomicLevel, core zapcore.Core) *impl {
	zl := zap.New(core, zap.AddCaller())
	if name != "" {
		zl = zl.Named(name)
	}
	return &impl{SugaredLogger: zl.Sugar(), name: name, level: level, core: core}
}

func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = imp.name + "." + subname
	}
	return newImpl(newName, imp.level, imp.core)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.Get()
}

func (imp *impl) Desugar() *zap.Logger {
	return imp.SugaredLogger.Desugar()
}

// Sync flushes buffered output. Syncing stdout commonly fails with EINVAL on terminals, which is not
// worth reporting.
func (imp *impl) Sync() error {
	//nolint:errcheck
	imp.SugaredLogger.Sync()
	return nil
}
