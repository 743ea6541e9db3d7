package logging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// impl is the Logger behind every constructor of this package. Subloggers share their parent's
// appenders but carry their own level.
type impl struct {
	name      string
	level     AtomicLevel
	inUTC     bool
	appenders []Appender
}

// LogEntry is a zapcore Entry with the structured fields attached to it.
type LogEntry struct {
	zapcore.Entry
	fields []zapcore.Field
}

func newImpl(name string, level Level, inUTC bool, appenders ...Appender) *impl {
	return &impl{name: name, level: NewAtomicLevelAt(level), inUTC: inUTC, appenders: appenders}
}

func (imp *impl) Sublogger(subname string) Logger {
	name := subname
	if imp.name != "" {
		name = imp.name + "." + subname
	}
	return newImpl(name, imp.level.Get(), imp.inUTC, imp.appenders...)
}

func (imp *impl) AddAppender(appender Appender) {
	imp.appenders = append(imp.appenders, appender)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.Get()
}

func (imp *impl) Level() zapcore.Level {
	return imp.GetLevel().AsZap()
}

// Sync flushes every appender and reports all of their failures together.
func (imp *impl) Sync() error {
	var err error
	for _, appender := range imp.appenders {
		err = multierr.Append(err, appender.Sync())
	}
	return err
}

// AsZap builds a standalone zap logger at the same level. Appenders that are zap cores themselves,
// such as the observer of NewObservedTestLogger, are teed in so they keep seeing its output.
func (imp *impl) AsZap() *zap.SugaredLogger {
	config := NewZapLoggerConfig()
	config.Level = zap.NewAtomicLevelAt(imp.Level())
	sugared := zap.Must(config.Build()).Sugar().Named(imp.name)
	for _, appender := range imp.appenders {
		core, ok := appender.(zapcore.Core)
		if !ok {
			continue
		}
		sugared = sugared.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, core)
		}))
	}
	return sugared
}

func (imp *impl) Desugar() *zap.Logger {
	return imp.AsZap().Desugar()
}

func (imp *impl) Named(name string) *zap.SugaredLogger {
	return imp.AsZap().Named(name)
}

func (imp *impl) With(args ...interface{}) *zap.SugaredLogger {
	return imp.AsZap().With(args...)
}

func (imp *impl) WithOptions(opts ...zap.Option) *zap.SugaredLogger {
	return imp.AsZap().WithOptions(opts...)
}

// enabled reports whether a message at level is written. Everything is written while the global
// level is debug.
func (imp *impl) enabled(level Level) bool {
	return GlobalLogLevel.Level() == zapcore.DebugLevel || level >= imp.level.Get()
}

// The print, printf and printw helpers must be called directly from an exported method; getCaller
// relies on that depth.

func (imp *impl) print(level Level, force bool, args ...interface{}) {
	if force || imp.enabled(level) {
		imp.write(imp.newEntry(level, fmt.Sprint(args...)))
	}
}

func (imp *impl) printf(level Level, force bool, template string, args ...interface{}) {
	if force || imp.enabled(level) {
		imp.write(imp.newEntry(level, fmt.Sprintf(template, args...)))
	}
}

// printw pairs up keysAndValues as zap fields. A trailing key without a value is logged with an
// "unpaired log key" error as its value.
func (imp *impl) printw(level Level, force bool, msg string, keysAndValues ...interface{}) {
	if !force && !imp.enabled(level) {
		return
	}
	entry := imp.newEntry(level, msg)
	entry.fields = make([]zapcore.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if stringer, ok := keysAndValues[i].(fmt.Stringer); ok {
			key = stringer.String()
		}
		var value interface{} = errors.New("unpaired log key")
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		}
		entry.fields = append(entry.fields, zap.Any(key, value))
	}
	imp.write(entry)
}

func (imp *impl) newEntry(level Level, msg string) *LogEntry {
	entry := &LogEntry{}
	entry.Time = time.Now()
	entry.Level = level.AsZap()
	entry.LoggerName = imp.name
	entry.Message = msg
	entry.Caller = getCaller()
	return entry
}

func (imp *impl) write(entry *LogEntry) {
	if imp.inUTC {
		entry.Time = entry.Time.UTC()
	}
	for _, appender := range imp.appenders {
		if err := appender.Write(entry.Entry, entry.fields); err != nil {
			fmt.Fprint(os.Stderr, err)
		}
	}
}

func (imp *impl) Debug(args ...interface{}) { imp.print(DEBUG, false, args...) }

func (imp *impl) Debugf(template string, args ...interface{}) {
	imp.printf(DEBUG, false, template, args...)
}

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	imp.printw(DEBUG, false, msg, keysAndValues...)
}

func (imp *impl) CDebug(ctx context.Context, args ...interface{}) {
	imp.print(DEBUG, IsDebugMode(ctx), args...)
}

func (imp *impl) CDebugf(ctx context.Context, template string, args ...interface{}) {
	imp.printf(DEBUG, IsDebugMode(ctx), template, args...)
}

func (imp *impl) CDebugw(ctx context.Context, msg string, keysAndValues ...interface{}) {
	imp.printw(DEBUG, IsDebugMode(ctx), msg, keysAndValues...)
}

func (imp *impl) Info(args ...interface{}) { imp.print(INFO, false, args...) }

func (imp *impl) Infof(template string, args ...interface{}) {
	imp.printf(INFO, false, template, args...)
}

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	imp.printw(INFO, false, msg, keysAndValues...)
}

func (imp *impl) Warn(args ...interface{}) { imp.print(WARN, false, args...) }

func (imp *impl) Warnf(template string, args ...interface{}) {
	imp.printf(WARN, false, template, args...)
}

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	imp.printw(WARN, false, msg, keysAndValues...)
}

func (imp *impl) Error(args ...interface{}) { imp.print(ERROR, false, args...) }

func (imp *impl) Errorf(template string, args ...interface{}) {
	imp.printf(ERROR, false, template, args...)
}

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	imp.printw(ERROR, false, msg, keysAndValues...)
}

// Fatal, Fatalf and Fatalw always log at error level and then exit with status 1.
func (imp *impl) Fatal(args ...interface{}) {
	imp.print(ERROR, true, args...)
	os.Exit(1)
}

func (imp *impl) Fatalf(template string, args ...interface{}) {
	imp.printf(ERROR, true, template, args...)
	os.Exit(1)
}

func (imp *impl) Fatalw(msg string, keysAndValues ...interface{}) {
	imp.printw(ERROR, true, msg, keysAndValues...)
	os.Exit(1)
}

// getCaller finds the code that called the exported logging method. The frames skipped are
// getCaller, newEntry, the print helper and the exported method.
func getCaller() zapcore.EntryCaller {
	const skip = 4
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return zapcore.EntryCaller{}
	}
	caller := zapcore.EntryCaller{Defined: true, PC: pc, File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		caller.Function = fn.Name()
	}
	return caller
}
