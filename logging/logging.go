// Package logging contains the structured logger used by the camgeom tools. Entries are built as
// zapcore entries and handed to appenders, so a zap observer core can stand in for an appender
// in tests.
package logging

import (
	"fmt"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Logger writes leveled messages with key/value context.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	// Sublogger returns a child logger named "<parent>.<subname>". It shares the parent's
	// appenders and starts at the parent's current level.
	Sublogger(subname string) Logger
	SetLevel(level Level)
}

type logger struct {
	name      string
	level     *atomic.Int32
	inUTC     bool
	appenders []Appender
}

func newLogger(name string, level Level, inUTC bool, appenders ...Appender) *logger {
	return &logger{name: name, level: atomic.NewInt32(int32(level)), inUTC: inUTC, appenders: appenders}
}

// NewLogger returns a logger that writes Info+ entries to stdout in UTC.
func NewLogger(name string) Logger {
	return newLogger(name, INFO, true, NewWriterAppender(os.Stdout))
}

// NewDebugLogger is NewLogger at Debug level.
func NewDebugLogger(name string) Logger {
	return newLogger(name, DEBUG, true, NewWriterAppender(os.Stdout))
}

// NewTestLogger returns a Debug+ logger that writes through tb.Log in local time.
func NewTestLogger(tb testing.TB) Logger {
	l, _ := NewObservedTestLogger(tb)
	return l
}

// NewObservedTestLogger is NewTestLogger that also records every entry in memory.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.LevelEnablerFunc(zapcore.DebugLevel.Enabled))
	return newLogger("", DEBUG, false, NewTestAppender(tb), core), logs
}

func (l *logger) Sublogger(subname string) Logger {
	name := subname
	if l.name != "" {
		name = l.name + "." + subname
	}
	return newLogger(name, Level(l.level.Load()), l.inUTC, l.appenders...)
}

func (l *logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func (l *logger) Debugw(msg string, keysAndValues ...interface{}) {
	l.write(DEBUG, msg, keysAndValues)
}

func (l *logger) Infow(msg string, keysAndValues ...interface{}) {
	l.write(INFO, msg, keysAndValues)
}

func (l *logger) Warnw(msg string, keysAndValues ...interface{}) {
	l.write(WARN, msg, keysAndValues)
}

func (l *logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.write(ERROR, msg, keysAndValues)
}

// write must be called directly from the exported level methods; callerAt counts on it.
func (l *logger) write(level Level, msg string, keysAndValues []interface{}) {
	if level < Level(l.level.Load()) {
		return
	}
	now := time.Now()
	if l.inUTC {
		now = now.UTC()
	}
	entry := zapcore.Entry{
		Level:      level.AsZap(),
		Time:       now,
		LoggerName: l.name,
		Message:    msg,
		Caller:     callerAt(3),
	}
	fields := pairsToFields(keysAndValues)
	for _, appender := range l.appenders {
		if err := appender.Write(entry, fields); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// pairsToFields turns alternating keys and values into zap fields. A trailing key without a value
// is kept with an error as its value.
func pairsToFields(keysAndValues []interface{}) []zapcore.Field {
	fields := make([]zapcore.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 == len(keysAndValues) {
			fields = append(fields, zap.Any(key, errUnpairedKey))
			break
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}

var errUnpairedKey = errors.New("unpaired log key")

func callerAt(skip int) zapcore.EntryCaller {
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
