package logging

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

// TimeFormat is the timestamp layout of formatted log lines.
const TimeFormat = "2006-01-02T15:04:05.000Z0700"

// Appender receives every entry a logger emits. zapcore.Core satisfies it.
type Appender interface {
	Write(zapcore.Entry, []zapcore.Field) error
}

// WriterAppender formats entries as tab separated lines:
// time, level, logger name (when set), caller, message and the fields as JSON.
type WriterAppender struct {
	w io.Writer
}

// NewWriterAppender returns an appender that writes formatted lines to w.
func NewWriterAppender(w io.Writer) WriterAppender {
	return WriterAppender{w}
}

// Write implements Appender.
func (a WriterAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	line, err := formatLine(entry, fields)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.w, line)
	return err
}

type testAppender struct {
	tb testing.TB
}

// NewTestAppender returns an appender that formats entries like WriterAppender and writes them
// with tb.Log, so each line is attributed to the running test.
func NewTestAppender(tb testing.TB) Appender {
	return testAppender{tb}
}

func (a testAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	a.tb.Helper()
	line, err := formatLine(entry, fields)
	a.tb.Log(line)
	return err
}

// formatLine renders an entry. On a field encoding error the line without fields is returned along
// with the error.
func formatLine(entry zapcore.Entry, fields []zapcore.Field) (string, error) {
	parts := []string{entry.Time.Format(TimeFormat), strings.ToUpper(entry.Level.String())}
	if entry.LoggerName != "" {
		parts = append(parts, entry.LoggerName)
	}
	if entry.Caller.Defined {
		parts = append(parts, entry.Caller.TrimmedPath())
	}
	parts = append(parts, entry.Message)
	if len(fields) == 0 {
		return strings.Join(parts, "\t"), nil
	}

	// the JSON encoder keeps fields in call order
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{SkipLineEnding: true})
	buf, err := enc.EncodeEntry(zapcore.Entry{}, fields)
	if err != nil {
		return strings.Join(parts, "\t"), err
	}
	defer buf.Free()
	parts = append(parts, buf.String())
	return strings.Join(parts, "\t"), nil
}
