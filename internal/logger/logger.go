package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger provides structured logging for journald
type Logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
}

// New creates a new logger instance
func New() *Logger {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter creates a logger with a custom writer
func NewWithWriter(w io.Writer) *Logger {
	base := logrus.New()
	base.SetOutput(w)
	base.SetFormatter(&JournalFormatter{})
	base.SetLevel(logrus.DebugLevel)
	return &Logger{base: base, entry: logrus.NewEntry(base)}
}

// SetLevel accepts logrus level names: debug, info, warn(ing), error.
func (l *Logger) SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	l.base.SetLevel(lvl)
	return nil
}

// With returns a child logger that adds fields to every line.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{base: l.base, entry: l.entry.WithFields(toLogrus(fields))}
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...Field) {
	l.entry.WithFields(toLogrus(fields)).Info(msg)
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...Field) {
	l.entry.WithFields(toLogrus(fields)).Error(msg)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...Field) {
	l.entry.WithFields(toLogrus(fields)).Warn(msg)
}

// Debug logs debug messages
func (l *Logger) Debug(msg string, fields ...Field) {
	l.entry.WithFields(toLogrus(fields)).Debug(msg)
}

func toLogrus(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, field := range fields {
		out[field.Key] = field.Value
	}
	return out
}

// JournalFormatter renders LEVEL=<L> MESSAGE=<msg> followed by the fields
// sorted by key.
type JournalFormatter struct{}

func (f *JournalFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "LEVEL=%s MESSAGE=%s", strings.ToUpper(e.Level.String()), e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new field (shorthand)
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Common field constructors
func Action(value string) Field    { return F("ACTION", value) }
func Status(value string) Field    { return F("STATUS", value) }
func VM(value string) Field        { return F("VM", value) }
func Host(value string) Field      { return F("HOST", value) }
func Datastore(value string) Field { return F("DATASTORE", value) }
func DeviceKey(value int32) Field  { return F("DEVICE_KEY", value) }
func Count(value int) Field        { return F("COUNT", value) }
func Error(value error) Field      { return F("ERROR", value) }
func Path(value string) Field      { return F("PATH", value) }
func ScanID(value string) Field    { return F("SCAN_ID", value) }
func Endpoint(value string) Field  { return F("ENDPOINT", value) }
func Policy(value string) Field    { return F("POLICY", value) }
func Failed(value int) Field       { return F("FAILED", value) }
func Reason(value string) Field    { return F("REASON", value) }
