package logger

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
)

// Entry is one message captured by a TestLogger
type Entry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

type entrySink struct {
	mu      sync.Mutex
	entries []Entry
}

// TestLogger records every message with its fields and mirrors it to t.Logf.
// Loggers derived with WithField share the parent's sink.
type TestLogger struct {
	T      *testing.T
	sink   *entrySink
	fields map[string]interface{}
}

// NewTestLogger creates a recording logger; t may be nil to discard output
func NewTestLogger(t *testing.T) *TestLogger {
	return &TestLogger{T: t, sink: &entrySink{}}
}

// NewMockLogger creates a recording logger for tests that only need a Logger.
// It can be called with or without a testing.T parameter.
func NewMockLogger(t ...*testing.T) Logger {
	if len(t) > 0 {
		return NewTestLogger(t[0])
	}
	return NewTestLogger(nil)
}

func (l *TestLogger) log(level, msg string) {
	l.sink.mu.Lock()
	l.sink.entries = append(l.sink.entries, Entry{Level: level, Message: msg, Fields: l.fields})
	l.sink.mu.Unlock()

	if l.T != nil {
		l.T.Logf("[%s] %s%s", strings.ToUpper(level), msg, formatFields(l.fields))
	}
}

func (l *TestLogger) Debug(msg string) { l.log("debug", msg) }
func (l *TestLogger) Info(msg string)  { l.log("info", msg) }
func (l *TestLogger) Warn(msg string)  { l.log("warn", msg) }
func (l *TestLogger) Error(msg string) { l.log("error", msg) }
func (l *TestLogger) Fatal(msg string) { l.log("fatal", msg) }

func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &TestLogger{T: l.T, sink: l.sink, fields: merged}
}

// Entries returns the messages recorded so far, oldest first
func (l *TestLogger) Entries() []Entry {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	out := make([]Entry, len(l.sink.entries))
	copy(out, l.sink.entries)
	return out
}

// Find returns the first entry with the given level and message
func (l *TestLogger) Find(level, msg string) (Entry, bool) {
	for _, e := range l.Entries() {
		if e.Level == level && e.Message == msg {
			return e, true
		}
	}
	return Entry{}, false
}

func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, fields[k])
	}
	return sb.String()
}
