// Package ventlog provides the logging interface threaded through every
// pipeline component constructor. There is no package-level singleton;
// callers that don't care about output use NewNopLogger.
package ventlog

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Field is a single structured key/value pair attached to a logger via
// With. The pipeline uses these to carry the space/opening/component ID a
// log line is about, so a log stream from a run over a large platform
// model can be grepped or filtered by ID without parsing message text.
type Field struct {
	Key   string
	Value any
}

// F builds a Field inline at a call site, e.g. log.With(ventlog.F("space", sp.ID)).
func F(key string, value any) Field { return Field{Key: key, Value: value} }

// Logger is the minimal structured-ish logging surface every component
// constructor accepts. Components never reach for a global logger.
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	With(fields ...Field) Logger
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes to stdout/stderr via the standard library logger.
type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
	fields []Field
	out    *log.Logger
	err    *log.Logger
}

// NewDefaultLogger builds a Logger prefixed with prefix (e.g. a component
// name). debug gates Debugf output.
func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		out:    log.New(os.Stdout, "", flags),
		err:    log.New(os.Stderr, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

// With returns a logger that carries fields in addition to any the
// receiver already carries, sharing the receiver's destination writers
// and debug flag. Used at the start of a per-space/per-opening/
// per-component processing step so every subsequent log line from that
// step is attributable without repeating the ID in every format string.
func (l *DefaultLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	debug := l.debug
	l.mu.Unlock()

	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &DefaultLogger{
		debug:  debug,
		prefix: l.prefix,
		fields: merged,
		out:    l.out,
		err:    l.err,
	}
}

func (l *DefaultLogger) prefixf(level string, format string, args ...any) string {
	var b strings.Builder
	if l.prefix != "" {
		b.WriteString("[")
		b.WriteString(l.prefix)
		for _, f := range l.fields {
			fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
		}
		b.WriteString("] ")
	} else if len(l.fields) > 0 {
		b.WriteString("[")
		for i, f := range l.fields {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%s=%v", f.Key, f.Value)
		}
		b.WriteString("] ")
	}
	fmt.Fprintf(&b, "%s: %s", level, fmt.Sprintf(format, args...))
	return b.String()
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	l.mu.Lock()
	dbg := l.debug
	l.mu.Unlock()
	if !dbg {
		return
	}
	l.out.Print(l.prefixf("DEBUG", format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Print(l.prefixf("INFO", format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Print(l.prefixf("WARN", format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Print(l.prefixf("ERROR", format, args...))
}

type nopLogger struct{}

// NewNopLogger returns a Logger that discards everything. Safe default for
// library consumers and tests.
func NewNopLogger() Logger { return &nopLogger{} }

func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) With(fields ...Field) Logger       { return n }
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}
