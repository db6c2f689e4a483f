// Package diagnostics provides the single "emit a line at domain/level"
// collaborator the rest of protolib depends on. It is the only logging
// abstraction the core knows about; concrete sinks (including the
// logrus-backed one) live outside the codec and pool logic proper. The
// default sink is NullSink.
package diagnostics

import "github.com/sirupsen/logrus"

// Domain groups diagnostic lines by subsystem.
type Domain int

const (
	DomainMemory Domain = iota
	DomainFraming
	DomainCRC
	DomainDatalink
)

func (d Domain) String() string {
	switch d {
	case DomainMemory:
		return "memory"
	case DomainFraming:
		return "framing"
	case DomainCRC:
		return "crc"
	case DomainDatalink:
		return "datalink"
	default:
		return "unknown"
	}
}

// Level mirrors the handful of severities the sources log at.
type Level int

const (
	LevelDebug Level = iota
	LevelWarn
	LevelError
)

// Sink is the only logging capability the core requires: emit a line at a
// given domain and level. Implementations must not block or allocate on the
// hot path beyond what their own backend needs.
type Sink interface {
	Log(domain Domain, level Level, msg string, fields map[string]any)
}

// NullSink discards every line. It is the default collaborator whenever a
// component is constructed without an explicit sink, matching the sources'
// process-wide null diagnostics singleton translated into explicit
// dependency injection.
type NullSink struct{}

func (NullSink) Log(Domain, Level, string, map[string]any) {}

// Null is the shared, stateless null sink instance. Since it carries no
// state, a single package-level value is safe to share across every caller
// that doesn't supply its own sink.
var Null Sink = NullSink{}

// LogrusSink adapts a *logrus.Logger to the Sink contract, the way the
// teacher's protocol layers log through a shared logrus.Logger.
type LogrusSink struct {
	Logger *logrus.Logger
}

// NewLogrusSink wraps logger, or logrus.StandardLogger() if logger is nil.
func NewLogrusSink(logger *logrus.Logger) *LogrusSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusSink{Logger: logger}
}

func (s *LogrusSink) Log(domain Domain, level Level, msg string, fields map[string]any) {
	entry := s.Logger.WithField("domain", domain.String())
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields))
	}
	switch level {
	case LevelDebug:
		entry.Debug(msg)
	case LevelWarn:
		entry.Warn(msg)
	case LevelError:
		entry.Error(msg)
	default:
		entry.Info(msg)
	}
}
