package logger

import (
	"strings"

	"go.uber.org/zap"
)

// TimingLevel selects the level at which request timings are logged
type TimingLevel string

const (
	TimingTrace TimingLevel = "TRACE"
	TimingDebug TimingLevel = "DEBUG"
	TimingInfo  TimingLevel = "INFO"
	TimingWarn  TimingLevel = "WARN"
	TimingError TimingLevel = "ERROR"
)

// ParseTimingLevel maps a level name to a TimingLevel. Unknown names fall back to INFO.
func ParseTimingLevel(s string) TimingLevel {
	switch TimingLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case TimingTrace:
		return TimingTrace
	case TimingDebug:
		return TimingDebug
	case TimingWarn:
		return TimingWarn
	case TimingError:
		return TimingError
	default:
		return TimingInfo
	}
}

// LogFunc is a log method bound to a single level
type LogFunc func(msg string, fields ...zap.Field)

// LevelFunc returns the log method of l for level.
// zap has no trace level, so TRACE logs at debug with trace=true.
func LevelFunc(l *zap.Logger, level TimingLevel) LogFunc {
	switch level {
	case TimingTrace:
		traced := l.With(zap.Bool("trace", true))
		return traced.Debug
	case TimingDebug:
		return l.Debug
	case TimingWarn:
		return l.Warn
	case TimingError:
		return l.Error
	default:
		return l.Info
	}
}

// IsTimingLevel reports whether s names a timing level, ignoring case
func IsTimingLevel(s string) bool {
	switch TimingLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case TimingTrace, TimingDebug, TimingInfo, TimingWarn, TimingError:
		return true
	default:
		return false
	}
}
