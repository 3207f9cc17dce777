package syncreport

import "go.uber.org/zap/zapcore"

// Severity is the level at which a report line is emitted.
type Severity string

// Supported severities.
const (
	SeverityInfo Severity = "info"
	SeverityWarn Severity = "warn"
)

// ClassifySeverity escalates to SeverityWarn when count is positive.
// count is either the number of commits a branch is ahead or the number of status entries.
func ClassifySeverity(count int) Severity {
	if count > 0 {
		return SeverityWarn
	}
	return SeverityInfo
}

// ZapLevel maps the severity onto a zap level.
func (severity Severity) ZapLevel() zapcore.Level {
	if severity == SeverityWarn {
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}
