package syncreport

import "go.uber.org/zap"

// Sink receives rendered report lines.
type Sink interface {
	Emit(severity Severity, message string)
}

// ZapSink writes report lines through a zap logger.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink constructs a sink backed by logger. A nil logger discards output.
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

// Emit logs message at the zap level matching severity.
func (sink *ZapSink) Emit(severity Severity, message string) {
	sink.logger.Log(severity.ZapLevel(), message)
}
