package worker

import (
	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
)

// temporalLogger routes Temporal SDK logs through zap.
type temporalLogger struct {
	s *zap.SugaredLogger
}

var (
	_ log.Logger     = temporalLogger{}
	_ log.WithLogger = temporalLogger{}
)

// NewTemporalLogger adapts logger to the Temporal SDK's key-value logger.
func NewTemporalLogger(logger *zap.Logger) log.Logger {
	return temporalLogger{s: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l temporalLogger) Debug(msg string, keyvals ...any) { l.s.Debugw(msg, keyvals...) }
func (l temporalLogger) Info(msg string, keyvals ...any)  { l.s.Infow(msg, keyvals...) }
func (l temporalLogger) Warn(msg string, keyvals ...any)  { l.s.Warnw(msg, keyvals...) }
func (l temporalLogger) Error(msg string, keyvals ...any) { l.s.Errorw(msg, keyvals...) }

// With returns a logger that adds keyvals to every entry.
func (l temporalLogger) With(keyvals ...any) log.Logger {
	return temporalLogger{s: l.s.With(keyvals...)}
}
