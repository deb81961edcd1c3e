package diag

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zap returns a Sink that writes events to a zap logger.
// Debug events map to zap's debug level, Info to info and Warn to warn.
func Zap(logger *zap.Logger) Sink {
	if logger == nil {
		return Nop
	}
	return SinkFunc(func(e Event) {
		fields := make([]zap.Field, 0, len(e.Fields)+2)
		fields = append(fields, zap.String("kind", string(e.Kind)))
		if e.File != "" {
			fields = append(fields, zap.String("file", e.File))
		}
		for k, v := range e.Fields {
			fields = append(fields, zap.Any(k, v))
		}
		if ce := logger.Check(zapLevel(e.Level), e.Message); ce != nil {
			ce.Write(fields...)
		}
	})
}

func zapLevel(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}
