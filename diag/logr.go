package diag

import "github.com/go-logr/logr"

// Logr returns a Sink that writes events to a logr.Logger.
//
// logr has no warning level: Warn events are logged at V(0), Info at V(1)
// and Debug at V(2), so verbosity filtering on the backend decides what is
// kept.
func Logr(logger logr.Logger) Sink {
	return SinkFunc(func(e Event) {
		kv := make([]any, 0, 2*len(e.Fields)+4)
		kv = append(kv, "kind", string(e.Kind))
		if e.File != "" {
			kv = append(kv, "file", e.File)
		}
		for k, v := range e.Fields {
			kv = append(kv, k, v)
		}
		logger.V(logrVerbosity(e.Level)).Info(e.Message, kv...)
	})
}

func logrVerbosity(l Level) int {
	switch l {
	case LevelWarn:
		return 0
	case LevelInfo:
		return 1
	default:
		return 2
	}
}
