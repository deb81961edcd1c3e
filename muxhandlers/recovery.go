package muxhandlers

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/vitalvas/fsroute/diag"
	"github.com/vitalvas/fsroute/fsrouter"
)

// RecoveryConfig configures RecoveryMiddleware.
type RecoveryConfig struct {
	// Sink receives a panic_recovered event per panic.
	Sink diag.Sink

	// Stack adds the goroutine stack to the event fields.
	Stack bool
}

// RecoveryMiddleware recovers from panics in downstream handlers and
// answers 500 Internal Server Error. http.ErrAbortHandler is re-panicked.
func RecoveryMiddleware(cfg RecoveryConfig) fsrouter.MiddlewareFunc {
	sink := diag.OrNop(cfg.Sink)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				fields := map[string]any{
					"method": r.Method,
					"path":   r.URL.Path,
					"panic":  rec,
				}
				if id := RequestIDFromContext(r.Context()); id != "" {
					fields["request_id"] = id
				}
				if cfg.Stack {
					fields["stack"] = string(debug.Stack())
				}

				var file string
				if e, ok := fsrouter.EntryFromRequest(r); ok {
					file = e.File
				}

				sink.Emit(diag.Event{
					Level:   diag.LevelWarn,
					Kind:    diag.KindPanicRecovered,
					File:    file,
					Message: fmt.Sprintf("Recovered from panic: %v", rec),
					Fields:  fields,
				})

				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
