package muxhandlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/vitalvas/fsroute/fsrouter"
	"github.com/vitalvas/fsroute/route"
)

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored by
// RequestIDMiddleware, or "" when none is present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestID returns the request ID of a route invocation.
func RequestID(c *route.Context) string {
	return RequestIDFromContext(c.Context())
}

// ErrNoRequestID is returned by RequestIDProvider when the request did not
// pass through RequestIDMiddleware.
var ErrNoRequestID = errors.New("muxhandlers: no request id")

// RequestIDProvider is a route.Provider yielding the request ID, for routes
// that declare it as a dependency:
//
//	route.New().Provide("requestID", muxhandlers.RequestIDProvider)
func RequestIDProvider(c *route.Context) (any, error) {
	id := RequestID(c)
	if id == "" {
		return nil, ErrNoRequestID
	}
	return id, nil
}

// RequestIDConfig configures RequestIDMiddleware.
type RequestIDConfig struct {
	// HeaderName defaults to "X-Request-ID".
	HeaderName string

	// GenerateFunc returns a new ID. Defaults to GenerateUUIDv4.
	GenerateFunc func(r *http.Request) string

	// TrustIncoming reuses an ID already present on the request.
	TrustIncoming bool
}

// RequestIDMiddleware sets a request ID on the request, its context and
// the response.
func RequestIDMiddleware(cfg RequestIDConfig) fsrouter.MiddlewareFunc {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = "X-Request-ID"
	}

	generate := cfg.GenerateFunc
	if generate == nil {
		generate = GenerateUUIDv4
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cfg.TrustIncoming {
				id = r.Header.Get(headerName)
			}
			if id == "" {
				id = generate(r)
			}

			if id != "" {
				r.Header.Set(headerName, id)
				w.Header().Set(headerName, id)
				r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GenerateUUIDv4 returns a random UUID (RFC 9562 Section 5.4).
func GenerateUUIDv4(_ *http.Request) string {
	return uuid.New().String()
}

// GenerateUUIDv7 returns a time-ordered UUID (RFC 9562 Section 5.7).
func GenerateUUIDv7(_ *http.Request) string {
	return uuid.Must(uuid.NewV7()).String()
}
