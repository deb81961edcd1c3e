// Package muxhandlers provides HTTP middleware for fsrouter.Router.
//
// Middleware runs only for requests that matched a route, so it can read
// the matched entry with fsrouter.EntryFromRequest.
//
// # Request ID
//
// RequestIDMiddleware generates or propagates an X-Request-ID header and
// stores the ID in the request context. Handlers read it with RequestID:
//
//	r.Use(muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{
//	    GenerateFunc: muxhandlers.GenerateUUIDv7,
//	}))
//
// # Recovery
//
// RecoveryMiddleware turns a handler panic into 500 Internal Server Error
// and reports it to a diag.Sink as a panic_recovered event.
//
// # Metrics
//
// MetricsMiddleware counts requests and observes latency per operation,
// labelled with the "METHOD pattern" of the matched route:
//
//	reg := prometheus.NewRegistry()
//	mw, err := muxhandlers.MetricsMiddleware(muxhandlers.MetricsConfig{Registerer: reg})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.Use(mw)
//	http.Handle("/metrics", muxhandlers.MetricsHandler(reg))
package muxhandlers
