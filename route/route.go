package route

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/vitalvas/fsroute/pattern"
	"github.com/vitalvas/fsroute/schema"
)

// HandlerFunc handles a parsed request and returns the response value.
type HandlerFunc func(c *Context) (any, error)

// Provider lazily builds a named dependency for a request.
type Provider func(c *Context) (any, error)

// Providers maps dependency names to their providers.
type Providers map[string]Provider

// Meta is free-form route metadata.
type Meta map[string]any

// SchemaDef wraps the schema attached to one request or response part.
type SchemaDef struct {
	Schema schema.Schema
}

// ParamDeriver extracts path parameters from a request URL.
type ParamDeriver func(u *url.URL) pattern.Params

// Definition is the internal state of a compiled route.
// Treat it as read-only; use Clone to get a copy that may be changed.
type Definition struct {
	// Path is the match pattern; empty when unset.
	Path string
	// Methods is nil when the route serves every method.
	Methods []Method
	Meta    Meta

	Body   *SchemaDef
	Query  *SchemaDef
	Params *SchemaDef
	Output *SchemaDef

	Providers Providers

	// DeriveParams is used when the request carries no parameters from a
	// dispatcher.
	DeriveParams ParamDeriver

	// RawHandler is the function actually invoked.
	RawHandler HandlerFunc
}

// Route is a compiled route. It is safe for concurrent use.
type Route struct {
	def *Definition
}

// compiled is the capability every compiled route exposes. The method is
// unexported so only *Route, and types embedding it, satisfy it.
type compiled interface {
	routeDefinition() *Definition
}

func (r *Route) routeDefinition() *Definition {
	if r == nil {
		return nil
	}
	return r.def
}

// Lookup returns the definition of v when v is a compiled route. It checks
// for the capability rather than the concrete type, so structs embedding a
// *Route are recognized too.
func Lookup(v any) (*Definition, bool) {
	c, ok := v.(compiled)
	if !ok {
		return nil, false
	}
	def := c.routeDefinition()
	if def == nil {
		return nil, false
	}
	return def, true
}

// IsCompiled reports whether v is a compiled route.
func IsCompiled(v any) bool {
	_, ok := Lookup(v)
	return ok
}

// ErrNoHandler is returned when a route without a handler is invoked.
var ErrNoHandler = errors.New("route: no handler")

// Invoke runs the route for req and returns the handler output without
// writing a response.
func (r *Route) Invoke(req *http.Request) (any, error) {
	return r.run(newContext(r, nil, req))
}

// ServeHTTP runs the route and writes its result.
func (r *Route) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	c := newContext(r, w, req)
	out, err := r.run(c)
	if c.written {
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, out)
}

func (r *Route) run(c *Context) (any, error) {
	def := r.def
	if def.RawHandler == nil {
		return nil, ErrNoHandler
	}

	if err := c.parse(); err != nil {
		return nil, err
	}

	out, err := def.RawHandler(c)
	if err != nil {
		return nil, err
	}

	if def.Output != nil && def.Output.Schema != nil {
		if resp, ok := out.(*Response); ok {
			body, err := def.Output.Schema.Parse(resp.Body)
			if err != nil {
				return nil, schema.WithSource(err, "output")
			}
			cp := *resp
			cp.Body = body
			return &cp, nil
		}
		out, err = def.Output.Schema.Parse(out)
		if err != nil {
			return nil, schema.WithSource(err, "output")
		}
	}

	return out, nil
}
