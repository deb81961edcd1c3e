package route

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"sync"

	"github.com/vitalvas/fsroute/pattern"
	"github.com/vitalvas/fsroute/schema"
)

// maxBodyBytes bounds how much of a request body is read for parsing.
const maxBodyBytes = 10 << 20

type paramsContextKey struct{}

// WithParams returns a shallow copy of req carrying path parameters.
// Dispatchers call it after matching a request.
func WithParams(req *http.Request, params pattern.Params) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), paramsContextKey{}, params))
}

// ParamsFromRequest returns the path parameters stored by WithParams.
func ParamsFromRequest(req *http.Request) (pattern.Params, bool) {
	params, ok := req.Context().Value(paramsContextKey{}).(pattern.Params)
	return params, ok
}

// Context is the per-request state passed to handlers and providers.
type Context struct {
	Request *http.Request
	// Writer is nil when the route is run through Invoke.
	Writer http.ResponseWriter

	// RawParams are the path parameters before schema parsing.
	RawParams pattern.Params

	// Params, Query and Body hold the schema outputs. Without a schema
	// Params is a pattern.Params, Query is a url.Values and Body is nil.
	Params any
	Query  any
	Body   any

	route   *Route
	written bool

	providers *providerState
	// chain holds the providers being resolved by this call chain.
	chain []string
}

type providerState struct {
	mu      sync.Mutex
	entries map[string]*resolution
}

// resolution is one provider call. done is closed when val and err are set.
type resolution struct {
	done chan struct{}
	val  any
	err  error
}

func newContext(r *Route, w http.ResponseWriter, req *http.Request) *Context {
	c := &Context{
		Request:   req,
		route:     r,
		providers: &providerState{},
	}
	if w != nil {
		c.Writer = &trackingWriter{ResponseWriter: w, written: &c.written}
	}
	return c
}

// Context returns the request context.
func (c *Context) Context() context.Context {
	return c.Request.Context()
}

// Route returns the route being run.
func (c *Context) Route() *Route {
	return c.route
}

// Param returns a single path parameter as a string. Catch-all values are
// not returned; use RawParams for those.
func (c *Context) Param(name string) string {
	v, _ := c.RawParams.String(name)
	return v
}

// Provide resolves a named dependency. Each provider runs at most once per
// request; concurrent callers wait for the running call and share its
// result. A failed call is not cached. A provider that asks for itself,
// directly or through other providers, gets ErrProviderCycle.
func (c *Context) Provide(name string) (any, error) {
	if slices.Contains(c.chain, name) {
		return nil, &ProviderError{Name: name, Err: ErrProviderCycle}
	}

	p, ok := c.route.def.Providers[name]
	if !ok || p == nil {
		return nil, &ProviderError{Name: name, Err: ErrUnknownProvider}
	}

	st := c.providers
	st.mu.Lock()
	if res, ok := st.entries[name]; ok {
		st.mu.Unlock()
		<-res.done
		return res.val, res.err
	}
	res := &resolution{done: make(chan struct{})}
	if st.entries == nil {
		st.entries = make(map[string]*resolution)
	}
	st.entries[name] = res
	st.mu.Unlock()

	// Waiters see errProviderAborted if p panics.
	res.err = &ProviderError{Name: name, Err: errProviderAborted}
	defer close(res.done)

	val, err := p(c.resolving(name))
	if err != nil {
		res.err = &ProviderError{Name: name, Err: err}
		st.mu.Lock()
		delete(st.entries, name)
		st.mu.Unlock()
		return nil, res.err
	}
	res.val, res.err = val, nil
	return val, nil
}

// resolving returns a view of c for a provider call. It shares the
// request state and the provider cache but extends the call chain.
func (c *Context) resolving(name string) *Context {
	cp := *c
	cp.chain = append(slices.Clone(c.chain), name)
	return &cp
}

// parse fills Params, Query and Body.
func (c *Context) parse() error {
	def := c.route.def
	req := c.Request

	if params, ok := ParamsFromRequest(req); ok {
		c.RawParams = params
	} else if def.DeriveParams != nil {
		c.RawParams = def.DeriveParams(req.URL)
	} else {
		c.RawParams = pattern.Params{}
	}

	c.Params = c.RawParams
	if def.Params != nil && def.Params.Schema != nil {
		out, err := def.Params.Schema.Parse(map[string]any(c.RawParams))
		if err != nil {
			return schema.WithSource(err, "params")
		}
		c.Params = out
	}

	query := req.URL.Query()
	c.Query = query
	if def.Query != nil && def.Query.Schema != nil {
		out, err := def.Query.Schema.Parse(queryMap(query))
		if err != nil {
			return schema.WithSource(err, "query")
		}
		c.Query = out
	}

	if def.Body != nil && def.Body.Schema != nil {
		var body []byte
		if req.Body != nil && req.Body != http.NoBody {
			data, err := io.ReadAll(http.MaxBytesReader(c.Writer, req.Body, maxBodyBytes))
			if err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					return &HTTPError{Status: http.StatusRequestEntityTooLarge, Err: err}
				}
				return err
			}
			body = data
		}
		out, err := def.Body.Schema.Parse(body)
		if err != nil {
			return schema.WithSource(err, "body")
		}
		c.Body = out
	}

	return nil
}

// queryMap flattens query values: one value becomes a string, several a
// []string.
func queryMap(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) == 1 {
			out[k] = v[0]
			continue
		}
		out[k] = append([]string{}, v...)
	}
	return out
}

// trackingWriter records whether the handler wrote the response itself.
type trackingWriter struct {
	http.ResponseWriter
	written *bool
}

func (w *trackingWriter) WriteHeader(code int) {
	*w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	*w.written = true
	return w.ResponseWriter.Write(b)
}

func (w *trackingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
