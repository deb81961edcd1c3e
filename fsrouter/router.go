package fsrouter

import (
	"context"
	"errors"
	"net/http"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/vitalvas/fsroute/diag"
	"github.com/vitalvas/fsroute/pattern"
	"github.com/vitalvas/fsroute/route"
)

// MiddlewareFunc wraps a matched route's handler.
type MiddlewareFunc func(http.Handler) http.Handler

// File is a route file handed to Router.Add.
type File struct {
	// Path is relative to the routes root, e.g. "users/[id].go".
	Path   string
	Module Module
}

// Entry is one registered route together with the pattern it was
// assembled from.
type Entry struct {
	File    string
	Pattern *pattern.Pattern
	Route   *route.Route
}

// Router dispatches requests to routes assembled from files.
//
// It implements the http.Handler interface:
//
//	r := fsrouter.NewRouter(fsrouter.WithSink(diag.Zap(logger)))
//	if _, err := r.Add(fsrouter.File{Path: "users/[id].go", Module: users}); err != nil {
//	    return err
//	}
//	http.ListenAndServe(":8080", r)
type Router struct {
	// NotFoundHandler is called when no route matches.
	// If nil, http.NotFoundHandler() is used.
	NotFoundHandler http.Handler

	// MethodNotAllowedHandler is called when a route matches the path
	// but not the method. The Allow header is set before it runs.
	MethodNotAllowedHandler http.Handler

	compiler *pattern.Compiler
	sink     diag.Sink

	mu          sync.RWMutex
	entries     []Entry
	middlewares []MiddlewareFunc

	// handlerCache holds the middleware-wrapped handler per route.
	handlerCache sync.Map // map[*route.Route]http.Handler
}

// NewRouter returns an empty router.
func NewRouter(opts ...Option) *Router {
	o := buildOptions(opts)
	c := o.compiler
	if c == nil {
		c = pattern.New(pattern.WithSink(o.sink))
	}
	return &Router{compiler: c, sink: o.sink}
}

// Add compiles f.Path, assembles f.Module and registers the resulting
// routes. A path without a recognised extension registers nothing and
// returns no error.
func (r *Router) Add(f File) ([]*route.Route, error) {
	p, err := r.compiler.Compile(f.Path)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	routes := CreateRoutes(p, f.Module, WithSink(r.sink))
	r.Handle(p, routes...)
	return routes, nil
}

// Handle registers routes under p.
func (r *Router) Handle(p *pattern.Pattern, routes ...*route.Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rt := range routes {
		r.entries = append(r.entries, Entry{File: p.Source, Pattern: p, Route: rt})
	}
}

// Remove unregisters every route added from file.
func (r *Router) Remove(file string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = slices.DeleteFunc(r.entries, func(e Entry) bool {
		if e.File == file {
			r.handlerCache.Delete(e.Route)
			return true
		}
		return false
	})
}

// Use appends middleware to the chain. Middleware is applied to matched
// routes only.
func (r *Router) Use(mwf ...MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mwf...)
	r.handlerCache.Clear()
}

// Entries returns the registered routes in registration order.
func (r *Router) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.entries)
}

// SkipFile can be returned by a WalkFunc to skip the remaining routes of
// the current file.
var SkipFile = errors.New("skip this file")

// WalkFunc is called by Walk for each registered route.
type WalkFunc func(e Entry) error

// Walk calls fn for each registered route in registration order.
func (r *Router) Walk(fn WalkFunc) error {
	skipped := ""
	for _, e := range r.Entries() {
		if skipped != "" && e.File == skipped {
			continue
		}
		skipped = ""
		err := fn(e)
		if errors.Is(err, SkipFile) {
			skipped = e.File
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ServeHTTP dispatches the request to the first matching route.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if cleaned := cleanPath(req.URL.Path); cleaned != req.URL.Path {
		u := *req.URL
		u.Path = cleaned
		u.RawPath = ""
		req = req.Clone(req.Context())
		req.URL = &u
	}

	m := r.match(req)
	switch {
	case m.entry != nil:
		req = route.WithParams(req, m.params)
		req = req.WithContext(context.WithValue(req.Context(), entryContextKey{}, m.entry))
		r.wrap(m.entry.Route).ServeHTTP(w, req)
	case len(m.allowed) > 0:
		w.Header().Set("Allow", strings.Join(m.allowed, ", "))
		h := r.MethodNotAllowedHandler
		if h == nil {
			h = defaultMethodNotAllowedHandler
		}
		h.ServeHTTP(w, req)
	default:
		h := r.NotFoundHandler
		if h == nil {
			h = http.NotFoundHandler()
		}
		h.ServeHTTP(w, req)
	}
}

type matchResult struct {
	entry   *Entry
	params  pattern.Params
	allowed []string
}

// match finds the first entry serving req. When only the path matches it
// collects the methods that would have been accepted.
func (r *Router) match(req *http.Request) matchResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var res matchResult
	for i := range r.entries {
		e := &r.entries[i]
		params, ok := e.Pattern.Match(req.URL.Path)
		if !ok {
			continue
		}
		methods := route.GetMethods(e.Route)
		if len(methods) == 0 || slices.ContainsFunc(methods, func(m route.Method) bool {
			return m.Matches(req.Method)
		}) {
			entry := *e
			return matchResult{entry: &entry, params: params}
		}
		for _, m := range methods {
			if u := m.Upper(); !slices.Contains(res.allowed, u) {
				res.allowed = append(res.allowed, u)
			}
		}
	}
	return res
}

func (r *Router) wrap(rt *route.Route) http.Handler {
	if cached, ok := r.handlerCache.Load(rt); ok {
		return cached.(http.Handler)
	}

	r.mu.RLock()
	var h http.Handler = rt
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		h = r.middlewares[i](h)
	}
	r.mu.RUnlock()

	r.handlerCache.Store(rt, h)
	return h
}

type entryContextKey struct{}

// EntryFromRequest returns the entry that matched req. It is available to
// middleware and handlers.
func EntryFromRequest(req *http.Request) (Entry, bool) {
	e, ok := req.Context().Value(entryContextKey{}).(*Entry)
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

var defaultMethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
})

// cleanPath returns the canonical path for p, removing dot segments per
// RFC 3986 Section 5.2.4.
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	np := path.Clean(p)
	if p[len(p)-1] == '/' && np != "/" {
		np += "/"
	}
	return np
}
