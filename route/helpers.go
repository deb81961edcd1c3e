package route

import (
	"maps"
	"net/http"
	"reflect"
	"slices"
)

// GetPath returns the route's match pattern, or "" when unset.
func GetPath(r *Route) string {
	return r.def.Path
}

// GetMethods returns the route's methods. The result is never nil; an
// empty slice means every method.
func GetMethods(r *Route) []Method {
	if r.def.Methods == nil {
		return []Method{}
	}
	return slices.Clone(r.def.Methods)
}

// GetMeta returns the route metadata, which may be nil.
func GetMeta(r *Route) Meta {
	return r.def.Meta
}

// GetProviders returns the route providers, which may be nil.
func GetProviders(r *Route) Providers {
	return r.def.Providers
}

func GetBody(r *Route) *SchemaDef   { return r.def.Body }
func GetQuery(r *Route) *SchemaDef  { return r.def.Query }
func GetParams(r *Route) *SchemaDef { return r.def.Params }
func GetOutput(r *Route) *SchemaDef { return r.def.Output }

// GetHandler returns the function the route invokes.
func GetHandler(r *Route) HandlerFunc {
	return r.def.RawHandler
}

// OperationKeys returns "METHOD path" keys for the route, e.g.
// "GET /users/:id". It returns nil when the path or the method list is
// unset.
func OperationKeys(r *Route) []string {
	if r.def.Path == "" || len(r.def.Methods) == 0 {
		return nil
	}
	keys := make([]string, len(r.def.Methods))
	for i, m := range r.def.Methods {
		keys[i] = m.Upper() + " " + r.def.Path
	}
	return keys
}

// Clone returns a new Route with a copy of r's definition. Providers, Meta
// and Methods are copied so changes to the clone never reach r.
func Clone(r *Route) *Route {
	return &Route{def: copyDefinition(r.def)}
}

// WithProviders returns a clone of r whose providers are overridden by
// overrides. Names not in overrides keep r's provider.
func WithProviders(r *Route, overrides Providers) *Route {
	out := Clone(r)
	if out.def.Providers == nil {
		out.def.Providers = make(Providers, len(overrides))
	}
	maps.Copy(out.def.Providers, overrides)
	return out
}

func copyDefinition(def *Definition) *Definition {
	cp := *def
	cp.Providers = maps.Clone(def.Providers)
	cp.Meta = maps.Clone(def.Meta)
	cp.Methods = slices.Clone(def.Methods)
	return &cp
}

// AsHandler reports whether v can be called as a handler and returns it in
// HandlerFunc form. Compiled routes, HandlerFunc, plain handler funcs and
// net/http handlers are accepted. A value exposing the compiled capability
// without a definition or handler, or a nil net/http handler, is not
// callable.
func AsHandler(v any) (HandlerFunc, bool) {
	switch h := v.(type) {
	case nil:
		return nil, false
	case HandlerFunc:
		return h, h != nil
	case func(*Context) (any, error):
		return h, h != nil
	case func(http.ResponseWriter, *http.Request):
		if h == nil {
			return nil, false
		}
		return FromHTTP(http.HandlerFunc(h)), true
	case compiled:
		if def, ok := Lookup(h); ok && def.RawHandler != nil {
			return def.RawHandler, true
		}
		return nil, false
	case http.Handler:
		if isNilValue(h) {
			return nil, false
		}
		return FromHTTP(h), true
	}
	return nil, false
}

func isNilValue(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// FromHTTP adapts an http.Handler. The handler writes the response itself,
// so the returned value is always nil. A handler that writes nothing
// answers 200, as it would under net/http. Run through Invoke, its output
// is discarded.
func FromHTTP(h http.Handler) HandlerFunc {
	return func(c *Context) (any, error) {
		w := c.Writer
		if w == nil {
			h.ServeHTTP(discardWriter{header: make(http.Header)}, c.Request)
			return nil, nil
		}
		h.ServeHTTP(w, c.Request)
		if !c.written {
			w.WriteHeader(http.StatusOK)
		}
		return nil, nil
	}
}

type discardWriter struct {
	header http.Header
}

func (d discardWriter) Header() http.Header         { return d.header }
func (d discardWriter) Write(b []byte) (int, error) { return len(b), nil }
func (d discardWriter) WriteHeader(int)             {}
