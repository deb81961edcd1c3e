package route

import (
	"fmt"
	"maps"
	"net/http"
	"slices"

	"github.com/vitalvas/fsroute/schema"
)

// Builder assembles a Route definition. The zero value is not usable; call
// New.
type Builder struct {
	def Definition
}

// New returns an empty Builder. A route built without Method serves every
// method.
func New() *Builder {
	return &Builder{}
}

// Path sets the match pattern.
func (b *Builder) Path(p string) *Builder {
	b.def.Path = p
	return b
}

// Method replaces the method list. MethodAll clears it. Method panics on
// a value that is not a valid method token.
func (b *Builder) Method(methods ...Method) *Builder {
	var out []Method
	for _, m := range methods {
		if m == MethodAll {
			b.def.Methods = nil
			return b
		}
		parsed, ok := ParseMethod(string(m))
		if !ok {
			panic(fmt.Sprintf("route: invalid method %q", m))
		}
		if !slices.Contains(out, parsed) {
			out = append(out, parsed)
		}
	}
	b.def.Methods = out
	return b
}

// Meta merges m into the route metadata.
func (b *Builder) Meta(m Meta) *Builder {
	if b.def.Meta == nil {
		b.def.Meta = make(Meta, len(m))
	}
	maps.Copy(b.def.Meta, m)
	return b
}

func (b *Builder) Body(s schema.Schema) *Builder {
	b.def.Body = &SchemaDef{Schema: s}
	return b
}

func (b *Builder) Query(s schema.Schema) *Builder {
	b.def.Query = &SchemaDef{Schema: s}
	return b
}

func (b *Builder) Params(s schema.Schema) *Builder {
	b.def.Params = &SchemaDef{Schema: s}
	return b
}

func (b *Builder) Output(s schema.Schema) *Builder {
	b.def.Output = &SchemaDef{Schema: s}
	return b
}

// Provide registers a named provider.
func (b *Builder) Provide(name string, p Provider) *Builder {
	if b.def.Providers == nil {
		b.def.Providers = make(Providers)
	}
	b.def.Providers[name] = p
	return b
}

// Derive sets the function used to extract path parameters when the
// request was not routed by a dispatcher.
func (b *Builder) Derive(fn ParamDeriver) *Builder {
	b.def.DeriveParams = fn
	return b
}

// Handle finishes the route. The builder may be reused; routes built from
// it do not share maps or slices.
func (b *Builder) Handle(h HandlerFunc) *Route {
	def := copyDefinition(&b.def)
	def.RawHandler = h
	return &Route{def: def}
}

// HandleHTTP is Handle for a plain http.Handler.
func (b *Builder) HandleHTTP(h http.Handler) *Route {
	return b.Handle(FromHTTP(h))
}
