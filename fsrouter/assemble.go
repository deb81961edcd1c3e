package fsrouter

import (
	"fmt"
	"slices"

	"github.com/vitalvas/fsroute/diag"
	"github.com/vitalvas/fsroute/pattern"
	"github.com/vitalvas/fsroute/route"
)

// Option configures CreateRoutes and NewRouter.
type Option func(*options)

type options struct {
	sink     diag.Sink
	compiler *pattern.Compiler
}

// WithSink sets the diagnostic sink. The default discards events.
func WithSink(s diag.Sink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// WithCompiler sets the pattern compiler used by Router.Add. The default
// is pattern.New with the router's sink.
func WithCompiler(c *pattern.Compiler) Option {
	return func(o *options) {
		o.compiler = c
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.sink = diag.OrNop(o.sink)
	return o
}

// CreateRoutes assembles the routes of one module. p carries the file path
// in p.Source, which tags every diagnostic.
//
// Problems with individual exports never fail the whole module: they are
// reported to the sink and the remaining slots are still assembled.
func CreateRoutes(p *pattern.Pattern, mod Module, opts ...Option) []*route.Route {
	o := buildOptions(opts)
	a := assembler{pattern: p, sink: o.sink, exports: Exports(mod)}
	return a.run()
}

type assembler struct {
	pattern *pattern.Pattern
	sink    diag.Sink
	exports []Export
}

func (a *assembler) run() []*route.Route {
	var routes []*route.Route
	for _, e := range a.exports {
		if r := a.assemble(e); r != nil {
			routes = append(routes, r)
		}
	}
	return routes
}

func (a *assembler) assemble(e Export) *route.Route {
	handler, ok := route.AsHandler(e.Value)
	if !ok {
		a.emit(diag.LevelWarn, diag.KindHandlerNotCallable,
			fmt.Sprintf("Export %q is not callable and was skipped.", e.Name),
			map[string]any{"slot": string(e.Slot), "type": fmt.Sprintf("%T", e.Value)})
		return nil
	}

	b := route.New().
		Path(a.pattern.PathMatch).
		Method(e.Slot.Method()).
		Derive(a.pattern.DeriveParams)

	if def, ok := route.Lookup(e.Value); ok {
		a.applyDonor(b, e, def)
	}

	return b.Handle(handler)
}

func (a *assembler) applyDonor(b *route.Builder, e Export, def *route.Definition) {
	if def.Meta != nil {
		b.Meta(def.Meta)
	}
	if def.Body != nil {
		b.Body(def.Body.Schema)
	}
	if def.Query != nil {
		b.Query(def.Query.Schema)
	}
	if def.Params != nil {
		b.Params(def.Params.Schema)
	}
	if def.Output != nil {
		b.Output(def.Output.Schema)
	}
	for name, p := range def.Providers {
		b.Provide(name, p)
	}

	if e.Slot == SlotDefault && def.Methods != nil {
		b.Method(def.Methods...)
	}

	if def.Path != "" {
		a.emit(diag.LevelWarn, diag.KindDonorPathIgnored,
			fmt.Sprintf("Handler for '%s' method specifies a route path which will be ignored for the path derived from the file system.", e.Slot),
			map[string]any{"slot": string(e.Slot), "path": def.Path})
	}

	if len(def.Methods) == 0 {
		return
	}

	if e.Slot != SlotDefault {
		a.emit(diag.LevelWarn, diag.KindDonorMethodsIgnored,
			fmt.Sprintf("Handler for '%s' method specifies methods which will be ignored in favour of '%s'.", e.Slot, e.Slot),
			map[string]any{"slot": string(e.Slot), "methods": methodStrings(def.Methods)})
		return
	}

	for _, m := range def.Methods {
		if a.hasSlot(Slot(m)) {
			a.emit(diag.LevelInfo, diag.KindDefaultMethodOverlap,
				fmt.Sprintf("Both default and a named export will handle the %s method.", m),
				map[string]any{"method": string(m)})
		}
	}
}

func (a *assembler) hasSlot(s Slot) bool {
	return slices.ContainsFunc(a.exports, func(e Export) bool {
		return e.Slot == s
	})
}

func (a *assembler) emit(level diag.Level, kind diag.Kind, msg string, fields map[string]any) {
	a.sink.Emit(diag.Event{
		Level:   level,
		Kind:    kind,
		File:    a.pattern.Source,
		Message: msg,
		Fields:  fields,
	})
}

func methodStrings(ms []route.Method) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = string(m)
	}
	return out
}
