package openapi

import (
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/vitalvas/fsroute/fsrouter"
	"github.com/vitalvas/fsroute/pattern"
	"github.com/vitalvas/fsroute/route"
)

// Spec holds the document-level settings. Operations are read from a
// router each time a document is built.
type Spec struct {
	info    Info
	servers []Server
	tags    []Tag
}

// NewSpec returns a Spec with the given info.
func NewSpec(info Info) *Spec {
	return &Spec{info: info}
}

// AddServer appends a server entry.
func (s *Spec) AddServer(url, description string) *Spec {
	s.servers = append(s.servers, Server{URL: url, Description: description})
	return s
}

// AddTag appends a tag description.
func (s *Spec) AddTag(name, description string) *Spec {
	s.tags = append(s.tags, Tag{Name: name, Description: description})
	return s
}

// BuildRouter builds a document from the routes registered on r.
func (s *Spec) BuildRouter(r *fsrouter.Router) *Document {
	return s.Build(r.Entries())
}

// Build builds a document from entries. Routes without a method list have
// no operation identifiers and are left out. When two entries produce the
// same operation, the first wins, as it does at dispatch.
func (s *Spec) Build(entries []fsrouter.Entry) *Document {
	doc := &Document{
		OpenAPI: Version,
		Info:    s.info,
		Servers: slices.Clone(s.servers),
		Tags:    slices.Clone(s.tags),
		Paths:   make(map[string]*PathItem),
	}
	gen := NewSchemaGenerator()
	usedIDs := make(map[string]int)

	for _, e := range entries {
		path := e.Pattern.Template()
		for _, m := range route.GetMethods(e.Route) {
			item := doc.Paths[path]
			if item == nil {
				item = &PathItem{}
				doc.Paths[path] = item
			}
			slot := item.operation(m.Upper())
			if slot == nil || *slot != nil {
				continue
			}
			op := buildOperation(gen, e.Pattern, e.Route, m)
			op.OperationID = uniqueID(usedIDs, op.OperationID)
			*slot = op
		}
	}

	if len(doc.Paths) == 0 {
		doc.Paths = nil
	}
	if schemas := gen.Schemas(); len(schemas) > 0 {
		doc.Components = &Components{Schemas: schemas}
	}
	return doc
}

func buildOperation(gen *SchemaGenerator, p *pattern.Pattern, r *route.Route, m route.Method) *Operation {
	meta := route.GetMeta(r)
	op := &Operation{
		OperationID: metaString(meta, "operationId"),
		Summary:     metaString(meta, "summary"),
		Description: metaString(meta, "description"),
		Tags:        metaStrings(meta, "tags"),
		Responses:   make(map[string]*Response),
	}
	if d, ok := meta["deprecated"].(bool); ok {
		op.Deprecated = d
	}
	if op.OperationID == "" {
		op.OperationID = operationID(m, p.PathMatch)
	}

	op.Parameters = append(op.Parameters, pathParameters(gen, p, route.GetParams(r))...)
	op.Parameters = append(op.Parameters, queryParameters(gen, route.GetQuery(r))...)

	if body := schemaOf(gen, route.GetBody(r)); body != nil {
		op.RequestBody = &RequestBody{
			Required: true,
			Content:  map[string]*MediaType{"application/json": {Schema: body}},
		}
	}

	if out := schemaOf(gen, route.GetOutput(r)); out != nil {
		op.Responses["200"] = &Response{
			Description: "OK",
			Content:     map[string]*MediaType{"application/json": {Schema: out}},
		}
	} else {
		op.Responses["default"] = &Response{Description: "Default response"}
	}
	if op.RequestBody != nil || len(op.Parameters) > 0 {
		op.Responses["400"] = &Response{Description: "Validation failed"}
	}

	return op
}

// pathParameters describes every capture of p. A params schema refines the
// type of the captures it names.
func pathParameters(gen *SchemaGenerator, p *pattern.Pattern, def *route.SchemaDef) []*Parameter {
	props := properties(gen, def)
	var params []*Parameter
	for _, c := range p.Captures() {
		param := &Parameter{Name: c.Name, In: "path", Required: true, Schema: Schema{"type": "string"}}
		if c.CatchAll {
			param.Schema = Schema{"type": "array", "items": Schema{"type": "string"}}
			param.Style = "simple"
			param.Description = "Remaining path segments."
		}
		if s, ok := props[c.Name]; ok && !c.CatchAll {
			param.Schema = s
		}
		params = append(params, param)
	}
	return params
}

func queryParameters(gen *SchemaGenerator, def *route.SchemaDef) []*Parameter {
	props := properties(gen, def)
	required := requiredSet(gen, def)

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	slices.Sort(names)

	params := make([]*Parameter, 0, len(names))
	for _, name := range names {
		params = append(params, &Parameter{
			Name:     name,
			In:       "query",
			Required: required[name],
			Schema:   props[name],
		})
	}
	return params
}

// schemaOf converts an attached schema. Struct schemas go through the
// generator; JSON Schema documents are used as they are. Other schema
// implementations have no description and yield nil.
func schemaOf(gen *SchemaGenerator, def *route.SchemaDef) Schema {
	if def == nil || def.Schema == nil {
		return nil
	}
	switch s := def.Schema.(type) {
	case interface{ Document() map[string]any }:
		return s.Document()
	case interface{ Type() reflect.Type }:
		return gen.Generate(s.Type())
	}
	return nil
}

// resolved returns the object schema behind def, following a component
// reference.
func resolved(gen *SchemaGenerator, def *route.SchemaDef) Schema {
	s := schemaOf(gen, def)
	if ref, ok := s["$ref"].(string); ok {
		return gen.Schemas()[strings.TrimPrefix(ref, "#/components/schemas/")]
	}
	return s
}

func properties(gen *SchemaGenerator, def *route.SchemaDef) map[string]Schema {
	out := make(map[string]Schema)
	props, _ := resolved(gen, def)["properties"].(map[string]any)
	for name, v := range props {
		if s, ok := v.(map[string]any); ok {
			out[name] = s
		}
	}
	return out
}

func requiredSet(gen *SchemaGenerator, def *route.SchemaDef) map[string]bool {
	out := make(map[string]bool)
	switch req := resolved(gen, def)["required"].(type) {
	case []string:
		for _, name := range req {
			out[name] = true
		}
	case []any:
		for _, name := range req {
			if s, ok := name.(string); ok {
				out[s] = true
			}
		}
	}
	return out
}

// operationID derives an identifier such as "getUsersId" from a method and
// match pattern.
func operationID(m route.Method, pathMatch string) string {
	var b strings.Builder
	b.WriteString(string(m))
	upper := true
	for _, r := range pathMatch {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func uniqueID(used map[string]int, id string) string {
	used[id]++
	if n := used[id]; n > 1 {
		return id + "_" + strconv.Itoa(n)
	}
	return id
}

func metaString(meta route.Meta, key string) string {
	s, _ := meta[key].(string)
	return s
}

func metaStrings(meta route.Meta, key string) []string {
	switch v := meta[key].(type) {
	case string:
		return []string{v}
	case []string:
		return slices.Clone(v)
	case []any:
		var out []string
		for _, x := range v {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
