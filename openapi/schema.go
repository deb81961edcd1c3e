package openapi

import (
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// SchemaGenerator converts Go types to JSON Schema. Named struct types are
// collected as component schemas and referenced with $ref.
type SchemaGenerator struct {
	schemas map[string]Schema
	visited map[reflect.Type]string
}

func NewSchemaGenerator() *SchemaGenerator {
	return &SchemaGenerator{
		schemas: make(map[string]Schema),
		visited: make(map[reflect.Type]string),
	}
}

// Schemas returns the collected component schemas.
func (g *SchemaGenerator) Schemas() map[string]Schema {
	return g.schemas
}

// Generate returns the schema for t.
func (g *SchemaGenerator) Generate(t reflect.Type) Schema {
	nullable := false
	if t.Kind() == reflect.Pointer {
		nullable = true
		t = t.Elem()
	}

	var s Schema
	if t.Kind() == reflect.Struct && t != reflect.TypeFor[time.Time]() && t.Name() != "" {
		s = Schema{"$ref": "#/components/schemas/" + g.component(t)}
		if nullable {
			return Schema{"anyOf": []any{s, Schema{"type": "null"}}}
		}
		return s
	}

	s = g.inline(t)
	if nullable && s != nil {
		if typ, ok := s["type"].(string); ok {
			s["type"] = []any{typ, "null"}
		}
	}
	return s
}

func (g *SchemaGenerator) component(t reflect.Type) string {
	if name, ok := g.visited[t]; ok {
		return name
	}
	name := schemaName(t)
	if _, taken := g.schemas[name]; taken {
		pkg := t.PkgPath()
		if i := strings.LastIndexByte(pkg, '/'); i >= 0 {
			pkg = pkg[i+1:]
		}
		name = pkg + "_" + name
	}
	// Registered before recursing so self-referencing types resolve.
	g.visited[t] = name
	g.schemas[name] = Schema{}
	g.schemas[name] = g.object(t)
	return name
}

func (g *SchemaGenerator) inline(t reflect.Type) Schema {
	if t == reflect.TypeFor[time.Time]() {
		return Schema{"type": "string", "format": "date-time"}
	}

	switch t.Kind() {
	case reflect.Bool:
		return Schema{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Schema{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return Schema{"type": "number"}
	case reflect.String:
		return Schema{"type": "string"}
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return Schema{"type": "string", "format": "byte"}
		}
		return Schema{"type": "array", "items": g.Generate(t.Elem())}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return Schema{"type": "object"}
		}
		return Schema{"type": "object", "additionalProperties": g.Generate(t.Elem())}
	case reflect.Struct:
		return g.object(t)
	case reflect.Interface:
		return Schema{}
	}
	return nil
}

func (g *SchemaGenerator) object(t reflect.Type) Schema {
	props := make(map[string]any)
	var required []string
	g.collectFields(t, props, &required)

	s := Schema{"type": "object"}
	if len(props) > 0 {
		s["properties"] = props
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// collectFields adds the exported fields of t. Embedded structs without a
// json name are inlined, as encoding/json does.
func (g *SchemaGenerator) collectFields(t reflect.Type, props map[string]any, required *[]string) {
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name, _, _ := strings.Cut(jsonTag, ",")

		if field.Anonymous && name == "" {
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				g.collectFields(ft, props, required)
				continue
			}
		}

		if name == "" {
			name = field.Name
		}

		fs := g.Generate(field.Type)
		if fs == nil {
			continue
		}
		applyValidateTag(fs, field.Tag.Get("validate"))
		props[name] = fs

		if hasRule(field.Tag.Get("validate"), "required") && !slices.Contains(*required, name) {
			*required = append(*required, name)
		}
	}
}

// applyValidateTag maps the validator rules that have a JSON Schema
// equivalent.
func applyValidateTag(s Schema, tag string) {
	if tag == "" || s["$ref"] != nil {
		return
	}
	typ, _ := s["type"].(string)
	for _, rule := range strings.Split(tag, ",") {
		key, val, _ := strings.Cut(rule, "=")
		switch key {
		case "email":
			s["format"] = "email"
		case "uuid", "uuid4":
			s["format"] = "uuid"
		case "url", "uri":
			s["format"] = "uri"
		case "oneof":
			var enum []any
			for _, v := range strings.Fields(val) {
				enum = append(enum, v)
			}
			s["enum"] = enum
		case "min", "max", "gte", "lte":
			n, ok := number(val)
			if !ok {
				continue
			}
			lower := key == "min" || key == "gte"
			switch typ {
			case "string":
				s[pick(lower, "minLength", "maxLength")] = n
			case "array":
				s[pick(lower, "minItems", "maxItems")] = n
			default:
				s[pick(lower, "minimum", "maximum")] = n
			}
		}
	}
}

func hasRule(tag, rule string) bool {
	for _, r := range strings.Split(tag, ",") {
		if r == rule {
			return true
		}
	}
	return false
}

func number(s string) (any, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return nil, false
}

func pick(first bool, a, b string) string {
	if first {
		return a
	}
	return b
}

// schemaName returns the component name of a named type. Generic type
// arguments are stripped of their package paths.
func schemaName(t reflect.Type) string {
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		args := name[i+1 : len(name)-1]
		var parts []string
		for _, a := range strings.Split(args, ",") {
			if j := strings.LastIndexAny(a, "./"); j >= 0 {
				a = a[j+1:]
			}
			parts = append(parts, a)
		}
		name = name[:i] + "_" + strings.Join(parts, "_")
	}
	return name
}
