package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	schemaSeq atomic.Uint64
	printer   = message.NewPrinter(language.English)
)

// JSONSchema validates inputs against a compiled JSON Schema document.
type JSONSchema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// JSON compiles a JSON Schema document. Format assertions are enabled.
func JSON(doc string) (*JSONSchema, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return nil, fmt.Errorf("schema: invalid schema JSON: %w", err)
	}

	loaded, err := jsonschema.UnmarshalJSON(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema: invalid schema JSON: %w", err)
	}

	url := fmt.Sprintf("mem://schema/%d.json", schemaSeq.Add(1))
	c := jsonschema.NewCompiler()
	c.AssertFormat()
	if err := c.AddResource(url, loaded); err != nil {
		return nil, fmt.Errorf("schema: add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema: compile: %w", err)
	}

	return &JSONSchema{raw: raw, compiled: compiled}, nil
}

// MustJSON is like JSON but panics on error.
func MustJSON(doc string) *JSONSchema {
	s, err := JSON(doc)
	if err != nil {
		panic(err)
	}
	return s
}

// Document returns the decoded schema document.
func (s *JSONSchema) Document() map[string]any {
	return s.raw
}

// Parse implements Schema. The returned value is the decoded JSON value.
func (s *JSONSchema) Parse(input any) (any, error) {
	value, err := normalize(input)
	if err != nil {
		return nil, decodeError(err)
	}

	if err := s.compiled.Validate(value); err != nil {
		verr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, &ValidationError{Issues: []Issue{{Code: "schema", Message: err.Error()}}}
		}
		result := &ValidationError{}
		collectSchemaErrors(verr, result)
		result.sort()
		return nil, result
	}

	return value, nil
}

// normalize converts an input into the generic JSON value model
// (map[string]any, []any, string, float64/json.Number, bool, nil).
func normalize(input any) (any, error) {
	switch in := input.(type) {
	case nil:
		return nil, nil
	case []byte:
		if len(bytes.TrimSpace(in)) == 0 {
			return nil, nil
		}
		return jsonschema.UnmarshalJSON(bytes.NewReader(in))
	case map[string]any:
		out := make(map[string]any, len(in))
		for k, v := range in {
			nv, err := normalize(v)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case []string:
		out := make([]any, len(in))
		for i, v := range in {
			out[i] = v
		}
		return out, nil
	case string, bool, float64, json.Number:
		return in, nil
	default:
		// Typed Go values (handler output) go through a JSON round trip.
		data, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		return jsonschema.UnmarshalJSON(bytes.NewReader(data))
	}
}

// collectSchemaErrors flattens the error tree into leaf issues.
func collectSchemaErrors(verr *jsonschema.ValidationError, result *ValidationError) {
	if verr == nil {
		return
	}
	if len(verr.Causes) == 0 {
		result.add(
			strings.Join(verr.InstanceLocation, "."),
			"schema."+strings.Join(verr.ErrorKind.KeywordPath(), "."),
			verr.ErrorKind.LocalizedString(printer),
		)
		return
	}
	for _, cause := range verr.Causes {
		collectSchemaErrors(cause, result)
	}
}
