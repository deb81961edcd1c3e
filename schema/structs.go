package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

var (
	tagValidator     *validator.Validate
	tagValidatorOnce sync.Once
)

func getTagValidator() *validator.Validate {
	tagValidatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Report JSON field names rather than Go field names.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		tagValidator = v
	})
	return tagValidator
}

// StructSchema decodes inputs into T and validates `validate` struct tags.
type StructSchema[T any] struct {
	allowUnknown bool
}

// StructOption configures a StructSchema.
type StructOption func(*structConfig)

type structConfig struct {
	allowUnknown bool
}

// AllowUnknownFields accepts JSON bodies and maps with keys that do not map
// to a field of T.
func AllowUnknownFields() StructOption {
	return func(c *structConfig) {
		c.allowUnknown = true
	}
}

// Struct returns a Schema producing values of type T.
func Struct[T any](opts ...StructOption) *StructSchema[T] {
	var cfg structConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &StructSchema[T]{allowUnknown: cfg.allowUnknown}
}

// Type returns the reflect type of T.
func (s *StructSchema[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

// Parse implements Schema. The returned value has type T.
func (s *StructSchema[T]) Parse(input any) (any, error) {
	var out T

	switch in := input.(type) {
	case nil:
	case T:
		out = in
	case *T:
		if in != nil {
			out = *in
		}
	case []byte:
		if err := s.decodeJSON(in, &out); err != nil {
			return nil, decodeError(err)
		}
	case map[string]any:
		if err := s.decodeMap(in, &out); err != nil {
			return nil, decodeError(err)
		}
	default:
		return nil, decodeError(fmt.Errorf("unsupported input type %T", input))
	}

	if err := validateStruct(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *StructSchema[T]) decodeJSON(data []byte, out *T) error {
	if len(data) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if !s.allowUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(out); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected trailing data after JSON value")
	}
	return nil
}

// decodeMap decodes query and path parameter maps. String values are
// converted to the field types, so "42" decodes into an int field.
func (s *StructSchema[T]) decodeMap(in map[string]any, out *T) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      !s.allowUnknown,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func validateStruct(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	err := getTagValidator().Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &ValidationError{Issues: []Issue{{Code: "tag", Message: err.Error()}}}
	}

	result := &ValidationError{}
	for _, fe := range verrs {
		result.add(fieldPath(fe.Namespace()), "tag."+fe.Tag(), tagMessage(fe))
	}
	result.sort()
	return result
}

// fieldPath strips the top-level struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %q (%s)", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %q", fe.Tag())
	}
}
