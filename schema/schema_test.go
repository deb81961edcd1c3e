package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createUser struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"min=0,max=150"`
}

type listQuery struct {
	Page  int      `json:"page" validate:"min=1"`
	Sort  string   `json:"sort" validate:"omitempty,oneof=asc desc"`
	Items []string `json:"items"`
}

func issueCodes(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	out := make(map[string]string, len(verr.Issues))
	for _, issue := range verr.Issues {
		out[issue.Path] = issue.Code
	}
	return out
}

func TestFunc(t *testing.T) {
	var s Schema = Func(func(in any) (any, error) { return in.(int) * 2, nil })
	out, err := s.Parse(21)
	require.NoError(t, err)
	assert.Equal(t, 42, out)
}

func TestStructJSONBody(t *testing.T) {
	s := Struct[createUser]()

	t.Run("valid", func(t *testing.T) {
		out, err := s.Parse([]byte(`{"name":"Ann","email":"ann@example.com","age":30}`))
		require.NoError(t, err)
		assert.Equal(t, createUser{Name: "Ann", Email: "ann@example.com", Age: 30}, out)
	})

	t.Run("tag failures", func(t *testing.T) {
		_, err := s.Parse([]byte(`{"email":"nope","age":200}`))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Equal(t, map[string]string{
			"name":  "tag.required",
			"email": "tag.email",
			"age":   "tag.max",
		}, issueCodes(t, err))
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, err := s.Parse([]byte(`{"name":"a","email":"a@b.co","extra":1}`))
		assert.Equal(t, map[string]string{"": "decode"}, issueCodes(t, err))
	})

	t.Run("unknown field allowed", func(t *testing.T) {
		out, err := Struct[createUser](AllowUnknownFields()).Parse([]byte(`{"name":"a","email":"a@b.co","extra":1}`))
		require.NoError(t, err)
		assert.Equal(t, "a", out.(createUser).Name)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := s.Parse([]byte(`{"name":`))
		assert.Equal(t, map[string]string{"": "decode"}, issueCodes(t, err))
	})
}

func TestStructMapInput(t *testing.T) {
	s := Struct[listQuery]()

	out, err := s.Parse(map[string]any{"page": "2", "sort": "asc", "items": []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, listQuery{Page: 2, Sort: "asc", Items: []string{"a", "b"}}, out)

	_, err = s.Parse(map[string]any{"page": "0", "sort": "up"})
	assert.Equal(t, map[string]string{"page": "tag.min", "sort": "tag.oneof"}, issueCodes(t, err))

	_, err = s.Parse(map[string]any{"page": "1", "unknown": "x"})
	assert.Equal(t, map[string]string{"": "decode"}, issueCodes(t, err))
}

func TestStructTypedInput(t *testing.T) {
	s := Struct[createUser]()

	out, err := s.Parse(createUser{Name: "a", Email: "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, "a", out.(createUser).Name)

	_, err = s.Parse(&createUser{Email: "a@b.co"})
	assert.Equal(t, map[string]string{"name": "tag.required"}, issueCodes(t, err))

	_, err = s.Parse(42)
	assert.Equal(t, map[string]string{"": "decode"}, issueCodes(t, err))
}

func TestStructNonStructType(t *testing.T) {
	out, err := Struct[map[string]any]().Parse([]byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, out)
}

func TestJSONSchema(t *testing.T) {
	s := MustJSON(`{
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"age": {"type": "integer"},
			"tags": {"type": "array", "items": {"type": "string"}}
		}
	}`)

	t.Run("valid body", func(t *testing.T) {
		out, err := s.Parse([]byte(`{"name":"Ann","age":3}`))
		require.NoError(t, err)
		m, ok := out.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Ann", m["name"])
	})

	t.Run("valid map with string slice", func(t *testing.T) {
		_, err := s.Parse(map[string]any{"name": "a", "tags": []string{"x", "y"}})
		require.NoError(t, err)
	})

	t.Run("missing required", func(t *testing.T) {
		_, err := s.Parse([]byte(`{"age":3}`))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Equal(t, map[string]string{"": "schema.required"}, issueCodes(t, err))
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := s.Parse([]byte(`{"name":"a","age":"old"}`))
		assert.Equal(t, map[string]string{"age": "schema.type"}, issueCodes(t, err))
	})

	t.Run("typed value", func(t *testing.T) {
		_, err := s.Parse(struct {
			Name string `json:"name"`
		}{Name: "x"})
		require.NoError(t, err)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := s.Parse([]byte(`{`))
		assert.Equal(t, map[string]string{"": "decode"}, issueCodes(t, err))
	})

	assert.Equal(t, "object", s.Document()["type"])
}

func TestJSONInvalidDocument(t *testing.T) {
	_, err := JSON(`{`)
	assert.Error(t, err)

	_, err = JSON(`{"type": 12}`)
	assert.Error(t, err)

	assert.Panics(t, func() { MustJSON(`nope`) })
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Issues: []Issue{
		{Path: "name", Code: "tag.required", Message: "is required"},
		{Code: "decode", Message: "bad input"},
	}}
	assert.Equal(t, "validation failed: name: is required; bad input", err.Error())

	tagged := WithSource(err, "body")
	assert.Equal(t, "body validation failed: name: is required; bad input", tagged.Error())
	assert.Empty(t, err.Source)
	assert.True(t, errors.Is(tagged, ErrValidation))

	plain := errors.New("boom")
	assert.Same(t, plain, WithSource(plain, "body"))

	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}
