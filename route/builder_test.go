package route

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(*Context) (any, error) { return nil, nil }

func TestBuilderMethod(t *testing.T) {
	t.Run("normalizes and dedupes", func(t *testing.T) {
		r := New().Method("GET", MethodGet, "Post").Handle(noop)
		assert.Equal(t, []Method{MethodGet, MethodPost}, GetMethods(r))
	})

	t.Run("replaces previous list", func(t *testing.T) {
		r := New().Method(MethodGet).Method(MethodDelete).Handle(noop)
		assert.Equal(t, []Method{MethodDelete}, GetMethods(r))
	})

	t.Run("all clears list", func(t *testing.T) {
		r := New().Method(MethodGet).Method(MethodAll).Handle(noop)
		assert.Equal(t, []Method{}, GetMethods(r))
		assert.Nil(t, r.def.Methods)
	})

	t.Run("invalid token panics", func(t *testing.T) {
		assert.Panics(t, func() { New().Method("GET /") })
	})
}

func TestBuilderReuse(t *testing.T) {
	b := New().Meta(Meta{"a": 1}).Provide("x", noopProvider)
	r1 := b.Handle(noop)
	b.Meta(Meta{"b": 2})
	r2 := b.Handle(noop)

	assert.Equal(t, Meta{"a": 1}, GetMeta(r1))
	assert.Equal(t, Meta{"a": 1, "b": 2}, GetMeta(r2))
}

func noopProvider(*Context) (any, error) { return nil, nil }

func TestParseMethod(t *testing.T) {
	m, ok := ParseMethod("PATCH")
	require.True(t, ok)
	assert.Equal(t, MethodPatch, m)
	assert.Equal(t, "PATCH", m.Upper())

	_, ok = ParseMethod("")
	assert.False(t, ok)
	_, ok = ParseMethod("GE T")
	assert.False(t, ok)

	assert.True(t, MethodGet.Matches(http.MethodGet))
	assert.True(t, MethodAll.Matches(http.MethodDelete))
	assert.False(t, MethodGet.Matches(http.MethodPost))
}

func TestAsHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("handler func", func(t *testing.T) {
		h, ok := AsHandler(func(*Context) (any, error) { return "hi", nil })
		require.True(t, ok)
		out, err := h(newContext(New().Handle(noop), nil, req))
		require.NoError(t, err)
		assert.Equal(t, "hi", out)
	})

	t.Run("compiled route uses raw handler", func(t *testing.T) {
		inner := HandlerFunc(func(*Context) (any, error) { return "inner", nil })
		h, ok := AsHandler(New().Handle(inner))
		require.True(t, ok)
		out, err := h(newContext(New().Handle(noop), nil, req))
		require.NoError(t, err)
		assert.Equal(t, "inner", out)
	})

	t.Run("net/http handler", func(t *testing.T) {
		_, ok := AsHandler(http.NotFoundHandler())
		assert.True(t, ok)
		_, ok = AsHandler(func(http.ResponseWriter, *http.Request) {})
		assert.True(t, ok)
	})

	t.Run("not callable", func(t *testing.T) {
		var nilRoute *Route
		var nilHandler http.HandlerFunc
		for _, v := range []any{
			nil, 42, "x", map[string]any{}, HandlerFunc(nil),
			nilRoute, &Route{}, embedded{}, nilHandler,
		} {
			_, ok := AsHandler(v)
			assert.False(t, ok, "%T", v)
		}
	})
}
