package route

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessors(t *testing.T) {
	r := New().
		Path("/users/:id").
		Method(MethodGet, MethodPut).
		Meta(Meta{"summary": "user"}).
		Handle(noop)

	assert.Equal(t, "/users/:id", GetPath(r))
	assert.Equal(t, []Method{MethodGet, MethodPut}, GetMethods(r))
	assert.Equal(t, Meta{"summary": "user"}, GetMeta(r))
	assert.Nil(t, GetProviders(r))
	assert.Nil(t, GetBody(r))
	assert.NotNil(t, GetHandler(r))
	assert.Equal(t, []string{"GET /users/:id", "PUT /users/:id"}, OperationKeys(r))

	t.Run("methods copy", func(t *testing.T) {
		ms := GetMethods(r)
		ms[0] = MethodDelete
		assert.Equal(t, MethodGet, GetMethods(r)[0])
	})

	t.Run("no keys without path or methods", func(t *testing.T) {
		assert.Empty(t, OperationKeys(New().Method(MethodGet).Handle(noop)))
		assert.Empty(t, OperationKeys(New().Path("/x").Handle(noop)))
	})
}

func TestClone(t *testing.T) {
	orig := New().
		Path("/a").
		Method(MethodGet).
		Meta(Meta{"k": "v"}).
		Provide("db", noopProvider).
		Handle(noop)

	cp := Clone(orig)
	require.NotSame(t, orig, cp)
	assert.Equal(t, GetPath(orig), GetPath(cp))

	cp.def.Meta["k"] = "changed"
	cp.def.Providers["extra"] = noopProvider
	cp.def.Methods[0] = MethodPost

	assert.Equal(t, "v", GetMeta(orig)["k"])
	assert.NotContains(t, GetProviders(orig), "extra")
	assert.Equal(t, []Method{MethodGet}, GetMethods(orig))
}

func TestWithProviders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("route without providers", func(t *testing.T) {
		orig := New().Handle(func(c *Context) (any, error) { return c.Provide("foo") })
		f := Provider(func(*Context) (any, error) { return "f", nil })

		over := WithProviders(orig, Providers{"foo": f})

		assert.Nil(t, GetProviders(orig))
		require.Len(t, GetProviders(over), 1)
		assert.Contains(t, GetProviders(over), "foo")

		out, err := over.Invoke(req)
		require.NoError(t, err)
		assert.Equal(t, "f", out)

		_, err = orig.Invoke(req)
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("partial override keeps other providers", func(t *testing.T) {
		orig := New().
			Provide("a", func(*Context) (any, error) { return "a1", nil }).
			Provide("b", func(*Context) (any, error) { return "b1", nil }).
			Handle(func(c *Context) (any, error) {
				a, _ := c.Provide("a")
				b, _ := c.Provide("b")
				return a.(string) + b.(string), nil
			})

		over := WithProviders(orig, Providers{"b": func(*Context) (any, error) { return "b2", nil }})

		out, err := over.Invoke(req)
		require.NoError(t, err)
		assert.Equal(t, "a1b2", out)

		out, err = orig.Invoke(req)
		require.NoError(t, err)
		assert.Equal(t, "a1b1", out)
	})

	t.Run("repeated override is stable", func(t *testing.T) {
		orig := New().Handle(func(c *Context) (any, error) { return c.Provide("x") })
		p := Providers{"x": func(*Context) (any, error) { return 1, nil }}

		once := WithProviders(orig, p)
		twice := WithProviders(once, p)

		out1, err := once.Invoke(req)
		require.NoError(t, err)
		out2, err := twice.Invoke(req)
		require.NoError(t, err)
		assert.Equal(t, out1, out2)
		assert.Len(t, GetProviders(twice), 1)
	})

	t.Run("last override wins", func(t *testing.T) {
		orig := New().Handle(func(c *Context) (any, error) { return c.Provide("x") })

		first := WithProviders(orig, Providers{"x": func(*Context) (any, error) { return 1, nil }})
		second := WithProviders(first, Providers{"x": func(*Context) (any, error) { return 2, nil }})

		out, err := first.Invoke(req)
		require.NoError(t, err)
		assert.Equal(t, 1, out)

		out, err = second.Invoke(req)
		require.NoError(t, err)
		assert.Equal(t, 2, out)

		assert.Nil(t, GetProviders(orig))
		assert.Len(t, GetProviders(first), 1)
		assert.Len(t, GetProviders(second), 1)
	})
}
