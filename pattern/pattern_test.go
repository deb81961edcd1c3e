package pattern

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/fsroute/diag"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestCompile(t *testing.T) {
	tests := []struct {
		path      string
		pathMatch string
		template  string
		params    []string
	}{
		{"index.ts", "/", "/", nil},
		{"blog/index.ts", "/blog", "/blog", nil},
		{"blog.ts", "/blog", "/blog", nil},
		{"(marketing)/about.ts", "/about", "/about", nil},
		{"(a)/(b)/about/index.tsx", "/about", "/about", nil},
		{"users/[id].ts", "/users/:id", "/users/{id}", []string{"id"}},
		{"blog/[slug]/comments/[...rest].ts", "/blog/:slug/comments/:rest*", "/blog/{slug}/comments/{rest}", []string{"slug", "rest"}},
		{"shop/[...slug]/index.js", "/shop/:slug*", "/shop/{slug}", []string{"slug"}},
		{"docs/[[...path]].jsx", "/docs/*", "/docs/{path}", []string{"path"}},
		{"docs/[[...path]]/index.go", "/docs/*", "/docs/{path}", []string{"path"}},
		{"/api//v1/[org]/repos.ts", "/api/v1/:org/repos", "/api/v1/{org}/repos", []string{"org"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := Compile(tt.path)
			require.NoError(t, err)
			require.NotNil(t, p)

			assert.Equal(t, tt.path, p.Source)
			assert.Equal(t, tt.pathMatch, p.PathMatch)
			assert.Equal(t, tt.pathMatch, p.String())
			assert.Equal(t, tt.template, p.Template())
			assert.Equal(t, AllMethods, p.Methods)
			if tt.params == nil {
				assert.Empty(t, p.ParamNames())
			} else {
				assert.Equal(t, tt.params, p.ParamNames())
			}
		})
	}
}

func TestCompileNotRouteFile(t *testing.T) {
	rec := &diag.Recorder{}
	c := New(WithSink(rec))

	for _, path := range []string{"README.md", "blog/style.css", "blog/ts", "main.tsx.bak"} {
		p, err := c.Compile(path)
		assert.NoError(t, err, path)
		assert.Nil(t, p, path)
	}

	assert.Len(t, rec.Filter(diag.KindNotRouteFile), 4)
}

func TestCompileCatchAllPlacement(t *testing.T) {
	tests := []struct {
		path     string
		segment  string
		optional bool
	}{
		{"shop/[...slug]/[id].ts", "[...slug]", false},
		{"shop/[...slug]/details.ts", "[...slug]", false},
		{"shop/[...slug]/index/extra.ts", "[...slug]", false},
		{"docs/[[...path]]/edit.ts", "[[...path]]", true},
		{"[...a]/[...b].ts", "[...a]", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := Compile(tt.path)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, ErrCatchAllPlacement))

			var perr *PlacementError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.path, perr.Path)
			assert.Equal(t, tt.segment, perr.Segment)
			assert.Equal(t, tt.optional, perr.Optional)
			assert.Contains(t, err.Error(), "must terminate the path")
		})
	}
}

func TestWithExtensions(t *testing.T) {
	c := New(WithExtensions(".go", "page.go", " "))
	assert.Equal(t, []string{"page.go", "go"}, c.Extensions())

	p, err := c.Compile("users/[id].page.go")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "/users/:id", p.PathMatch)

	p, err = c.Compile("users/[id].ts")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestExtensionOnlyStrippedAtEnd(t *testing.T) {
	p, err := Compile("v1.ts.handlers/list.ts")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "/v1.ts.handlers/list", p.PathMatch)
}

func TestCompileDebugDiagnostics(t *testing.T) {
	rec := &diag.Recorder{}
	_, err := New(WithSink(rec)).Compile("blog/[slug]/index.ts")
	require.NoError(t, err)

	events := rec.Filter(diag.KindSegmentCompiled)
	require.Len(t, events, 2)
	assert.Equal(t, diag.LevelDebug, events[0].Level)
	assert.Equal(t, "blog", events[0].Fields["segment"])
	assert.Equal(t, "[slug]", events[1].Fields["segment"])
}

func TestDeriveParams(t *testing.T) {
	tests := []struct {
		name string
		path string
		url  string
		want Params
	}{
		{
			name: "single and catch-all",
			path: "blog/[slug]/comments/[...rest].ts",
			url:  "/blog/hello/comments/a/b/c",
			want: Params{"slug": "hello", "rest": []string{"a", "b", "c"}},
		},
		{
			name: "single",
			path: "users/[id].ts",
			url:  "https://example.com/users/42?x=1",
			want: Params{"id": "42"},
		},
		{
			name: "catch-all before index",
			path: "shop/[...slug]/index.ts",
			url:  "/shop/a/b",
			want: Params{"slug": []string{"a", "b"}},
		},
		{
			name: "optional catch-all empty",
			path: "docs/[[...path]].ts",
			url:  "/docs",
			want: Params{"path": []string{}},
		},
		{
			name: "group segment in url ignored",
			path: "(shop)/items/[id].ts",
			url:  "/items/7",
			want: Params{"id": "7"},
		},
		{
			name: "missing single capture is absent",
			path: "users/[id].ts",
			url:  "/users",
			want: Params{},
		},
		{
			name: "no captures",
			path: "about.ts",
			url:  "/about",
			want: Params{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MustCompile(tt.path)
			assert.Equal(t, tt.want, p.DeriveParams(mustParseURL(t, tt.url)))
		})
	}
}

func TestDeriveParamsNilURL(t *testing.T) {
	assert.Equal(t, Params{}, MustCompile("users/[id].ts").DeriveParams(nil))
}

func TestDeriveParamsDoesNotAlias(t *testing.T) {
	p := MustCompile("files/[...rest].ts")
	a := p.DeriveParamsPath("/files/x/y")
	rest, ok := a.Strings("rest")
	require.True(t, ok)
	rest[0] = "changed"

	b := p.DeriveParamsPath("/files/x/y")
	assert.Equal(t, []string{"x", "y"}, b["rest"])
}

func TestRoundTrip(t *testing.T) {
	p := MustCompile("org/[org]/repo/[repo]/tree/[...path].ts")
	params := p.DeriveParamsPath("/org/acme/repo/widgets/tree/src/main.go")

	org, ok := params.String("org")
	require.True(t, ok)
	assert.Equal(t, "acme", org)

	repo, _ := params.String("repo")
	assert.Equal(t, "widgets", repo)

	path, ok := params.Strings("path")
	require.True(t, ok)
	assert.Equal(t, []string{"src", "main.go"}, path)

	_, ok = params.String("path")
	assert.False(t, ok)
}

func TestCaptures(t *testing.T) {
	p := MustCompile("a/[x]/b/[[...rest]].ts")
	caps := p.Captures()
	require.Len(t, caps, 2)
	assert.Equal(t, Capture{Position: 1, Name: "x"}, caps[0])
	assert.Equal(t, Capture{Position: 3, Name: "rest", CatchAll: true, Optional: true}, caps[1])
	assert.Less(t, caps[0].Position, caps[1].Position)

	caps[0].Name = "mutated"
	assert.Equal(t, "x", p.Captures()[0].Name)

	segs := p.Segments()
	require.Len(t, segs, 4)
	assert.Equal(t, SegmentOptionalCatchAll, segs[3].Kind)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		url   string
		ok    bool
		wants Params
	}{
		{"root", "index.ts", "/", true, Params{}},
		{"static", "about.ts", "/about", true, Params{}},
		{"static mismatch", "about.ts", "/contact", false, nil},
		{"too long", "about.ts", "/about/us", false, nil},
		{"dynamic", "users/[id].ts", "/users/42", true, Params{"id": "42"}},
		{"dynamic missing", "users/[id].ts", "/users", false, nil},
		{"catch-all", "files/[...rest].ts", "/files/a/b", true, Params{"rest": []string{"a", "b"}}},
		{"catch-all requires one", "files/[...rest].ts", "/files", false, nil},
		{"optional zero", "docs/[[...p]].ts", "/docs", true, Params{"p": []string{}}},
		{"optional many", "docs/[[...p]].ts", "/docs/x/y", true, Params{"p": []string{"x", "y"}}},
		{"trailing slash", "users/[id].ts", "/users/42/", true, Params{"id": "42"}},
		{"index segment mid path", "index/[id].ts", "/42", true, Params{"id": "42"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, ok := MustCompile(tt.path).Match(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.wants, params)
		})
	}
}

func TestMustCompile(t *testing.T) {
	assert.Panics(t, func() { MustCompile("shop/[...a]/b.ts") })
	assert.Panics(t, func() { MustCompile("README.md") })
	assert.NotPanics(t, func() { MustCompile("a.ts") })
}
