// Package pattern compiles route file paths into URL match patterns.
//
// A route tree laid out on disk maps to URLs by file position:
//
//	index.ts                        -> /
//	blog/index.ts                   -> /blog
//	blog/[slug].ts                  -> /blog/:slug
//	blog/[slug]/comments/[...rest]  -> /blog/:slug/comments/:rest*
//	docs/[[...path]].ts             -> /docs/*
//	(marketing)/about.ts            -> /about
//
// # Segments
//
// Every "/"-delimited segment of a path is classified, in this fixed order:
//
//	Group             (name)      organizational only, never emitted or captured
//	Index             index       the directory's own route, dropped
//	Dynamic           [name]      single segment capture, emitted as :name
//	CatchAll          [...name]   one or more trailing segments, emitted as :name*
//	OptionalCatchAll  [[...name]] zero or more trailing segments, emitted as *
//	Static            anything else, emitted unchanged
//
// Catch-all segments must terminate the path. The only thing allowed after
// one is a single final index segment ("[...slug]/index.ts"). Anything else
// is a misnamed file and Compile fails with an error wrapping
// ErrCatchAllPlacement.
//
// # Parameters
//
// A compiled Pattern derives request parameters from a URL:
//
//	p, _ := pattern.Compile("blog/[slug]/comments/[...rest].ts")
//	u, _ := url.Parse("/blog/hello/comments/a/b/c")
//	p.DeriveParams(u) // {"slug": "hello", "rest": ["a", "b", "c"]}
//
// Single captures yield a string, catch-all captures a []string.
//
// # Extensions
//
// Only files with a recognized extension are route files. The default set is
// tsx, jsx, ts, js and go; use WithExtensions to replace it. Compile returns
// a nil Pattern and a nil error for any other file.
package pattern
