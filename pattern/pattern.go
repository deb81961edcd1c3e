package pattern

import (
	"net/url"
	"slices"
	"sort"
	"strings"

	"github.com/vitalvas/fsroute/diag"
)

// AllMethods is the method set of every compiled pattern. Methods are
// narrowed later, when handlers are assembled.
const AllMethods = "*"

// DefaultExtensions are the file extensions recognized when no
// WithExtensions option is given.
var DefaultExtensions = []string{"tsx", "jsx", "ts", "js", "go"}

// Params maps parameter names to a string (single capture) or a []string
// (catch-all capture).
type Params map[string]any

// String returns the single-capture value for name.
func (p Params) String(name string) (string, bool) {
	v, ok := p[name].(string)
	return v, ok
}

// Strings returns the catch-all value for name.
func (p Params) Strings(name string) ([]string, bool) {
	v, ok := p[name].([]string)
	return v, ok
}

// Capture is one parameter extraction record.
type Capture struct {
	// Position is the index of the capturing segment in the file path,
	// after group segments are removed.
	Position int
	Name     string
	CatchAll bool
	Optional bool
}

type tokenKind int

const (
	tokenStatic tokenKind = iota
	tokenDynamic
	tokenCatchAll
	tokenOptional
)

// token is one emitted piece of the match pattern.
type token struct {
	kind tokenKind
	text string // literal text or parameter name
}

// Pattern is a compiled route file path.
type Pattern struct {
	// Source is the file path as given to Compile.
	Source string
	// PathMatch is the match string, e.g. "/blog/:slug".
	PathMatch string
	// Methods is always AllMethods.
	Methods string

	segments []Segment
	tokens   []token
	captures []Capture
}

// Compiler compiles file paths using a fixed set of extensions.
// A Compiler is immutable after New and safe for concurrent use.
type Compiler struct {
	extensions []string
	sink       diag.Sink
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithExtensions replaces the recognized file extensions.
// Leading dots are ignored: "ts" and ".ts" are equivalent.
func WithExtensions(exts ...string) Option {
	return func(c *Compiler) {
		c.extensions = c.extensions[:0]
		for _, ext := range exts {
			ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
			if ext != "" {
				c.extensions = append(c.extensions, ext)
			}
		}
	}
}

// WithSink sets the diagnostic sink. Compilation emits debug events only.
func WithSink(s diag.Sink) Option {
	return func(c *Compiler) {
		c.sink = s
	}
}

// New returns a Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		extensions: slices.Clone(DefaultExtensions),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sink = diag.OrNop(c.sink)

	// Longest first so that "d.ts" wins over "ts".
	sort.SliceStable(c.extensions, func(i, j int) bool {
		return len(c.extensions[i]) > len(c.extensions[j])
	})
	return c
}

// Extensions returns the recognized extensions, longest first.
func (c *Compiler) Extensions() []string {
	return slices.Clone(c.extensions)
}

var defaultCompiler = New()

// Compile compiles path with the default extensions.
func Compile(path string) (*Pattern, error) {
	return defaultCompiler.Compile(path)
}

// MustCompile is like Compile but panics on a placement error or when path
// is not a route file.
func MustCompile(path string) *Pattern {
	p, err := Compile(path)
	if err != nil {
		panic(err)
	}
	if p == nil {
		panic("pattern: " + path + " is not a route file")
	}
	return p
}

// Compile turns a relative file path into a Pattern.
//
// It returns nil, nil when the extension is not recognized. A misplaced
// catch-all segment returns a *PlacementError.
func (c *Compiler) Compile(path string) (*Pattern, error) {
	trimmed, ok := c.stripExtension(path)
	if !ok {
		c.sink.Emit(diag.Event{
			Level:   diag.LevelDebug,
			Kind:    diag.KindNotRouteFile,
			File:    path,
			Message: "file does not match extensions",
		})
		return nil, nil
	}

	parts := splitPath(trimmed)
	p := &Pattern{
		Source:   path,
		Methods:  AllMethods,
		segments: make([]Segment, 0, len(parts)),
	}
	for _, part := range parts {
		p.segments = append(p.segments, ClassifySegment(part))
	}

	for idx, seg := range p.segments {
		switch seg.Kind {
		case SegmentIndex:
			continue
		case SegmentDynamic:
			p.captures = append(p.captures, Capture{Position: idx, Name: seg.Name})
			p.tokens = append(p.tokens, token{kind: tokenDynamic, text: seg.Name})
		case SegmentCatchAll, SegmentOptionalCatchAll:
			optional := seg.Kind == SegmentOptionalCatchAll
			if !terminal(p.segments, idx) {
				return nil, &PlacementError{Path: path, Segment: seg.Raw, Optional: optional}
			}
			p.captures = append(p.captures, Capture{Position: idx, Name: seg.Name, CatchAll: true, Optional: optional})
			if optional {
				p.tokens = append(p.tokens, token{kind: tokenOptional, text: seg.Name})
			} else {
				p.tokens = append(p.tokens, token{kind: tokenCatchAll, text: seg.Name})
			}
		default:
			p.tokens = append(p.tokens, token{kind: tokenStatic, text: seg.Raw})
		}

		c.sink.Emit(diag.Event{
			Level:   diag.LevelDebug,
			Kind:    diag.KindSegmentCompiled,
			File:    path,
			Message: "adding " + seg.Kind.String() + " part",
			Fields:  map[string]any{"segment": seg.Raw},
		})
	}

	p.PathMatch = p.render(func(t token) string {
		switch t.kind {
		case tokenDynamic:
			return ":" + t.text
		case tokenCatchAll:
			return ":" + t.text + "*"
		case tokenOptional:
			return "*"
		default:
			return t.text
		}
	})

	return p, nil
}

func (c *Compiler) stripExtension(path string) (string, bool) {
	for _, ext := range c.extensions {
		if strings.HasSuffix(path, "."+ext) {
			return strings.TrimSuffix(path, "."+ext), true
		}
	}
	return "", false
}

// terminal reports whether the segment at idx is last, or is followed only
// by a final index segment.
func terminal(segs []Segment, idx int) bool {
	last := len(segs) - 1
	if idx == last {
		return true
	}
	next := idx + 1
	return next == last && segs[next].Kind == SegmentIndex
}

func (p *Pattern) render(f func(token) string) string {
	out := make([]string, len(p.tokens))
	for i, t := range p.tokens {
		out[i] = f(t)
	}
	return "/" + strings.Join(out, "/")
}

// String returns PathMatch.
func (p *Pattern) String() string {
	return p.PathMatch
}

// Template returns the pattern with every capture written as {name}, the
// form used by OpenAPI path templates.
func (p *Pattern) Template() string {
	return p.render(func(t token) string {
		if t.kind == tokenStatic {
			return t.text
		}
		return "{" + t.text + "}"
	})
}

// Segments returns the classified file segments, group segments excluded.
func (p *Pattern) Segments() []Segment {
	return slices.Clone(p.segments)
}

// Captures returns the extraction records in ascending position order.
func (p *Pattern) Captures() []Capture {
	return slices.Clone(p.captures)
}

// ParamNames returns the capture names in order.
func (p *Pattern) ParamNames() []string {
	names := make([]string, len(p.captures))
	for i, c := range p.captures {
		names[i] = c.Name
	}
	return names
}

// DeriveParams extracts parameters from u. For each capture the URL
// segments are sliced from the capture's position: a single capture takes
// the first element, a catch-all keeps the whole slice.
func (p *Pattern) DeriveParams(u *url.URL) Params {
	if u == nil {
		return Params{}
	}
	return p.DeriveParamsPath(u.Path)
}

// DeriveParamsPath is DeriveParams for a bare request path.
func (p *Pattern) DeriveParamsPath(path string) Params {
	parts := splitPath(path)
	params := make(Params, len(p.captures))
	for _, c := range p.captures {
		var value []string
		if c.Position < len(parts) {
			value = parts[c.Position:]
		}
		if c.CatchAll {
			params[c.Name] = append([]string{}, value...)
			continue
		}
		if len(value) > 0 {
			params[c.Name] = value[0]
		}
	}
	return params
}

// Match reports whether path matches the pattern and returns the captured
// parameters. Static tokens compare literally, a dynamic token takes one
// segment, a catch-all needs at least one remaining segment and an optional
// catch-all accepts none.
func (p *Pattern) Match(path string) (Params, bool) {
	parts := splitPath(path)
	params := make(Params, len(p.captures))
	pos := 0

	for _, t := range p.tokens {
		switch t.kind {
		case tokenStatic:
			if pos >= len(parts) || parts[pos] != t.text {
				return nil, false
			}
			pos++
		case tokenDynamic:
			if pos >= len(parts) {
				return nil, false
			}
			params[t.text] = parts[pos]
			pos++
		case tokenCatchAll:
			if pos >= len(parts) {
				return nil, false
			}
			params[t.text] = append([]string{}, parts[pos:]...)
			pos = len(parts)
		case tokenOptional:
			params[t.text] = append([]string{}, parts[pos:]...)
			pos = len(parts)
		}
	}

	if pos != len(parts) {
		return nil, false
	}
	return params, true
}
