package pattern

import "strings"

// SegmentKind classifies one "/"-delimited path segment.
type SegmentKind int

const (
	SegmentStatic SegmentKind = iota
	SegmentGroup
	SegmentIndex
	SegmentDynamic
	SegmentCatchAll
	SegmentOptionalCatchAll
)

var segmentKindNames = [...]string{
	SegmentStatic:           "static",
	SegmentGroup:            "group",
	SegmentIndex:            "index",
	SegmentDynamic:          "dynamic",
	SegmentCatchAll:         "catch-all",
	SegmentOptionalCatchAll: "optional-catch-all",
}

func (k SegmentKind) String() string {
	if int(k) < len(segmentKindNames) {
		return segmentKindNames[k]
	}
	return "unknown"
}

// IsCatchAll reports whether the kind captures trailing segments.
func (k SegmentKind) IsCatchAll() bool {
	return k == SegmentCatchAll || k == SegmentOptionalCatchAll
}

// Segment is a classified path segment.
type Segment struct {
	Kind SegmentKind
	Raw  string
	// Name is the parameter name for capturing kinds.
	Name string
}

// indexSegment is the file name that stands for the directory itself.
const indexSegment = "index"

// segmentShape is one bracket shape tried by ClassifySegment.
type segmentShape struct {
	kind   SegmentKind
	prefix string
	suffix string
}

// bracketShapes is evaluated in order; the first full match wins.
var bracketShapes = [...]segmentShape{
	{SegmentDynamic, "[", "]"},
	{SegmentCatchAll, "[...", "]"},
	{SegmentOptionalCatchAll, "[[...", "]]"},
}

// ClassifySegment returns the kind of a single path segment.
// Shapes are tried in the order Group, Index, Dynamic, CatchAll,
// OptionalCatchAll; a segment that matches none of them is Static.
func ClassifySegment(raw string) Segment {
	if isGroup(raw) {
		return Segment{Kind: SegmentGroup, Raw: raw}
	}
	if raw == indexSegment {
		return Segment{Kind: SegmentIndex, Raw: raw}
	}
	for _, shape := range bracketShapes {
		if name, ok := shape.match(raw); ok {
			return Segment{Kind: shape.kind, Raw: raw, Name: name}
		}
	}
	return Segment{Kind: SegmentStatic, Raw: raw}
}

func (s segmentShape) match(raw string) (string, bool) {
	if len(raw) < len(s.prefix)+len(s.suffix) {
		return "", false
	}
	if !strings.HasPrefix(raw, s.prefix) || !strings.HasSuffix(raw, s.suffix) {
		return "", false
	}
	name := raw[len(s.prefix) : len(raw)-len(s.suffix)]
	if !isParamName(name) {
		return "", false
	}
	return name, true
}

// isGroup matches the bare-parentheses shape "(name)". The name may be
// empty but must not contain bracket syntax.
func isGroup(raw string) bool {
	if len(raw) < 2 || raw[0] != '(' || raw[len(raw)-1] != ')' {
		return false
	}
	for i := 1; i < len(raw)-1; i++ {
		c := raw[i]
		if !isNameByte(c) && c != '-' {
			return false
		}
	}
	return true
}

func isParamName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isNameByte(name[i]) {
			return false
		}
	}
	return true
}

func isNameByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

// splitPath splits p on "/" and drops empty and group segments.
// File paths and request paths are split the same way so that capture
// positions line up.
func splitPath(p string) []string {
	raw := strings.Split(p, "/")
	parts := make([]string, 0, len(raw))
	for _, s := range raw {
		if s == "" || isGroup(s) {
			continue
		}
		parts = append(parts, s)
	}
	return parts
}
