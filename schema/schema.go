package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Schema validates an input and produces a typed output.
type Schema interface {
	Parse(input any) (any, error)
}

// Func adapts a function to the Schema interface.
type Func func(input any) (any, error)

// Parse implements Schema.
func (f Func) Parse(input any) (any, error) {
	return f(input)
}

// ErrValidation is the sentinel wrapped by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// Issue is a single validation failure.
type Issue struct {
	// Path is the dotted location of the failing value; empty for the root.
	Path string `json:"path,omitempty"`
	// Code is stable across releases, e.g. "tag.required" or "schema.type".
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError is returned by Parse when the input is rejected.
type ValidationError struct {
	// Source names the request part being parsed ("body", "query",
	// "params" or "output"). Set by the route, empty when Parse is called
	// directly.
	Source string  `json:"source,omitempty"`
	Issues []Issue `json:"issues"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.String()
	}
	prefix := "validation failed"
	if e.Source != "" {
		prefix = e.Source + " " + prefix
	}
	if len(msgs) == 0 {
		return prefix
	}
	return fmt.Sprintf("%s: %s", prefix, strings.Join(msgs, "; "))
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// WithSource returns a copy of the error tagged with source. Errors that
// are not a *ValidationError are returned unchanged.
func WithSource(err error, source string) error {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	out := *verr
	out.Source = source
	return &out
}

func (e *ValidationError) add(path, code, message string) {
	e.Issues = append(e.Issues, Issue{Path: path, Code: code, Message: message})
}

// sort orders issues by path, then code, so output is deterministic.
func (e *ValidationError) sort() {
	sort.SliceStable(e.Issues, func(i, j int) bool {
		if e.Issues[i].Path != e.Issues[j].Path {
			return e.Issues[i].Path < e.Issues[j].Path
		}
		return e.Issues[i].Code < e.Issues[j].Code
	})
}

func decodeError(err error) *ValidationError {
	verr := &ValidationError{}
	verr.add("", "decode", err.Error())
	return verr
}
