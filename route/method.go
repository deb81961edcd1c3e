package route

import (
	"strings"

	"golang.org/x/net/http/httpguts"
)

// Method is a lowercase HTTP method name.
type Method string

const (
	MethodGet     Method = "get"
	MethodPost    Method = "post"
	MethodPut     Method = "put"
	MethodDelete  Method = "delete"
	MethodPatch   Method = "patch"
	MethodHead    Method = "head"
	MethodOptions Method = "options"

	// MethodAll matches every method. A route built with it has no method
	// list.
	MethodAll Method = "all"
)

// NamedMethods are the methods with a dedicated export slot, in slot order.
var NamedMethods = []Method{
	MethodGet,
	MethodPost,
	MethodPut,
	MethodDelete,
	MethodPatch,
	MethodHead,
	MethodOptions,
}

// ParseMethod normalizes s to a Method. It reports false when s is not a
// valid method token per RFC 9110 Section 9.1.
func ParseMethod(s string) (Method, bool) {
	if s == "" || !httpguts.ValidHeaderFieldName(s) {
		return "", false
	}
	return Method(strings.ToLower(s)), true
}

// Upper returns the method in the form used on the wire, e.g. "GET".
func (m Method) Upper() string {
	return strings.ToUpper(string(m))
}

// Matches reports whether a request method is served by m.
func (m Method) Matches(requestMethod string) bool {
	return m == MethodAll || strings.EqualFold(string(m), requestMethod)
}
