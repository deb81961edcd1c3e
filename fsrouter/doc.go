// Package fsrouter turns route files into compiled routes and serves them.
//
// A route file is a relative path plus the values it exports, given as a
// Module. File discovery and loading belong to the caller; this package
// only consumes the path string and the loaded module:
//
//	mod := fsrouter.Module{
//	    "GET":  listUsers,
//	    "POST": createUser,
//	}
//	p, err := pattern.Compile("users/index.go")
//	if err != nil {
//	    return err
//	}
//	routes := fsrouter.CreateRoutes(p, mod)
//
// # Slots
//
// Each HTTP method has a slot, read from the uppercase export name first and
// the lowercase one second. The "default" export fills the default slot and
// serves every method unless it is a compiled route declaring its own
// methods. Routes are produced in slot order: get, post, put, delete,
// patch, head, options, default.
//
// # Donors
//
// A slot value that is already a compiled route (see route.Lookup) donates
// its metadata, schemas and providers to the new route, and its inner
// handler is reused. The path always comes from the file; a donor's own
// path and, outside the default slot, its methods are ignored with a
// warning on the diagnostic sink.
//
// # Dispatch
//
// Router compiles and registers files and implements http.Handler. Routes
// are tried in registration order; the first whose pattern and method
// match serves the request. A path match without a method match yields
// 405 Method Not Allowed with an Allow header.
package fsrouter
