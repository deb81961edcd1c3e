// Package route builds compiled routes: callable values that carry their
// own definition.
//
// A compiled route pairs an entry point (it is an http.Handler) with a
// Definition describing its path, methods, metadata, schemas and
// dependency providers. Routes are built with a fluent builder:
//
//	var GetUser = route.New().
//	    Path("/users/:id").
//	    Method(route.MethodGet).
//	    Meta(route.Meta{"summary": "Get a user"}).
//	    Params(schema.Struct[UserParams]()).
//	    Provide("db", func(c *route.Context) (any, error) { return openDB(c.Context()) }).
//	    Handle(func(c *route.Context) (any, error) {
//	        db, err := c.Provide("db")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return db.(*DB).User(c.Params.(UserParams).ID)
//	    })
//
// # Invocation
//
// ServeHTTP parses path parameters, query and body through the attached
// schemas, calls the handler and writes the result as JSON. A nil result
// writes 204 No Content, a *Response controls the status and headers, and a
// *schema.ValidationError becomes 400 Bad Request. Invoke runs the same
// pipeline and returns the result instead of writing it.
//
// # Introspection
//
// GetPath, GetMethods, GetMeta, GetProviders and OperationKeys read a
// route's definition. Lookup reports whether an arbitrary value is a
// compiled route, which is how file-based assembly reuses metadata from a
// handler that was already built with this package.
//
// # Overrides
//
// Clone returns an independent copy of a route. WithProviders clones a route
// and replaces some of its providers, leaving the original untouched:
//
//	stubbed := route.WithProviders(GetUser, route.Providers{
//	    "db": func(*route.Context) (any, error) { return fakeDB, nil },
//	})
package route
