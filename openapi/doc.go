// Package openapi builds an OpenAPI 3.1 document from the routes registered
// on an fsrouter.Router.
//
// Each operation identifier ("GET /users/:id") becomes one operation.
// Path parameters come from the route pattern, request and response
// schemas from the schemas attached to the route, and summary,
// description, tags and operationId from its metadata:
//
//	getUser := route.New().
//	    Meta(route.Meta{"summary": "Get a user", "tags": []string{"users"}}).
//	    Output(schema.Struct[User]()).
//	    Handle(handler)
//
// Struct schemas are converted with reflection: json tags name the
// properties and a validate:"required" tag marks them required. JSON
// Schema documents are embedded as they are.
//
// The document can be served from the router itself:
//
//	spec := openapi.NewSpec(openapi.Info{Title: "Users", Version: "1.0.0"})
//	r.Add(fsrouter.File{Path: "openapi.go", Module: spec.Module(r)})
//
// GET /openapi then returns JSON, or YAML with ?format=yaml or an Accept
// header asking for YAML.
package openapi
