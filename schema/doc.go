// Package schema provides the validators attached to route body, query,
// params and output slots.
//
// A Schema parses an input value and either returns the typed output or
// fails with a *ValidationError. Two implementations are provided:
//
//	// struct tags, go-playground/validator
//	type CreateUser struct {
//	    Name  string `json:"name" validate:"required"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//	body := schema.Struct[CreateUser]()
//
//	// JSON Schema draft 2020-12
//	query := schema.MustJSON(`{"type":"object","required":["q"]}`)
//
// Inputs are one of: []byte holding a JSON document (request bodies),
// map[string]any (query strings and path parameters) or an already-typed
// Go value (handler output).
package schema
