package openapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/fsroute/fsrouter"
	"github.com/vitalvas/fsroute/route"
)

// Handler serves the document built from r. The document is rebuilt per
// request so routes added later are included.
//
// JSON is the default. YAML is returned for ?format=yaml or when the
// Accept header names a YAML media type.
func (s *Spec) Handler(r *fsrouter.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		doc := s.BuildRouter(r)

		if wantsYAML(req) {
			data, err := yaml.Marshal(doc)
			if err != nil {
				http.Error(w, "failed to serialize OpenAPI document as YAML", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/yaml")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
			return
		}

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			http.Error(w, "failed to serialize OpenAPI document as JSON", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

// Module returns a route module serving the document on GET, ready to be
// added to r under any route file path.
func (s *Spec) Module(r *fsrouter.Router) fsrouter.Module {
	return fsrouter.Module{
		"GET": route.New().
			Meta(route.Meta{"summary": "OpenAPI document"}).
			HandleHTTP(s.Handler(r)),
	}
}

func wantsYAML(req *http.Request) bool {
	switch strings.ToLower(req.URL.Query().Get("format")) {
	case "yaml", "yml":
		return true
	case "json":
		return false
	}
	accept := req.Header.Get("Accept")
	return strings.Contains(accept, "yaml")
}
