package muxhandlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vitalvas/fsroute/fsrouter"
	"github.com/vitalvas/fsroute/route"
)

// newRouter registers one route file and applies mws.
func newRouter(t *testing.T, file string, mod fsrouter.Module, mws ...fsrouter.MiddlewareFunc) *fsrouter.Router {
	t.Helper()
	r := fsrouter.NewRouter()
	_, err := r.Add(fsrouter.File{Path: file, Module: mod})
	require.NoError(t, err)
	r.Use(mws...)
	return r
}

func get(r http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	r.ServeHTTP(w, req)
	return w
}

func ok(*route.Context) (any, error) { return "ok", nil }
