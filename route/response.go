package route

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vitalvas/fsroute/schema"
)

// Response lets a handler pick the status code and headers. The Body is
// encoded as JSON unless it is a []byte or string, which are written as is.
type Response struct {
	Status int
	Header http.Header
	Body   any
}

// HTTPError is an error carrying an HTTP status code.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

// Errorf returns an *HTTPError with a formatted message.
func Errorf(status int, format string, args ...any) *HTTPError {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ErrUnknownProvider is returned by Context.Provide for unregistered names.
var ErrUnknownProvider = errors.New("route: unknown provider")

// ErrProviderCycle is returned when a provider depends on itself.
var ErrProviderCycle = errors.New("route: provider cycle")

var errProviderAborted = errors.New("route: provider aborted")

// ProviderError wraps a failure to resolve a named provider.
type ProviderError struct {
	Name string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("route: provider %q: %v", e.Name, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

type errorBody struct {
	Error  string         `json:"error"`
	Source string         `json:"source,omitempty"`
	Issues []schema.Issue `json:"issues,omitempty"`
}

// StatusOf maps err to the status code ServeHTTP writes for it.
func StatusOf(err error) int {
	var herr *HTTPError
	if errors.As(err, &herr) && herr.Status != 0 {
		return herr.Status
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		if verr.Source == "output" {
			return http.StatusInternalServerError
		}
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	body := errorBody{Error: http.StatusText(status)}

	var herr *HTTPError
	var verr *schema.ValidationError
	switch {
	case errors.As(err, &herr):
		body.Error = herr.Error()
	case errors.As(err, &verr) && status == http.StatusBadRequest:
		body.Error = "validation failed"
		body.Source = verr.Source
		body.Issues = verr.Issues
	}

	writeJSON(w, status, nil, body)
}

func writeResult(w http.ResponseWriter, out any) {
	switch v := out.(type) {
	case nil:
		w.WriteHeader(http.StatusNoContent)
	case *Response:
		status := v.Status
		if status == 0 {
			status = http.StatusOK
		}
		switch body := v.Body.(type) {
		case nil:
			copyHeader(w.Header(), v.Header)
			w.WriteHeader(status)
		case []byte:
			writeRaw(w, status, v.Header, body)
		case string:
			writeRaw(w, status, v.Header, []byte(body))
		default:
			writeJSON(w, status, v.Header, body)
		}
	default:
		writeJSON(w, http.StatusOK, nil, v)
	}
}

// writeJSON encodes v before touching w so an encoding failure can still
// produce a clean 500.
func writeJSON(w http.ResponseWriter, code int, header http.Header, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	copyHeader(w.Header(), header)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

func writeRaw(w http.ResponseWriter, code int, header http.Header, data []byte) {
	copyHeader(w.Header(), header)
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", http.DetectContentType(data))
	}
	w.WriteHeader(code)
	w.Write(data)
}

func copyHeader(dst, src http.Header) {
	for k, v := range src {
		dst[k] = append([]string(nil), v...)
	}
}
