package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the wire format for all error replies. TraceID matches the
// request id logged server side so clients can correlate failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Detail  string `json:"detail,omitempty"`
	TraceID string `json:"traceId"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends an error envelope carrying the request trace id.
func Error(w http.ResponseWriter, r *http.Request, status int, title, detail string) {
	JSON(w, status, ErrorResponse{
		Error:   title,
		Detail:  detail,
		TraceID: middleware.GetReqID(r.Context()),
	})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
