// Package response provides HTTP status responses returned by controller actions.
package response

import (
	"encoding/json"
	"net/http"

	"skeleton/pkg/types"
)

// Response is an HTTP status code with optional headers and body.
// A *Response is also an error, so actions may return it on their error path.
type Response struct {
	Status int
	Header http.Header
	Body   any
}

// New builds a response with the given status and body.
func New(status int, body any) *Response {
	return &Response{Status: status, Header: make(http.Header), Body: body}
}

func OK(body any) *Response                    { return New(http.StatusOK, body) }
func Created(body any) *Response               { return New(http.StatusCreated, body) }
func NoContent() *Response                     { return New(http.StatusNoContent, nil) }
func BadRequest(msg string) *Response          { return Error(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *Response        { return Error(http.StatusUnauthorized, msg) }
func Forbidden(msg string) *Response           { return Error(http.StatusForbidden, msg) }
func NotFound(msg string) *Response            { return Error(http.StatusNotFound, msg) }
func MethodNotAllowed(msg string) *Response    { return Error(http.StatusMethodNotAllowed, msg) }
func Conflict(msg string) *Response            { return Error(http.StatusConflict, msg) }
func TooManyRequests(msg string) *Response     { return Error(http.StatusTooManyRequests, msg) }
func InternalServerError(msg string) *Response { return Error(http.StatusInternalServerError, msg) }
func ServiceUnavailable(msg string) *Response  { return Error(http.StatusServiceUnavailable, msg) }

// Error builds a response whose body is the standard JSON error payload.
// An empty msg defaults to the status text.
func Error(status int, msg string) *Response {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return New(status, types.ErrorResponse{Error: msg, Code: status})
}

// WithHeader sets a response header and returns r.
func (r *Response) WithHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(key, value)
	return r
}

// Error implements error.
func (r *Response) Error() string {
	if er, ok := r.Body.(types.ErrorResponse); ok {
		return er.Error
	}
	return http.StatusText(r.Status)
}

// StatusCode returns the HTTP status.
func (r *Response) StatusCode() int { return r.Status }

// Emit writes the response. string and []byte bodies are written as plain
// text, nil bodies write only the status, anything else is JSON encoded.
func (r *Response) Emit(w http.ResponseWriter) error {
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	if status == http.StatusNoContent || status == http.StatusNotModified || r.Body == nil {
		w.WriteHeader(status)
		return nil
	}
	switch b := r.Body.(type) {
	case string:
		return writeText(w, status, []byte(b))
	case []byte:
		return writeText(w, status, b)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(r.Body)
}

func writeText(w http.ResponseWriter, status int, b []byte) error {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(status)
	_, err := w.Write(b)
	return err
}
