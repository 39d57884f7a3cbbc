package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skeleton/pkg/types"
)

func TestConstructorsStatus(t *testing.T) {
	cases := map[int]*Response{
		http.StatusOK:                  OK(nil),
		http.StatusCreated:             Created(nil),
		http.StatusNoContent:           NoContent(),
		http.StatusBadRequest:          BadRequest(""),
		http.StatusUnauthorized:        Unauthorized(""),
		http.StatusForbidden:           Forbidden(""),
		http.StatusNotFound:            NotFound(""),
		http.StatusMethodNotAllowed:    MethodNotAllowed(""),
		http.StatusConflict:            Conflict(""),
		http.StatusTooManyRequests:     TooManyRequests(""),
		http.StatusInternalServerError: InternalServerError(""),
		http.StatusServiceUnavailable:  ServiceUnavailable(""),
	}
	for want, r := range cases {
		if r.StatusCode() != want {
			t.Fatalf("status=%d want %d", r.StatusCode(), want)
		}
	}
}

func TestEmitJSON(t *testing.T) {
	w := httptest.NewRecorder()
	if err := Created(map[string]int{"id": 7}).WithHeader("X-Id", "7").Emit(w); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	if w.Header().Get("X-Id") != "7" {
		t.Fatalf("header not copied")
	}
	var body map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["id"] != 7 {
		t.Fatalf("body=%q err=%v", w.Body.String(), err)
	}
}

func TestEmitText(t *testing.T) {
	w := httptest.NewRecorder()
	if err := OK("hello").Emit(w); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if w.Body.String() != "hello" || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("body=%q ct=%s", w.Body.String(), w.Header().Get("Content-Type"))
	}
}

func TestEmitNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	if err := NoContent().Emit(w); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestErrorPayload(t *testing.T) {
	r := NotFound("")
	w := httptest.NewRecorder()
	_ = r.Emit(w)
	var body types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Code != 404 || body.Error != "Not Found" {
		t.Fatalf("body=%+v", body)
	}
}

func TestResponseAsError(t *testing.T) {
	var err error = Forbidden("nope")
	var r *Response
	if !errors.As(err, &r) || r.StatusCode() != http.StatusForbidden {
		t.Fatalf("errors.As failed: %v", err)
	}
	if err.Error() != "nope" {
		t.Fatalf("message=%q", err.Error())
	}
}
