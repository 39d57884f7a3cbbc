package httpapi

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"":      LevelOff,
		"off":   LevelOff,
		"error": LevelError,
		"info":  LevelInfo,
		"debug": LevelDebug,
		"weird": LevelInfo, // default
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestLogLevel_Overrides(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?log=debug", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("query override failed: %v", got)
	}
	r = httptest.NewRequest("GET", "/x?log=1", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("legacy query override failed: %v", got)
	}
	r = httptest.NewRequest("GET", "/x", nil)
	r.Header.Set("X-Log-Level", "error")
	if got := requestLogLevel(r); got != LevelError {
		t.Fatalf("header override failed: %v", got)
	}
}

func statusHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(code) })
}

func TestRequestLogger_Zerolog(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer func() { zlog = nil }()

	requestLogger(statusHandler(http.StatusTeapot)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/x?log=info", nil))
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line not JSON: %q", buf.String())
	}
	if line["path"] != "/x" || line["status"] != float64(http.StatusTeapot) || line["message"] != "request" {
		t.Fatalf("line=%v", line)
	}
}

func TestRequestLogger_ErrorLevelOnlyLogs5xx(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer func() { zlog = nil }()

	requestLogger(statusHandler(http.StatusNotFound)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/x?log=error", nil))
	if buf.Len() != 0 {
		t.Fatalf("4xx logged at error level: %q", buf.String())
	}
	requestLogger(statusHandler(http.StatusBadGateway)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/x?log=error", nil))
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("5xx not logged: %q", buf.String())
	}
}

func TestRequestLogger_FallbackToStdLog(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	defer log.SetOutput(orig)
	log.SetOutput(&buf)

	requestLogger(statusHandler(http.StatusOK)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/plain?log=info", nil))
	if !strings.Contains(buf.String(), "GET /plain status=200") {
		t.Fatalf("missing std log line: %q", buf.String())
	}
}

func TestRequestLogger_Off(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer func() { zlog = nil }()
	requestLogger(statusHandler(http.StatusOK)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/x?log=off", nil))
	if buf.Len() != 0 {
		t.Fatalf("logged while off: %q", buf.String())
	}
}
