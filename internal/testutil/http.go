package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Envelope mirrors the service's response wrapper with the payload left raw.
type Envelope struct {
	OK        bool            `json:"ok"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	RequestID string          `json:"requestId"`
}

// Serve builds a request for target and records h's response.
func Serve(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	return ServeRequest(h, httptest.NewRequest(method, target, body))
}

// ServeRequest records h's response to req.
func ServeRequest(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rr.Code, rr.Body.String())
	}
}

// DecodeJSON unmarshals the recorded body into dest.
func DecodeJSON(t *testing.T, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

// DecodeData unwraps a success envelope into dest.
func DecodeData(t *testing.T, rr *httptest.ResponseRecorder, dest any) Envelope {
	t.Helper()
	var env Envelope
	DecodeJSON(t, rr, &env)
	if !env.OK {
		t.Fatalf("expected ok envelope, got error %q", env.Error)
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return env
}
