package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackorder/pkg/errors"
	"github.com/matzehuels/stackorder/pkg/pipeline"
	"github.com/matzehuels/stackorder/pkg/topsort"
)

const carsJSON = `{"elements": [
  {"id": "car1", "type": "car", "depends": ["owner1", "brand1"]},
  {"id": "brand1", "type": "brand"},
  {"id": "brand2", "type": "brand"},
  {"id": "owner1", "type": "user", "depends": ["brand1"]},
  {"id": "owner2", "type": "user", "depends": ["brand2"]}
]}`

const cyclicJSON = `{"elements": [
  {"id": "car1", "depends": ["owner1"]},
  {"id": "owner1", "depends": ["car1"]}
]}`

func newTestServer() *Server {
	logger := log.New(io.Discard)
	return New(pipeline.NewRunner(nil, nil, logger), logger, ":0")
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("response has no request id")
	}
}

func TestSort(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/v1/sort", carsJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var res pipeline.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if want := []string{"brand1", "owner1", "car1", "brand2", "owner2"}; !slices.Equal(res.Order, want) {
		t.Errorf("Order = %v, want %v", res.Order, want)
	}
}

func TestSortGrouped(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/v1/sort/grouped?encoding=text", carsJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var res pipeline.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Groups) != 3 {
		t.Fatalf("Groups = %+v, want 3", res.Groups)
	}
	want := []topsort.Group{
		{Type: "brand", Level: 0, Position: 0, Length: 2, Elements: []string{"brand1", "brand2"}},
		{Type: "user", Level: 1, Position: 2, Length: 2, Elements: []string{"owner1", "owner2"}},
		{Type: "car", Level: 2, Position: 4, Length: 1, Elements: []string{"car1"}},
	}
	for i := range want {
		g := res.Groups[i]
		if g.Type != want[i].Type || g.Position != want[i].Position || !slices.Equal(g.Elements, want[i].Elements) {
			t.Errorf("group %d = %+v, want %+v", i, g, want[i])
		}
	}
}

func TestSortErrors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantCode   errors.Code
	}{
		{"cycle", "/v1/sort", cyclicJSON, http.StatusUnprocessableEntity, errors.ErrCodeCircularDependency},
		{"missing dependency", "/v1/sort", `{"elements": [{"id": "a", "depends": ["b"]}]}`, http.StatusUnprocessableEntity, errors.ErrCodeElementNotFound},
		{"malformed body", "/v1/sort", `{"elements": `, http.StatusBadRequest, errors.ErrCodeInvalidManifest},
		{"bad boolean", "/v1/sort?detect_cycles=maybe", carsJSON, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad encoding", "/v1/sort?encoding=morse", carsJSON, http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(), http.MethodPost, tt.target, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", resp.Code, tt.wantCode)
			}
			if resp.Message == "" || resp.RequestID == "" {
				t.Errorf("response = %+v, want message and request id", resp)
			}
		})
	}
}

func TestSortCycleOptions(t *testing.T) {
	s := newTestServer()

	rec := do(t, s, http.MethodPost, "/v1/sort?intercept_cycles=true", cyclicJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var res pipeline.Result
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	if len(res.Cycles) != 1 {
		t.Errorf("Cycles = %v, want one", res.Cycles)
	}

	rec = do(t, s, http.MethodPost, "/v1/sort?detect_cycles=false", cyclicJSON)
	if rec.Code != http.StatusOK {
		t.Errorf("status with detection off = %d", rec.Code)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestRecovery(t *testing.T) {
	h := RequestID(Recovery(log.New(io.Discard))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var resp ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != errors.ErrCodeInternal || strings.Contains(resp.Message, "boom") {
		t.Errorf("response = %+v, want generic internal error", resp)
	}
}

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeCircularDependency, http.StatusUnprocessableEntity},
		{errors.ErrCodeElementNotFound, http.StatusUnprocessableEntity},
		{errors.ErrCodeInvalidManifest, http.StatusBadRequest},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusForCode(tt.code); got != tt.want {
			t.Errorf("StatusForCode(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
