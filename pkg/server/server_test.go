package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/figure"
	"github.com/matzehuels/gcad/pkg/httputil"
	"github.com/matzehuels/gcad/pkg/observability"
	"github.com/matzehuels/gcad/pkg/observability/prom"
	"github.com/matzehuels/gcad/pkg/pipeline"
)

const triangle = `{
  "name": "triangle",
  "distance": [
    {"points": ["A", "B"], "length": 3},
    {"points": ["A", "C"], "length": 4},
    {"points": ["B", "C"], "length": 5}
  ]
}`

const loose = `{
  "points": ["A", "B", "Z"],
  "distance": [{"points": ["A", "B"], "length": 5}]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(nil, nil, logger), Options{Logger: logger})
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	var body struct {
		Status    string `json:"status"`
		GoVersion string `json:"go_version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.GoVersion == "" {
		t.Errorf("health = %+v", body)
	}
}

func TestSolve(t *testing.T) {
	ts := newTestServer(t)
	resp, data := post(t, ts, "/v1/solve", `{"figure": `+triangle+`, "root": "A", "formats": ["json", "svg"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}

	var got SolveResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.RunID == "" || got.Solution.RunID != got.RunID {
		t.Errorf("run ids = %q, %q", got.RunID, got.Solution.RunID)
	}
	if got.Status != "solved" {
		t.Errorf("Status = %q", got.Status)
	}
	if strings.Join(got.Solution.Path, "") != "ABC" {
		t.Errorf("Path = %v", got.Solution.Path)
	}
	if _, ok := got.Artifacts["json"]; ok {
		t.Error("json artifact should not be duplicated")
	}
	if !bytes.Contains(got.Artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact missing")
	}
}

func TestSolveErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   errs.Code
	}{
		{"malformed", `{`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"unknown field", `{"figure": ` + triangle + `, "bogus": 1}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"no figure", `{}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad figure", `{"figure": {"distance": [{"points": ["A"]}]}}`, http.StatusBadRequest, errs.ErrCodeInvalidFigure},
		{"unknown root", `{"figure": ` + triangle + `, "root": "Q"}`, http.StatusBadRequest, errs.ErrCodeUnknownPoint},
		{"bad format", `{"figure": ` + triangle + `, "formats": ["gif"]}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"negative timeout", `{"figure": ` + triangle + `, "timeout_ms": -1}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"underconstrained", `{"figure": ` + loose + `}`, http.StatusUnprocessableEntity, errs.ErrCodeUnderconstrained},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := post(t, ts, "/v1/solve", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d: %s", resp.StatusCode, tt.status, data)
			}
			var got ErrorResponse
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatal(err)
			}
			if got.Code != tt.code {
				t.Errorf("code = %q, want %q", got.Code, tt.code)
			}
		})
	}
}

func TestSolveUnderconstrainedReportsStall(t *testing.T) {
	ts := newTestServer(t)
	_, data := post(t, ts, "/v1/solve", `{"figure": `+loose+`}`)

	var got ErrorResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != "underconstrained" {
		t.Errorf("Status = %q", got.Status)
	}
	if got.Stalled == nil || strings.Join(got.Stalled.Unfixed, "") != "Z" {
		t.Errorf("Stalled = %+v, want Z unfixed", got.Stalled)
	}
}

func TestOrder(t *testing.T) {
	ts := newTestServer(t)
	resp, data := post(t, ts, "/v1/order", `{"figure": `+triangle+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	var got OrderResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Root != "A" || strings.Join(got.Path, "") != "ABC" {
		t.Errorf("plan = %s %v", got.Root, got.Path)
	}
	if strings.Join(got.Gauges, "") != "AB" {
		t.Errorf("Gauges = %v, want [A B]", got.Gauges)
	}
	if len(got.Support["C"]) != 2 {
		t.Errorf("Support[C] = %v", got.Support["C"])
	}
	if len(got.Edges) == 0 {
		t.Error("no edges")
	}
}

func TestRoots(t *testing.T) {
	ts := newTestServer(t)
	_, data := post(t, ts, "/v1/roots", `{"figure": `+loose+`}`)
	var got RootsResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Roots == nil || len(got.Roots) != 0 {
		t.Errorf("Roots = %v, want empty list", got.Roots)
	}
}

func TestContentType(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/solve", "text/plain", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", resp.StatusCode)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	routes []string
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.routes = append(h.routes, method+" "+route+" "+http.StatusText(status))
}

func TestObserve(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	post(t, ts, "/v1/order", `{"figure": `+triangle+`}`)

	if len(hooks.routes) != 1 || hooks.routes[0] != "POST /v1/order OK" {
		t.Errorf("routes = %v", hooks.routes)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom.Register(reg)
	t.Cleanup(observability.Reset)

	logger := log.New(io.Discard)
	ts := httptest.NewServer(New(pipeline.NewRunner(nil, nil, logger), Options{Logger: logger, Gatherer: reg}))
	defer ts.Close()

	post(t, ts, "/v1/solve", `{"figure": `+triangle+`}`)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	for _, name := range []string{"gcad_http_requests_total", "gcad_solve_duration_seconds"} {
		if !bytes.Contains(data, []byte(name)) {
			t.Errorf("metrics missing %s", name)
		}
	}
}

func TestClient(t *testing.T) {
	ts := newTestServer(t)
	c := NewClient(ts.URL + "/")

	doc, err := figure.Parse([]byte(triangle), figure.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	sol, err := c.Solve(ctx, SolveRequest{Figure: doc})
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	if len(sol.Solution.Points) != 3 {
		t.Errorf("Points = %v", sol.Solution.Points)
	}

	plan, err := c.Order(ctx, OrderRequest{Figure: doc, Root: "C"})
	if err != nil {
		t.Fatal(err)
	}
	if plan.Root != "C" {
		t.Errorf("Root = %q", plan.Root)
	}

	roots, err := c.Roots(ctx, OrderRequest{Figure: doc})
	if err != nil || len(roots) != 3 {
		t.Errorf("Roots() = %v, %v", roots, err)
	}

	_, err = c.Solve(ctx, SolveRequest{Figure: doc, Root: "Q"})
	if !errs.Is(err, errs.ErrCodeUnknownPoint) {
		t.Errorf("Solve() error = %v, want %v", err, errs.ErrCodeUnknownPoint)
	}
}

func TestClientRetriesUnavailable(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"failed","code":"INTERNAL_ERROR","error":"warming up"}`))
			return
		}
		_, _ = w.Write([]byte(`{"roots":["A","B"]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	c.Backoff = httputil.Backoff{Attempts: 3, Initial: time.Millisecond}
	doc, err := figure.Parse([]byte(triangle), figure.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	roots, err := c.Roots(context.Background(), OrderRequest{Figure: doc})
	if err != nil {
		t.Fatalf("Roots() error: %v", err)
	}
	if calls != 2 || len(roots) != 2 {
		t.Errorf("calls = %d, roots = %v", calls, roots)
	}
}

func TestClientKeepsRemoteCode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"failed","code":"TIMEOUT","error":"busy"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	c.Backoff = httputil.Backoff{Attempts: 2, Initial: time.Millisecond}
	doc, _ := figure.Parse([]byte(triangle), figure.FormatJSON)

	_, err := c.Roots(context.Background(), OrderRequest{Figure: doc})
	if !errs.Is(err, errs.ErrCodeTimeout) {
		t.Errorf("Roots() error = %v, want %s", err, errs.ErrCodeTimeout)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code errs.Code
		want int
	}{
		{errs.ErrCodeInvalidFigure, http.StatusBadRequest},
		{errs.ErrCodeUnderconstrained, http.StatusUnprocessableEntity},
		{errs.ErrCodeOverconstrained, http.StatusUnprocessableEntity},
		{errs.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errs.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := httpStatus(tt.code); got != tt.want {
			t.Errorf("httpStatus(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
