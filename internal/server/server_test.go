package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/maintenance-budget/pkg/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func performJSON(t *testing.T, handler http.Handler, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	switch v := payload.(type) {
	case string:
		body = []byte(v)
	default:
		var err error
		body, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func referencePayload() map[string]interface{} {
	return map[string]interface{}{
		"grossArea":        600,
		"capacity":         45,
		"constructionYear": 1990,
		"annualRevenue":    450000,
	}
}

func TestHandleEvaluateSuccess(t *testing.T) {
	handler := NewHandler(zaptest.NewLogger(t), constants.DefaultMaxBodySizeBytes, "test")

	payload := referencePayload()
	payload["equipment"] = []string{"elevator", "hvac"}
	payload["variant"] = "detailed"

	rr := performJSON(t, handler, payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp evaluateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.RequestID == "" {
		t.Fatal("expected a request id in response")
	}
	if got := rr.Header().Get(RequestIDHeader); got != resp.RequestID {
		t.Fatalf("expected header %s to match body request id, got %q", RequestIDHeader, got)
	}
	if diff := resp.Result.TotalBudget - 30996; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("expected total budget 30996, got %v", resp.Result.TotalBudget)
	}
	if resp.Result.IsCritical {
		t.Fatal("expected non-critical result")
	}
	if len(resp.Report.Headline) != 4 {
		t.Fatalf("expected detailed headline with 4 metrics, got %d", len(resp.Report.Headline))
	}
	if got := resp.Input.Equipment.String(); got != "elevator,hvac" {
		t.Fatalf("expected echoed equipment, got %s", got)
	}
	if resp.Duration == "" {
		t.Fatal("expected duration in response")
	}
}

func TestHandleEvaluateCritical(t *testing.T) {
	handler := NewHandler(zap.NewNop(), 0, "")

	payload := referencePayload()
	payload["annualRevenue"] = 20000

	rr := performJSON(t, handler, payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp evaluateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Result.IsCritical || resp.Report.Notice == "" {
		t.Fatalf("expected critical result with notice, got %+v", resp.Report)
	}
	if resp.Split.ResidualMargin >= 0 {
		t.Fatalf("expected negative residual margin, got %v", resp.Split.ResidualMargin)
	}
}

func TestHandleEvaluateErrors(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, "test")

	with := func(key string, value interface{}) map[string]interface{} {
		p := referencePayload()
		p[key] = value
		return p
	}
	without := func(key string) map[string]interface{} {
		p := referencePayload()
		delete(p, key)
		return p
	}

	tests := []struct {
		name      string
		payload   interface{}
		status    int
		field     string
		errSubstr string
	}{
		{"malformed json", "{not json", http.StatusBadRequest, "", "failed to decode"},
		{"missing capacity", without("capacity"), http.StatusBadRequest, "", "schema"},
		{"fractional capacity", with("capacity", 4.5), http.StatusBadRequest, "", "schema"},
		{"unknown property", with("floors", 3), http.StatusBadRequest, "", "schema"},
		{"unknown variant", with("variant", "wide"), http.StatusBadRequest, "", "schema"},
		{"unknown equipment", with("equipment", []string{"sauna"}), http.StatusBadRequest, "equipment", "sauna"},
		{"zero capacity", with("capacity", 0), http.StatusUnprocessableEntity, "capacity", "invalid input"},
		{"negative revenue", with("annualRevenue", -1), http.StatusUnprocessableEntity, "annualRevenue", "invalid input"},
		{"zero area", with("grossArea", 0), http.StatusUnprocessableEntity, "grossArea", "invalid input"},
		{"future construction", with("constructionYear", 2030), http.StatusUnprocessableEntity, "constructionYear", "invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := performJSON(t, handler, tt.payload)
			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}

			var resp errorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if !strings.Contains(resp.Error, tt.errSubstr) {
				t.Fatalf("expected error containing %q, got %q", tt.errSubstr, resp.Error)
			}
			if resp.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, resp.Field)
			}
			if resp.RequestID == "" {
				t.Fatal("expected request id on error response")
			}
		})
	}
}

func TestHandleEvaluateBodyTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), 32, "test")

	rr := performJSON(t, handler, referencePayload())
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleEvaluateMethodNotAllowed(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, "test")

	req := httptest.NewRequest(http.MethodGet, "/api/evaluate", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleEquipment(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, "test")

	req := httptest.NewRequest(http.MethodGet, "/api/equipment", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Equipment []struct {
			Name          string  `json:"name"`
			OrdinaryRate  float64 `json:"ordinaryRate"`
			Extraordinary float64 `json:"extraordinaryRate"`
		} `json:"equipment"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Equipment) != 5 {
		t.Fatalf("expected 5 equipment entries, got %d", len(resp.Equipment))
	}
	if resp.Equipment[0].Name != "elevator" || resp.Equipment[0].OrdinaryRate != 0.0025 {
		t.Fatalf("unexpected first entry %+v", resp.Equipment[0])
	}
}

func TestHandleVersion(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, " v1.2.3 ")

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "v1.2.3" {
		t.Fatalf("expected trimmed version, got %q", resp["version"])
	}
}

func TestStaticIndexServed(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, "test")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "/api/evaluate") {
		t.Fatal("expected index page to call the evaluate API")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, "test")
	performJSON(t, handler, referencePayload())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "maintenance_budget_evaluations_total") {
		t.Fatal("expected evaluation counter in metrics output")
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serveListener(ctx, ln, NewHandler(zap.NewNop(), 0, "test"), zaptest.NewLogger(t))
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/version")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(constants.ShutdownTimeoutSeconds * time.Second):
		t.Fatal("server did not shut down")
	}
}
