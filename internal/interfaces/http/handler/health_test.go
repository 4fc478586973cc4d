package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(context.Context) error { return s.err }

func readyStatus(t *testing.T, h *HealthHandler) (int, readinessResponse) {
	t.Helper()
	r := gin.New()
	r.GET("/ready", h.Ready)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var resp readinessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return w.Code, resp
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		milvus     HealthChecker
		redis      HealthChecker
		wantCode   int
		wantRedis  string
		wantMilvus string
	}{
		{name: "all ok", milvus: stubChecker{}, redis: stubChecker{}, wantCode: http.StatusOK, wantRedis: "ok", wantMilvus: "ok"},
		{name: "redis disabled", milvus: stubChecker{}, wantCode: http.StatusOK, wantRedis: "disabled", wantMilvus: "ok"},
		{name: "redis down degrades", milvus: stubChecker{}, redis: stubChecker{err: errors.New("refused")}, wantCode: http.StatusOK, wantRedis: "degraded", wantMilvus: "ok"},
		{name: "milvus down", milvus: stubChecker{err: errors.New("refused")}, wantCode: http.StatusServiceUnavailable, wantRedis: "disabled", wantMilvus: "error"},
		{name: "milvus missing", wantCode: http.StatusServiceUnavailable, wantRedis: "disabled", wantMilvus: "missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := readyStatus(t, NewHealthHandler("test", tt.milvus, tt.redis))
			if code != tt.wantCode {
				t.Fatalf("status = %d, want %d", code, tt.wantCode)
			}
			if resp.Checks["redis"].Status != tt.wantRedis || resp.Checks["milvus"].Status != tt.wantMilvus {
				t.Fatalf("checks = redis:%s milvus:%s", resp.Checks["redis"].Status, resp.Checks["milvus"].Status)
			}
		})
	}
}

func TestHealthHandler_HealthAndLive(t *testing.T) {
	h := NewHealthHandler("1.2.3", nil, nil)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/live", h.Live)

	for _, path := range []string{"/health", "/live"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, w.Code)
		}
	}
}
