package router

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"cancel-decision-api/internal/application/answer"
	"cancel-decision-api/internal/application/decision"
	"cancel-decision-api/internal/application/retrieval"
	"cancel-decision-api/internal/config"
	"cancel-decision-api/internal/domain/entity"
	"cancel-decision-api/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSearcher struct{}

func (stubSearcher) Search(context.Context, retrieval.SearchInput) ([]entity.Hit, error) {
	return nil, nil
}

type stubAnswerer struct{}

func (stubAnswerer) Answer(context.Context, answer.Request) (*answer.Result, error) {
	return &answer.Result{Answer: "ok"}, nil
}

type stubDecider struct{}

func (stubDecider) Decide(_ context.Context, req decision.Request) (*decision.Result, error) {
	return decision.Evaluate(req.Query, req.Context, nil), nil
}

type okChecker struct{}

func (okChecker) HealthCheck(context.Context) error { return nil }

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "cancel-decision-api"
	cfg.App.Env = "test"
	cfg.Observability.Metrics.Enabled = true
	cfg.Observability.Metrics.Path = "/metrics"
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 1, Burst: 1}
	return cfg
}

func newTestRouter(cfg *config.Config) *gin.Engine {
	handlers := Handlers{
		Health: handler.NewHealthHandler("test", okChecker{}, nil),
		Rules:  handler.NewRuleHandler(stubSearcher{}, stubAnswerer{}, stubDecider{}, handler.RuleOptions{Collection: "rules"}),
	}
	return New(cfg, handlers).Engine()
}

func TestRouter_RegistersEndpoints(t *testing.T) {
	engine := newTestRouter(newTestConfig())

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/live", "", http.StatusOK},
		{http.MethodGet, "/ready", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodPost, "/v1/search", `{"query":"解約したい"}`, http.StatusOK},
		{http.MethodPost, "/v1/answer", `{"query":"解約したい"}`, http.StatusOK},
		{http.MethodPost, "/v1/answer_decision", `{"query":"解約したい"}`, http.StatusOK},
		{http.MethodGet, "/v1/unknown", "", http.StatusNotFound},
	}

	for i, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
		req.Header.Set("Content-Type", "application/json")
		// 每个用例使用不同来源 IP，避免互相限流
		req.RemoteAddr = fmt.Sprintf("10.0.0.%d:1234", i+1)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("%s %s: expected %d, got %d (%s)", tc.method, tc.path, tc.want, w.Code, w.Body.String())
		}
	}
}

func TestRouter_RateLimitsV1Only(t *testing.T) {
	engine := newTestRouter(newTestConfig())

	do := func(method, path, body string) int {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "192.0.2.10:5555"
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w.Code
	}

	if code := do(http.MethodPost, "/v1/search", `{"query":"q"}`); code != http.StatusOK {
		t.Fatalf("first search: expected 200, got %d", code)
	}
	if code := do(http.MethodPost, "/v1/search", `{"query":"q"}`); code != http.StatusTooManyRequests {
		t.Fatalf("second search: expected 429, got %d", code)
	}
	for i := 0; i < 3; i++ {
		if code := do(http.MethodGet, "/health", ""); code != http.StatusOK {
			t.Fatalf("health should not be limited, got %d", code)
		}
	}
}
