package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"cancel-decision-api/internal/application/answer"
	"cancel-decision-api/internal/config"
	"cancel-decision-api/internal/domain/service"
	"cancel-decision-api/pkg/metrics"
	"cancel-decision-api/pkg/tracer"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2:1b"

	// 错误信息中保留的响应体长度上限
	maxErrorBody = 2048
)

// OllamaClient 调用 Ollama 原生 /api/generate（非流式）
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

var _ answer.Generator = (*OllamaClient)(nil)

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// NewOllamaClient 创建 Ollama 客户端；超时由调用方 context 控制，
// cfg.Timeout 只作为 http.Client 的兜底
func NewOllamaClient(cfg config.ProviderConfig) *OllamaClient {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultOllamaURL
	}
	m := strings.TrimSpace(cfg.Model)
	if m == "" {
		m = defaultOllamaModel
	}
	return &OllamaClient{
		baseURL:    base,
		model:      m,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Generate 非 200 响应返回 *answer.UpstreamStatusError
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.ollama.generate")
	defer span.End()

	workflow := service.WorkflowFromContext(ctx)
	provider := service.ProviderFromContext(ctx)
	span.SetAttributes(
		attribute.String("eino.workflow", workflow),
		attribute.String("llm.provider", provider),
		attribute.String("llm.model", c.model),
	)

	start := time.Now()
	out, err := c.generate(ctx, prompt)
	metrics.LLMCallDuration.WithLabelValues(workflow, provider, c.model).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(workflow, provider, c.model, "error").Inc()
		tracer.RecordError(span, err)
		return "", err
	}

	metrics.LLMCallTotal.WithLabelValues(workflow, provider, c.model, "success").Inc()
	metrics.LLMTokensUsed.WithLabelValues(workflow, provider, c.model, "prompt").Add(float64(out.PromptEvalCount))
	metrics.LLMTokensUsed.WithLabelValues(workflow, provider, c.model, "completion").Add(float64(out.EvalCount))
	span.SetAttributes(
		attribute.Int("llm.prompt_tokens", out.PromptEvalCount),
		attribute.Int("llm.completion_tokens", out.EvalCount),
	)
	return out.Response, nil
}

func (c *OllamaClient) generate(ctx context.Context, prompt string) (*generateResponse, error) {
	body, err := json.Marshal(&generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &answer.UpstreamStatusError{
			Provider: "Ollama",
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(raw)),
		}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode generate response: %w", err)
	}
	return &out, nil
}
