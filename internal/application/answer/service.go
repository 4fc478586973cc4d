// Package answer 基于检索到的规则生成自然语言回答
package answer

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"cancel-decision-api/internal/application/retrieval"
	"cancel-decision-api/internal/domain/entity"
	"cancel-decision-api/internal/domain/service"
	apperrors "cancel-decision-api/pkg/errors"
	"cancel-decision-api/pkg/logger"
	"cancel-decision-api/pkg/tracer"
)

const (
	defaultTimeout = 120 * time.Second
	maxDetailRunes = 500
)

// RuleSearcher 规则检索端口
type RuleSearcher interface {
	Search(ctx context.Context, in retrieval.SearchInput) ([]entity.Hit, error)
}

// Request 生成式回答请求
type Request struct {
	Query    string
	Context  string
	Limit    int
	CourseID string
	Category string
}

// Result 生成式回答结果
type Result struct {
	Answer      string
	UsedKnowIDs []string
	Hits        []entity.Hit
}

// Service 生成式回答服务
type Service struct {
	searcher  RuleSearcher
	generator Generator
	provider  string
	timeout   time.Duration
}

// NewService 创建回答服务；timeout <= 0 时使用默认 120s
func NewService(searcher RuleSearcher, generator Generator, provider string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{
		searcher:  searcher,
		generator: generator,
		provider:  provider,
		timeout:   timeout,
	}
}

// Answer 检索规则并调用 LLM 生成回答；超时与上游错误都作为失败返回，不降级为空回答
func (s *Service) Answer(ctx context.Context, req Request) (*Result, error) {
	ctx, span := tracer.Start(ctx, "answer.Answer")
	defer span.End()

	hits, err := s.searcher.Search(ctx, retrieval.SearchInput{
		Query:    req.Query,
		Limit:    req.Limit,
		CourseID: req.CourseID,
		Category: req.Category,
	})
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}
	if s.generator == nil {
		return nil, apperrors.New(apperrors.CodeServiceUnavailable, "llm generator is not configured")
	}

	prompt := BuildPrompt(req.Query, req.Context, hits)
	span.SetAttributes(
		attribute.Int("hits", len(hits)),
		attribute.Int("prompt.runes", len([]rune(prompt))),
	)

	genCtx, cancel := context.WithTimeout(service.WithWorkflowProvider(ctx, service.WorkflowAnswer, s.provider), s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		appErr := s.classify(genCtx, err)
		tracer.RecordError(span, appErr)
		logger.Error(ctx, "answer generation failed", err,
			"provider", s.provider,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, appErr
	}

	logger.Info(ctx, "answer generated",
		"provider", s.provider,
		"hits", len(hits),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Result{
		Answer:      text,
		UsedKnowIDs: entity.KnowIDs(hits),
		Hits:        hits,
	}, nil
}

// classify 将生成失败归类为超时或上游错误
func (s *Service) classify(genCtx context.Context, err error) *apperrors.AppError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(genCtx.Err(), context.DeadlineExceeded) {
		return apperrors.Wrap(err, apperrors.CodeLLMTimeout, "llm generation timed out").
			WithDetail("timeout=" + s.timeout.String())
	}
	var statusErr *UpstreamStatusError
	if errors.As(err, &statusErr) {
		return apperrors.Wrap(err, apperrors.CodeLLMProviderError, "llm provider returned an error").
			WithDetail(truncateRunes(statusErr.Error(), maxDetailRunes))
	}
	return apperrors.Wrap(err, apperrors.CodeLLMProviderError, "llm generation failed").
		WithDetail(truncateRunes(err.Error(), maxDetailRunes))
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max])) + "…"
}
