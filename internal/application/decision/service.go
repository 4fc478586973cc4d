package decision

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"cancel-decision-api/internal/application/retrieval"
	"cancel-decision-api/internal/domain/entity"
	"cancel-decision-api/pkg/logger"
	"cancel-decision-api/pkg/metrics"
	"cancel-decision-api/pkg/tracer"
)

// RuleSearcher 规则检索端口，由 retrieval.Engine 实现
type RuleSearcher interface {
	Search(ctx context.Context, in retrieval.SearchInput) ([]entity.Hit, error)
}

// Request 判定请求
type Request struct {
	Query    string
	Context  string
	Limit    int
	CourseID string
	Category string
}

// Result 判定流水线的完整输出
type Result struct {
	Record   Record
	Summary  Summary
	Rendered Rendered
	Hits     []entity.Hit
}

// Service 判定服务：检索 -> 判定 -> 分类 -> 摘要 -> 渲染
type Service struct {
	searcher RuleSearcher
}

func NewService(searcher RuleSearcher) *Service {
	return &Service{searcher: searcher}
}

// Decide 执行完整判定流程；检索失败直接返回错误，不产生部分结果
func (s *Service) Decide(ctx context.Context, req Request) (*Result, error) {
	ctx, span := tracer.Start(ctx, "decision.Decide")
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

	res := Evaluate(req.Query, req.Context, hits)

	span.SetAttributes(
		attribute.String("decision_code", string(res.Record.Code)),
		attribute.Int("hits", len(hits)),
	)
	metrics.DecisionTotal.WithLabelValues(string(res.Record.Code)).Inc()
	metrics.DecisionHits.Observe(float64(len(hits)))
	logger.Info(ctx, "cancellation decision built",
		"decision_code", res.Record.Code,
		"fee_required", res.Record.FeeRequired.String(),
		"needs_confirmation", len(res.Record.NeedsConfirmation),
		"matched_rules", res.Record.MatchedRules,
		"used_know_ids", res.Record.UsedKnowIDs,
	)
	return res, nil
}

// Evaluate 对已检索到的命中执行判定、分类、摘要与渲染，纯函数
func Evaluate(query, context string, hits []entity.Hit) *Result {
	rec := Decide(query, context, hits)
	rec.Code = Classify(rec)
	return &Result{
		Record:   rec,
		Summary:  Summarize(rec),
		Rendered: Render(query, context, rec),
		Hits:     hits,
	}
}
