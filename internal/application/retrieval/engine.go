// Package retrieval 提供合同规则的向量检索与导入
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/embedding"
	"go.opentelemetry.io/otel/attribute"

	"cancel-decision-api/internal/domain/entity"
	apperrors "cancel-decision-api/pkg/errors"
	"cancel-decision-api/pkg/metrics"
	"cancel-decision-api/pkg/tracer"
)

// Engine 规则检索引擎
type Engine struct {
	embedder embedding.Embedder
	vector   VectorRepository

	commonCourseID string
}

// NewEngine 创建检索引擎；commonCourseID 为空时使用 entity.CommonCourseID
func NewEngine(embedder embedding.Embedder, vectorRepo VectorRepository, commonCourseID string) *Engine {
	common := strings.TrimSpace(commonCourseID)
	if common == "" {
		common = entity.CommonCourseID
	}
	return &Engine{
		embedder:       embedder,
		vector:         vectorRepo,
		commonCourseID: common,
	}
}

func (e *Engine) Enabled() bool {
	return e != nil && e.embedder != nil && e.vector != nil
}

// CommonCourseID 返回通用规则的 course_id
func (e *Engine) CommonCourseID() string {
	return e.commonCourseID
}

// Search 检索与查询相关的规则
// 指定了非通用 course 时，分别检索该 course 与通用规则并合并；否则只检索一次
func (e *Engine) Search(ctx context.Context, in SearchInput) ([]entity.Hit, error) {
	if in.Limit < 1 {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "limit must be >= 1").
			WithDetail(fmt.Sprintf("limit=%d", in.Limit))
	}
	if strings.TrimSpace(in.Query) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "query is required")
	}
	if !e.Enabled() {
		return nil, apperrors.Wrap(ErrVectorDisabled, apperrors.CodeServiceUnavailable, "rule retrieval unavailable")
	}

	courseID := strings.TrimSpace(in.CourseID)
	category := strings.TrimSpace(in.Category)
	scoped := courseID != "" && courseID != e.commonCourseID

	ctx, span := tracer.Start(ctx, "retrieval.Search")
	defer span.End()
	span.SetAttributes(
		attribute.String("course_id", courseID),
		attribute.String("category", category),
		attribute.Int("limit", in.Limit),
		attribute.Bool("scoped", scoped),
	)

	mode := modeSingle
	if scoped {
		mode = modeScoped
	}

	vec, err := e.embedQuery(ctx, in.Query)
	if err != nil {
		tracer.RecordError(span, err)
		metrics.RetrievalTotal.WithLabelValues(mode, "embedding_error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeEmbeddingFailed, "retrieval failed: embed query")
	}

	if !scoped {
		hits, err := e.vector.SearchRules(ctx, &VectorSearchParams{
			QueryVector: vec,
			TopK:        in.Limit,
			Filter:      Filter{CourseID: courseID, Category: category},
		})
		if err != nil {
			tracer.RecordError(span, err)
			metrics.RetrievalTotal.WithLabelValues(mode, "error").Inc()
			return nil, apperrors.Wrap(err, apperrors.CodeVectorDBError, "retrieval failed: search rules")
		}
		metrics.RetrievalTotal.WithLabelValues(mode, "success").Inc()
		return truncate(hits, in.Limit), nil
	}

	scopedHits, err := e.vector.SearchRules(ctx, &VectorSearchParams{
		QueryVector: vec,
		TopK:        in.Limit,
		Filter:      Filter{CourseID: courseID, Category: category},
	})
	if err != nil {
		tracer.RecordError(span, err)
		metrics.RetrievalTotal.WithLabelValues(mode, "error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeVectorDBError, "retrieval failed: search course rules")
	}

	commonHits, err := e.vector.SearchRules(ctx, &VectorSearchParams{
		QueryVector: vec,
		TopK:        in.Limit,
		Filter:      Filter{CourseID: e.commonCourseID, Category: category},
	})
	if err != nil {
		tracer.RecordError(span, err)
		metrics.RetrievalTotal.WithLabelValues(mode, "error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeVectorDBError, "retrieval failed: search common rules")
	}

	merged := MergeHits(scopedHits, commonHits, in.Limit)
	span.SetAttributes(
		attribute.Int("hits.scoped", len(scopedHits)),
		attribute.Int("hits.common", len(commonHits)),
		attribute.Int("hits.merged", len(merged)),
	)
	metrics.RetrievalTotal.WithLabelValues(mode, "success").Inc()
	return merged, nil
}

func (e *Engine) embedQuery(ctx context.Context, query string) ([]float32, error) {
	v64, err := e.embedder.EmbedStrings(ctx, []string{strings.TrimSpace(query)})
	if err != nil {
		return nil, err
	}
	if len(v64) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return toFloat32(v64[0]), nil
}

func toFloat32(vec []float64) []float32 {
	out := make([]float32, 0, len(vec))
	for _, x := range vec {
		out = append(out, float32(x))
	}
	return out
}
