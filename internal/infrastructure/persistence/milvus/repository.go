package milvus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cancel-decision-api/internal/application/retrieval"
	domain "cancel-decision-api/internal/domain/entity"
	"cancel-decision-api/pkg/metrics"
)

// Options 规则集合参数
type Options struct {
	Collection         string
	Dimension          int
	MetricType         string
	HNSWM              int
	HNSWEfConstruction int
	SearchEf           int
}

// Repository 合同规则向量仓储
type Repository struct {
	client *Client
	opts   Options
	metric entity.MetricType
}

var _ retrieval.VectorRepository = (*Repository)(nil)

// NewRepository 创建规则仓储，零值参数使用默认值
func NewRepository(client *Client, opts Options) *Repository {
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	if opts.HNSWM <= 0 {
		opts.HNSWM = 16
	}
	if opts.HNSWEfConstruction <= 0 {
		opts.HNSWEfConstruction = 200
	}
	if opts.SearchEf <= 0 {
		opts.SearchEf = 128
	}
	return &Repository{
		client: client,
		opts:   opts,
		metric: metricType(opts.MetricType),
	}
}

func metricType(s string) entity.MetricType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L2":
		return entity.L2
	case "IP":
		return entity.IP
	default:
		return entity.COSINE
	}
}

func (r *Repository) ready() error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return retrieval.ErrVectorDisabled
	}
	return nil
}

// EnsureRulesCollection 集合不存在时创建集合与 HNSW 索引，并加载到内存
// 不做 drop/rebuild 等破坏性操作
func (r *Repository) EnsureRulesCollection(ctx context.Context) error {
	if err := r.ready(); err != nil {
		return err
	}
	ctx, span := tracer.Start(ctx, "milvus.EnsureRulesCollection",
		trace.WithAttributes(attribute.String("collection", r.opts.Collection)))
	defer span.End()

	mc := r.client.milvus
	exists, err := mc.HasCollection(ctx, r.opts.Collection)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if !exists {
		if r.opts.Dimension <= 0 {
			return fmt.Errorf("vector dimension must be > 0 to create %s", r.opts.Collection)
		}
		if err := mc.CreateCollection(ctx, RulesSchema(r.opts.Collection, r.opts.Dimension), entity.DefaultShardNumber); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to create collection: %w", err)
		}

		idx, err := entity.NewIndexHNSW(r.metric, r.opts.HNSWM, r.opts.HNSWEfConstruction)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to build index params: %w", err)
		}
		if err := mc.CreateIndex(ctx, r.opts.Collection, fieldVector, idx, false); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := mc.LoadCollection(ctx, r.opts.Collection, false); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to load collection: %w", err)
	}
	return nil
}

// SearchRules 按过滤条件做一次向量检索，结果按分数降序
func (r *Repository) SearchRules(ctx context.Context, params *retrieval.VectorSearchParams) ([]domain.Hit, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if params == nil || params.TopK <= 0 {
		return []domain.Hit{}, nil
	}

	expr := filterExpr(params.Filter)
	ctx, span := tracer.Start(ctx, "milvus.SearchRules",
		trace.WithAttributes(
			attribute.String("collection", r.opts.Collection),
			attribute.String("filter", expr),
			attribute.Int("top_k", params.TopK),
		))
	defer span.End()

	sp, err := entity.NewIndexHNSWSearchParam(r.opts.SearchEf)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	start := time.Now()
	results, err := r.client.milvus.Search(ctx,
		r.opts.Collection,
		nil,
		expr,
		outputFields,
		[]entity.Vector{entity.FloatVector(params.QueryVector)},
		fieldVector,
		r.metric,
		params.TopK,
		sp,
	)
	metrics.MilvusSearchDuration.WithLabelValues(r.opts.Collection).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MilvusSearchTotal.WithLabelValues(r.opts.Collection, "error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	metrics.MilvusSearchTotal.WithLabelValues(r.opts.Collection, "success").Inc()

	var hits []domain.Hit
	for _, res := range results {
		hits = append(hits, hitsFromResult(res, r.metric)...)
	}
	if hits == nil {
		hits = []domain.Hit{}
	}

	span.SetAttributes(attribute.Int("result_count", len(hits)))
	return hits, nil
}

// hitsFromResult 解析单个查询向量的结果；缺失字段按空串处理
func hitsFromResult(res client.SearchResult, metric entity.MetricType) []domain.Hit {
	hits := make([]domain.Hit, 0, res.ResultCount)
	for i := 0; i < res.ResultCount; i++ {
		var score float32
		if i < len(res.Scores) {
			score = res.Scores[i]
		}
		hits = append(hits, domain.Hit{
			Score: similarity(score, metric),
			Rule: domain.Rule{
				ID:       stringAt(res.Fields, fieldID, i),
				KnowID:   stringAt(res.Fields, fieldKnowID, i),
				ClientID: stringAt(res.Fields, fieldClientID, i),
				CourseID: stringAt(res.Fields, fieldCourseID, i),
				Category: stringAt(res.Fields, fieldCategory, i),
				Title:    stringAt(res.Fields, fieldTitle, i),
				Text:     stringAt(res.Fields, fieldText, i),
				Tags:     stringAt(res.Fields, fieldTags, i),
			},
		})
	}
	return hits
}

// similarity 统一为“越大越相关”：L2 距离转换为 1/(1+d)
func similarity(score float32, metric entity.MetricType) float64 {
	if metric == entity.L2 {
		return 1 / (1 + float64(score))
	}
	return float64(score)
}

func stringAt(rs client.ResultSet, name string, i int) string {
	col, ok := rs.GetColumn(name).(*entity.ColumnVarChar)
	if !ok {
		return ""
	}
	data := col.Data()
	if i >= len(data) {
		return ""
	}
	return data[i]
}

// DeleteRulesByKnowID 删除指定 know_id 的全部记录
func (r *Repository) DeleteRulesByKnowID(ctx context.Context, knowIDs []string) error {
	if err := r.ready(); err != nil {
		return err
	}
	if len(knowIDs) == 0 {
		return nil
	}
	ctx, span := tracer.Start(ctx, "milvus.DeleteRulesByKnowID",
		trace.WithAttributes(
			attribute.String("collection", r.opts.Collection),
			attribute.Int("count", len(knowIDs)),
		))
	defer span.End()

	if err := r.client.milvus.Delete(ctx, r.opts.Collection, "", knowIDInExpr(knowIDs)); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete rules: %w", err)
	}
	return nil
}

// InsertRules 写入规则并 flush，保证导入完成后立即可检索
func (r *Repository) InsertRules(ctx context.Context, rules []*retrieval.VectorRule) error {
	if err := r.ready(); err != nil {
		return err
	}
	if len(rules) == 0 {
		return nil
	}
	ctx, span := tracer.Start(ctx, "milvus.InsertRules",
		trace.WithAttributes(
			attribute.String("collection", r.opts.Collection),
			attribute.Int("count", len(rules)),
		))
	defer span.End()

	columns, err := rulesToColumns(rules, r.opts.Dimension)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if _, err := r.client.milvus.Insert(ctx, r.opts.Collection, "", columns...); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert rules: %w", err)
	}
	if err := r.client.milvus.Flush(ctx, r.opts.Collection, false); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to flush rules: %w", err)
	}
	return nil
}

// rulesToColumns 按列组织数据；向量维度必须与集合一致
func rulesToColumns(rules []*retrieval.VectorRule, dim int) ([]entity.Column, error) {
	n := len(rules)
	ids := make([]string, 0, n)
	knowIDs := make([]string, 0, n)
	clientIDs := make([]string, 0, n)
	courseIDs := make([]string, 0, n)
	categories := make([]string, 0, n)
	titles := make([]string, 0, n)
	texts := make([]string, 0, n)
	tags := make([]string, 0, n)
	vectors := make([][]float32, 0, n)

	for _, r := range rules {
		if r == nil {
			continue
		}
		if dim > 0 && len(r.Vector) != dim {
			return nil, fmt.Errorf("rule %s: vector dimension %d, want %d", r.KnowID, len(r.Vector), dim)
		}
		ids = append(ids, r.ID)
		knowIDs = append(knowIDs, r.KnowID)
		clientIDs = append(clientIDs, r.ClientID)
		courseIDs = append(courseIDs, r.CourseID)
		categories = append(categories, r.Category)
		titles = append(titles, r.Title)
		texts = append(texts, r.Text)
		tags = append(tags, r.Tags)
		vectors = append(vectors, r.Vector)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no rules to insert")
	}
	if dim <= 0 {
		dim = len(vectors[0])
	}

	return []entity.Column{
		entity.NewColumnVarChar(fieldID, ids),
		entity.NewColumnVarChar(fieldKnowID, knowIDs),
		entity.NewColumnVarChar(fieldClientID, clientIDs),
		entity.NewColumnVarChar(fieldCourseID, courseIDs),
		entity.NewColumnVarChar(fieldCategory, categories),
		entity.NewColumnVarChar(fieldTitle, titles),
		entity.NewColumnVarChar(fieldText, texts),
		entity.NewColumnVarChar(fieldTags, tags),
		entity.NewColumnFloatVector(fieldVector, dim, vectors),
	}, nil
}
