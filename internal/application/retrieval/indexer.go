package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/google/uuid"

	"cancel-decision-api/internal/domain/entity"
	apperrors "cancel-decision-api/pkg/errors"
	"cancel-decision-api/pkg/metrics"
)

const defaultEmbeddingBatch = 32

// Indexer 将合同规则向量化后写入向量库
type Indexer struct {
	embedder embedding.Embedder
	vector   VectorRepository

	embeddingBatchSize int
}

func NewIndexer(embedder embedding.Embedder, vectorRepo VectorRepository, embeddingBatchSize int) *Indexer {
	bs := embeddingBatchSize
	if bs <= 0 {
		bs = defaultEmbeddingBatch
	}
	return &Indexer{
		embedder:           embedder,
		vector:             vectorRepo,
		embeddingBatchSize: bs,
	}
}

func (i *Indexer) Enabled() bool {
	return i != nil && i.embedder != nil && i.vector != nil
}

// IndexResult 导入结果统计
type IndexResult struct {
	Indexed int
	Skipped int
}

// IndexRules 导入规则：同一 know_id 的旧记录先删除再写入，重复导入不会产生重复命中
// know_id 或正文为空的规则被跳过
func (i *Indexer) IndexRules(ctx context.Context, rules []entity.Rule) (*IndexResult, error) {
	if !i.Enabled() {
		return nil, ErrVectorDisabled
	}
	if err := i.vector.EnsureRulesCollection(ctx); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeVectorDBError, "ensure rules collection failed")
	}

	res := &IndexResult{}
	rows := make([]*VectorRule, 0, len(rules))
	knowIDs := make([]string, 0, len(rules))
	embedInputs := make([]string, 0, len(rules))
	seen := make(map[string]int, len(rules))

	for _, r := range rules {
		r.KnowID = strings.TrimSpace(r.KnowID)
		r.Text = strings.TrimSpace(r.Text)
		if r.KnowID == "" || r.Text == "" {
			res.Skipped++
			continue
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		// 同一批次内重复的 know_id 以最后一条为准
		if idx, ok := seen[r.KnowID]; ok {
			rows[idx] = &VectorRule{Rule: r}
			embedInputs[idx] = r.Text
			res.Skipped++
			continue
		}
		seen[r.KnowID] = len(rows)
		rows = append(rows, &VectorRule{Rule: r})
		knowIDs = append(knowIDs, r.KnowID)
		embedInputs = append(embedInputs, r.Text)
	}
	if len(rows) == 0 {
		return res, nil
	}

	vectors, err := i.embedBatch(ctx, embedInputs)
	if err != nil {
		metrics.RulesIndexedTotal.WithLabelValues("embedding_error").Add(float64(len(rows)))
		return nil, apperrors.Wrap(err, apperrors.CodeEmbeddingFailed, "embed rules failed")
	}
	if len(vectors) != len(rows) {
		return nil, apperrors.New(apperrors.CodeEmbeddingFailed, "embedding count mismatch").
			WithDetail(fmt.Sprintf("want %d, got %d", len(rows), len(vectors)))
	}
	for idx := range rows {
		rows[idx].Vector = vectors[idx]
	}

	if err := i.vector.DeleteRulesByKnowID(ctx, knowIDs); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeVectorDBError, "delete stale rules failed")
	}
	if err := i.vector.InsertRules(ctx, rows); err != nil {
		metrics.RulesIndexedTotal.WithLabelValues("error").Add(float64(len(rows)))
		return nil, apperrors.Wrap(err, apperrors.CodeVectorDBError, "insert rules failed")
	}

	res.Indexed = len(rows)
	metrics.RulesIndexedTotal.WithLabelValues("success").Add(float64(len(rows)))
	return res, nil
}

func (i *Indexer) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += i.embeddingBatchSize {
		end := start + i.embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		v64, err := i.embedder.EmbedStrings(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		for _, vec := range v64 {
			out = append(out, toFloat32(vec))
		}
	}
	return out, nil
}
