package retrieval

import (
	"context"

	"cancel-decision-api/internal/domain/entity"
)

// VectorRepository 定义应用层对“规则向量存储/检索”的最小依赖（port）。
// 由基础设施层提供具体实现（例如 Milvus）。
type VectorRepository interface {
	EnsureRulesCollection(ctx context.Context) error
	SearchRules(ctx context.Context, params *VectorSearchParams) ([]entity.Hit, error)
	DeleteRulesByKnowID(ctx context.Context, knowIDs []string) error
	InsertRules(ctx context.Context, rules []*VectorRule) error
}

// VectorSearchParams 单次向量检索参数
type VectorSearchParams struct {
	QueryVector []float32
	TopK        int
	Filter      Filter
}

// VectorRule 待写入向量库的规则
type VectorRule struct {
	entity.Rule
	Vector []float32
}
