//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"cancel-decision-api/internal/config"
	"cancel-decision-api/internal/infrastructure/llm"
	"cancel-decision-api/internal/interfaces/http/router"
)

// RedisSet 可选 Redis（缓存 + 限流）
var RedisSet = wire.NewSet(
	ProvideRedisClientOptional,
	ProvideRedisCacheOptional,
	ProvideEmbeddingCache,
)

// MilvusAppSet API 网关可选 Milvus
var MilvusAppSet = wire.NewSet(
	ProvideMilvusClientOptional,
	ProvideMilvusRepository,
	ProvideVectorRepository,
)

// RetrievalSet 检索与导入
var RetrievalSet = wire.NewSet(
	ProvideEmbedderOptional,
	ProvideRetrievalEngine,
	ProvideRetrievalIndexer,
)

// ServiceSet 回答与判定服务
var ServiceSet = wire.NewSet(
	ProvideLLMConfig,
	llm.NewEinoFactory,
	ProvideGeneratorOptional,
	ProvideAnswerService,
	ProvideDecisionService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	ProvideRuleHandler,
	wire.Struct(new(router.Handlers), "*"),
	ProvideRouter,
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RedisSet,
		MilvusAppSet,
		RetrievalSet,
		ServiceSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeIndexer 初始化规则导入（Milvus 必需）
func InitializeIndexer(ctx context.Context, cfg *config.Config) (*IndexerApp, func(), error) {
	wire.Build(
		RedisSet,
		ProvideMilvusClient,
		ProvideMilvusRepository,
		ProvideVectorRepository,
		ProvideEmbedderOptional,
		ProvideRetrievalIndexer,
		wire.Struct(new(IndexerApp), "*"),
	)
	return nil, nil, nil
}
