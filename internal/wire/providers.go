// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"time"

	einoembedding "github.com/cloudwego/eino/components/embedding"

	"cancel-decision-api/internal/application/answer"
	"cancel-decision-api/internal/application/decision"
	"cancel-decision-api/internal/application/retrieval"
	"cancel-decision-api/internal/config"
	infraembedding "cancel-decision-api/internal/infrastructure/embedding"
	"cancel-decision-api/internal/infrastructure/llm"
	"cancel-decision-api/internal/infrastructure/persistence/milvus"
	"cancel-decision-api/internal/infrastructure/persistence/redis"
	"cancel-decision-api/internal/interfaces/http/handler"
	"cancel-decision-api/internal/interfaces/http/router"
	"cancel-decision-api/pkg/logger"
)

// IndexerApp bootstrap 导入所需依赖
type IndexerApp struct {
	Indexer *retrieval.Indexer
	Vector  *milvus.Repository
	// Cache 未启用 Redis 时为 nil
	Cache *redis.Cache
}

// ProvideRedisClientOptional 按配置连接 Redis；未启用或不可达时返回 nil
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, cache and shared rate limit disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	return client, func() { _ = client.Close() }, nil
}

func ProvideRedisCacheOptional(client *redis.Client) *redis.Cache {
	if client == nil {
		return nil
	}
	return redis.NewCache(client)
}

// ProvideEmbeddingCache 注意返回无类型 nil，避免接口非空
func ProvideEmbeddingCache(cache *redis.Cache) infraembedding.Cache {
	if cache == nil {
		return nil
	}
	return cache
}

// ProvideMilvusClient 提供 Milvus 客户端（bootstrap 必需）
func ProvideMilvusClient(ctx context.Context, cfg *config.Config) (*milvus.Client, func(), error) {
	client, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideMilvusClientOptional API 网关不因 Milvus 不可达而无法启动，由 /ready 报告
func ProvideMilvusClientOptional(ctx context.Context, cfg *config.Config) (*milvus.Client, func(), error) {
	client, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		logger.Warn(ctx, "milvus not available, retrieval disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	return client, func() { _ = client.Close() }, nil
}

func ProvideMilvusRepository(client *milvus.Client, cfg *config.Config) *milvus.Repository {
	if client == nil {
		return nil
	}
	m := cfg.Vector.Milvus
	return milvus.NewRepository(client, milvus.Options{
		Collection:         m.Collection,
		Dimension:          cfg.Embedding.Dimension,
		MetricType:         m.MetricType,
		HNSWM:              m.HNSWM,
		HNSWEfConstruction: m.HNSWEfConstruction,
		SearchEf:           m.SearchEf,
	})
}

func ProvideVectorRepository(repo *milvus.Repository) retrieval.VectorRepository {
	if repo == nil {
		return nil
	}
	return repo
}

// ProvideEmbedderOptional Embedder 构造失败时禁用检索与导入
func ProvideEmbedderOptional(ctx context.Context, cfg *config.Config, cache infraembedding.Cache) einoembedding.Embedder {
	embedder, err := infraembedding.NewEmbedder(ctx, &cfg.Embedding, cache)
	if err != nil {
		logger.Warn(ctx, "embedding not available, retrieval disabled", "error", err.Error())
		return nil
	}
	return embedder
}

func ProvideRetrievalEngine(cfg *config.Config, embedder einoembedding.Embedder, vectorRepo retrieval.VectorRepository) *retrieval.Engine {
	return retrieval.NewEngine(embedder, vectorRepo, cfg.Retrieval.CommonCourseID)
}

func ProvideRetrievalIndexer(cfg *config.Config, embedder einoembedding.Embedder, vectorRepo retrieval.VectorRepository) *retrieval.Indexer {
	return retrieval.NewIndexer(embedder, vectorRepo, cfg.Embedding.BatchSize)
}

// ProvideGeneratorOptional 默认提供商配置错误时 /v1/answer 返回 503，其余端点不受影响
func ProvideGeneratorOptional(ctx context.Context, cfg *config.Config, factory *llm.EinoFactory) answer.Generator {
	gen, err := llm.NewGenerator(&cfg.LLM, factory, "")
	if err != nil {
		logger.Warn(ctx, "llm generator not available", "error", err.Error())
		return nil
	}
	return gen
}

func ProvideLLMConfig(cfg *config.Config) *config.LLMConfig {
	return &cfg.LLM
}

func ProvideAnswerService(cfg *config.Config, engine *retrieval.Engine, gen answer.Generator) *answer.Service {
	provider := cfg.LLM.DefaultProvider
	var timeout time.Duration
	if p, ok := cfg.LLM.Providers[provider]; ok {
		timeout = p.Timeout
	}
	return answer.NewService(engine, gen, provider, timeout)
}

func ProvideDecisionService(engine *retrieval.Engine) *decision.Service {
	return decision.NewService(engine)
}

func ProvideHealthHandler(cfg *config.Config, milvusClient *milvus.Client, redisClient *redis.Client) *handler.HealthHandler {
	var milvusChecker, redisChecker handler.HealthChecker
	if milvusClient != nil {
		milvusChecker = milvusClient
	}
	if redisClient != nil {
		redisChecker = redisClient
	}
	return handler.NewHealthHandler(cfg.App.Version, milvusChecker, redisChecker)
}

func ProvideRuleHandler(cfg *config.Config, engine *retrieval.Engine, answerSvc *answer.Service, decisionSvc *decision.Service) *handler.RuleHandler {
	return handler.NewRuleHandler(engine, answerSvc, decisionSvc, handler.RuleOptions{
		Collection:  cfg.Vector.Milvus.Collection,
		DefaultTopK: cfg.Retrieval.DefaultTopK,
		MaxTopK:     cfg.Retrieval.MaxTopK,
	})
}

// ProvideRouter Redis 可用时使用共享滑动窗口限流，否则退化为进程内令牌桶
func ProvideRouter(cfg *config.Config, handlers router.Handlers, redisClient *redis.Client) *router.Router {
	if redisClient == nil {
		return router.New(cfg, handlers)
	}
	return router.New(cfg, handlers, router.WithRateLimiter(redis.NewRateLimiter(redisClient), redis.BuildRateLimitKey))
}
