package embedding

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"

	"cancel-decision-api/internal/config"
)

// 向量化后端
const (
	ProviderOpenAI = "openai"
	ProviderHTTP   = "http"
)

// NewEinoEmbedder 创建基于 Eino OpenAI 兼容接口的 Embedder
func NewEinoEmbedder(ctx context.Context, cfg *config.EmbeddingConfig) (embedding.Embedder, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("embedding endpoint is required")
	}

	embedder, err := openai.NewEmbedder(ctx, &openai.EmbeddingConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.Endpoint,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino embedder: %w", err)
	}

	return embedder, nil
}

// NewEmbedder 按配置选择后端；cache 非空时包一层 Redis 缓存
func NewEmbedder(ctx context.Context, cfg *config.EmbeddingConfig, cache Cache) (embedding.Embedder, error) {
	var (
		base embedding.Embedder
		err  error
	)
	switch cfg.Provider {
	case ProviderHTTP:
		base = NewHTTPClient(cfg)
	case ProviderOpenAI, "":
		base, err = NewEinoEmbedder(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cache == nil {
		return base, nil
	}
	return NewCachedEmbedder(base, cache, cfg.Model, cfg.CacheTTL), nil
}
