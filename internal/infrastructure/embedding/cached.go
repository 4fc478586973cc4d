package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	goredis "github.com/redis/go-redis/v9"

	"cancel-decision-api/pkg/logger"
	"cancel-decision-api/pkg/metrics"
)

const defaultCacheTTL = 24 * time.Hour

// Cache 向量缓存所需的最小能力，由 persistence/redis.Cache 实现
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
}

// CachedEmbedder 以 model + 文本摘要为键缓存向量
// 单条查询走 singleflight 合并并发，批量导入逐条查缓存、未命中的合并为一次调用
type CachedEmbedder struct {
	next  embedding.Embedder
	cache Cache
	model string
	ttl   time.Duration
}

var _ embedding.Embedder = (*CachedEmbedder)(nil)

func NewCachedEmbedder(next embedding.Embedder, cache Cache, model string, ttl time.Duration) *CachedEmbedder {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedEmbedder{next: next, cache: cache, model: model, ttl: ttl}
}

func (c *CachedEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if len(texts) == 1 {
		vec, err := c.embedOne(ctx, texts[0], opts...)
		if err != nil {
			return nil, err
		}
		return [][]float64{vec}, nil
	}

	out := make([][]float64, len(texts))
	var missIdx []int
	var missTexts []string
	for i, t := range texts {
		if vec, ok := c.lookup(ctx, t); ok {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.next.EmbedStrings(ctx, missTexts, opts...)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("embedding count mismatch: want %d, got %d", len(missTexts), len(vecs))
	}
	for j, i := range missIdx {
		out[i] = vecs[j]
		if err := c.cache.Set(ctx, c.key(missTexts[j]), vecs[j], c.ttl); err != nil {
			logger.Warn(ctx, "embedding cache write failed", "error", err)
		}
	}
	return out, nil
}

func (c *CachedEmbedder) embedOne(ctx context.Context, text string, opts ...embedding.Option) ([]float64, error) {
	loaded := false
	raw, err := c.cache.GetOrLoadSafe(ctx, c.key(text), c.ttl, func() (interface{}, error) {
		loaded = true
		vecs, err := c.next.EmbedStrings(ctx, []string{text}, opts...)
		if err != nil {
			return nil, err
		}
		if len(vecs) != 1 {
			return nil, fmt.Errorf("embedding count mismatch: want 1, got %d", len(vecs))
		}
		return vecs[0], nil
	})
	if err != nil {
		if loaded {
			return nil, err
		}
		// 缓存不可用时直接调用下游
		metrics.EmbeddingCacheTotal.WithLabelValues("error").Inc()
		logger.Warn(ctx, "embedding cache unavailable", "error", err)
		vecs, err := c.next.EmbedStrings(ctx, []string{text}, opts...)
		if err != nil {
			return nil, err
		}
		if len(vecs) != 1 {
			return nil, fmt.Errorf("embedding count mismatch: want 1, got %d", len(vecs))
		}
		return vecs[0], nil
	}

	if loaded {
		metrics.EmbeddingCacheTotal.WithLabelValues("miss").Inc()
	} else {
		metrics.EmbeddingCacheTotal.WithLabelValues("hit").Inc()
	}

	var vec []float64
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, fmt.Errorf("decode cached embedding: %w", err)
	}
	return vec, nil
}

func (c *CachedEmbedder) lookup(ctx context.Context, text string) ([]float64, bool) {
	raw, err := c.cache.Get(ctx, c.key(text))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			metrics.EmbeddingCacheTotal.WithLabelValues("miss").Inc()
		} else {
			metrics.EmbeddingCacheTotal.WithLabelValues("error").Inc()
		}
		return nil, false
	}
	var vec []float64
	if err := json.Unmarshal(raw, &vec); err != nil {
		metrics.EmbeddingCacheTotal.WithLabelValues("error").Inc()
		return nil, false
	}
	metrics.EmbeddingCacheTotal.WithLabelValues("hit").Inc()
	return vec, true
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + c.model + ":" + hex.EncodeToString(sum[:])
}
