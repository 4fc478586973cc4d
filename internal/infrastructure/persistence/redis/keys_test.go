package redis

import (
	"errors"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestBuildRateLimitKey(t *testing.T) {
	if got := BuildRateLimitKey("10.0.0.1", "/v1/answer"); got != "ratelimit:10.0.0.1:/v1/answer" {
		t.Fatalf("key = %q", got)
	}
}

func TestEmbeddingKeyPattern(t *testing.T) {
	if got := EmbeddingKeyPattern(""); got != "emb:*" {
		t.Fatalf("pattern = %q", got)
	}
	if got := EmbeddingKeyPattern("multilingual-e5-small"); got != "emb:multilingual-e5-small:*" {
		t.Fatalf("pattern = %q", got)
	}
}

func TestIsNil(t *testing.T) {
	if !IsNil(fmt.Errorf("wrapped: %w", redis.Nil)) {
		t.Fatal("wrapped redis.Nil not detected")
	}
	if IsNil(errors.New("other")) {
		t.Fatal("unexpected nil match")
	}
}
