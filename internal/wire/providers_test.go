package wire

import (
	"context"
	"testing"
	"time"

	"cancel-decision-api/internal/config"
)

func TestOptionalProvidersReturnUntypedNil(t *testing.T) {
	if c := ProvideEmbeddingCache(nil); c != nil {
		t.Fatalf("expected nil cache interface, got %T", c)
	}
	if v := ProvideVectorRepository(nil); v != nil {
		t.Fatalf("expected nil vector repository interface, got %T", v)
	}
	if r := ProvideMilvusRepository(nil, &config.Config{}); r != nil {
		t.Fatal("expected nil repository without client")
	}
}

func TestProvideRedisClientOptional_Disabled(t *testing.T) {
	client, cleanup, err := ProvideRedisClientOptional(context.Background(), &config.Config{})
	if err != nil || client != nil {
		t.Fatalf("expected disabled redis, got client=%v err=%v", client, err)
	}
	cleanup()
}

func TestProvideAnswerService_UsesProviderTimeout(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.DefaultProvider = "ollama"
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"ollama": {Kind: "ollama", Timeout: 5 * time.Second},
	}
	engine := ProvideRetrievalEngine(cfg, nil, nil)
	if engine.Enabled() {
		t.Fatal("engine without embedder should be disabled")
	}
	if svc := ProvideAnswerService(cfg, engine, nil); svc == nil {
		t.Fatal("expected answer service")
	}
}

func TestProvideGeneratorOptional_UnknownProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.DefaultProvider = "missing"
	if gen := ProvideGeneratorOptional(context.Background(), cfg, nil); gen != nil {
		t.Fatalf("expected nil generator, got %T", gen)
	}
}
