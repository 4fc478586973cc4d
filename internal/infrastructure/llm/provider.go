package llm

import (
	"fmt"

	"cancel-decision-api/internal/application/answer"
	"cancel-decision-api/internal/config"
)

// 提供商调用方式
const (
	KindOpenAI = "openai"
	KindOllama = "ollama"
)

// NewGenerator 按提供商配置的 kind 选择生成器；name 为空时使用默认提供商
func NewGenerator(cfg *config.LLMConfig, factory *EinoFactory, name string) (answer.Generator, error) {
	if name == "" {
		name = cfg.DefaultProvider
	}
	p, ok := cfg.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", name)
	}

	switch p.Kind {
	case KindOllama:
		return NewOllamaClient(p), nil
	case KindOpenAI, "":
		return NewChatGenerator(factory, name), nil
	default:
		return nil, fmt.Errorf("provider %s: unsupported kind %q", name, p.Kind)
	}
}
