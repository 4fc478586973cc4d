package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"cancel-decision-api/internal/application/answer"
)

// ChatModelProvider 按名称提供 ChatModel，EinoFactory 实现该接口
type ChatModelProvider interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)
}

// ChatGenerator 通过 OpenAI 兼容 Chat 接口生成回答
type ChatGenerator struct {
	models   ChatModelProvider
	provider string
}

var _ answer.Generator = (*ChatGenerator)(nil)

func NewChatGenerator(models ChatModelProvider, provider string) *ChatGenerator {
	return &ChatGenerator{models: models, provider: provider}
}

// Generate 以单条用户消息调用 ChatModel
func (g *ChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	cm, err := g.models.Get(ctx, g.provider)
	if err != nil {
		return "", err
	}

	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      "answer",
		Type:      "OpenAI",
		Component: components.ComponentOfChatModel,
	})

	msg, err := cm.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("chat model generate: %w", err)
	}
	if msg == nil {
		return "", fmt.Errorf("chat model returned no message")
	}
	return strings.TrimSpace(msg.Content), nil
}
