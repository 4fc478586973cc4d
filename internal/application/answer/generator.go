package answer

import (
	"context"
	"fmt"
)

// Generator 生成式调用端口：输入 Prompt，返回回答文本
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// UpstreamStatusError 生成端点返回了非成功状态码
type UpstreamStatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Body)
}
