package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeChatModel struct {
	got   []*schema.Message
	reply *schema.Message
	err   error
}

func (m *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.got = input
	return m.reply, m.err
}

func (m *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

type fakeModels struct {
	m    model.BaseChatModel
	name string
}

func (f *fakeModels) Get(_ context.Context, name string) (model.BaseChatModel, error) {
	f.name = name
	if f.m == nil {
		return nil, errors.New("no model")
	}
	return f.m, nil
}

func TestChatGenerator_Generate(t *testing.T) {
	cm := &fakeChatModel{reply: schema.AssistantMessage("  回答です。\n", nil)}
	models := &fakeModels{m: cm}

	out, err := NewChatGenerator(models, "openai").Generate(context.Background(), "プロンプト")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "回答です。" {
		t.Fatalf("out = %q", out)
	}
	if models.name != "openai" {
		t.Fatalf("provider = %q", models.name)
	}
	if len(cm.got) != 1 || cm.got[0].Role != schema.User || cm.got[0].Content != "プロンプト" {
		t.Fatalf("messages = %+v", cm.got)
	}
}

func TestChatGenerator_PropagatesErrors(t *testing.T) {
	if _, err := NewChatGenerator(&fakeModels{}, "x").Generate(context.Background(), "p"); err == nil {
		t.Fatal("expected factory error")
	}

	boom := errors.New("boom")
	_, err := NewChatGenerator(&fakeModels{m: &fakeChatModel{err: boom}}, "x").Generate(context.Background(), "p")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
