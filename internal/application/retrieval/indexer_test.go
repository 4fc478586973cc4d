package retrieval

import (
	"context"
	"errors"
	"testing"

	"cancel-decision-api/internal/domain/entity"
	apperrors "cancel-decision-api/pkg/errors"
)

func TestIndexRules(t *testing.T) {
	repo := &fakeVectorRepo{}
	emb := &fakeEmbedder{}
	idx := NewIndexer(emb, repo, 2)

	res, err := idx.IndexRules(context.Background(), []entity.Rule{
		{KnowID: "K1", CourseID: "COURSE_A", Text: "初回解約金あり"},
		{KnowID: " ", Text: "no id"},
		{KnowID: "K2", Text: "  "},
		{KnowID: "K3", Text: "解約受付期限は次回発送予定日の10日前。"},
		{KnowID: "K1", CourseID: "COURSE_A", Text: "初回解約金あり（改訂）"},
		{KnowID: "K4", Text: "返金保証"},
	})
	if err != nil {
		t.Fatalf("IndexRules: %v", err)
	}
	if res.Indexed != 3 || res.Skipped != 3 {
		t.Fatalf("result = %+v", res)
	}
	if len(emb.calls) != 2 {
		t.Fatalf("embed batches = %d, want 2 (batch size 2)", len(emb.calls))
	}
	if len(repo.deleted) != 3 || repo.deleted[0] != "K1" {
		t.Fatalf("deleted = %v", repo.deleted)
	}
	if len(repo.inserted) != 3 {
		t.Fatalf("inserted = %d", len(repo.inserted))
	}
	if repo.inserted[0].Text != "初回解約金あり（改訂）" {
		t.Fatalf("duplicate know_id in batch should keep the last row, got %q", repo.inserted[0].Text)
	}
	for _, r := range repo.inserted {
		if r.ID == "" || len(r.Vector) == 0 {
			t.Fatalf("row missing id or vector: %+v", r)
		}
	}
}

func TestIndexRulesEmbeddingFailure(t *testing.T) {
	repo := &fakeVectorRepo{}
	idx := NewIndexer(&fakeEmbedder{err: errors.New("boom")}, repo, 0)

	_, err := idx.IndexRules(context.Background(), []entity.Rule{{KnowID: "K1", Text: "t"}})
	if !apperrors.HasCode(err, apperrors.CodeEmbeddingFailed) {
		t.Fatalf("err = %v", err)
	}
	if len(repo.deleted) != 0 || len(repo.inserted) != 0 {
		t.Fatal("nothing should be written when embedding fails")
	}
}

func TestIndexRulesDisabled(t *testing.T) {
	if _, err := NewIndexer(nil, nil, 0).IndexRules(context.Background(), nil); !errors.Is(err, ErrVectorDisabled) {
		t.Fatalf("err = %v", err)
	}
}
