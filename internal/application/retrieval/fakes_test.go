package retrieval

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/components/embedding"

	"cancel-decision-api/internal/domain/entity"
)

type fakeEmbedder struct {
	calls [][]string
	err   error
}

func (f *fakeEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	f.calls = append(f.calls, append([]string(nil), texts...))
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{float64(i), 0.5}
	}
	return out, nil
}

type fakeVectorRepo struct {
	// byCourse 按 course_id 返回的命中；key 为空串表示未过滤
	byCourse  map[string][]entity.Hit
	failOn    string
	searches  []VectorSearchParams
	deleted   []string
	inserted  []*VectorRule
	ensureErr error
}

func (f *fakeVectorRepo) EnsureRulesCollection(context.Context) error { return f.ensureErr }

func (f *fakeVectorRepo) SearchRules(_ context.Context, p *VectorSearchParams) ([]entity.Hit, error) {
	f.searches = append(f.searches, *p)
	if f.failOn != "" && p.Filter.CourseID == f.failOn {
		return nil, errors.New("milvus: collection not loaded")
	}
	hits := f.byCourse[p.Filter.CourseID]
	if len(hits) > p.TopK {
		hits = hits[:p.TopK]
	}
	return hits, nil
}

func (f *fakeVectorRepo) DeleteRulesByKnowID(_ context.Context, ids []string) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

func (f *fakeVectorRepo) InsertRules(_ context.Context, rules []*VectorRule) error {
	f.inserted = append(f.inserted, rules...)
	return nil
}

func hit(knowID string, score float64, course string) entity.Hit {
	return entity.Hit{Score: score, Rule: entity.Rule{KnowID: knowID, CourseID: course, Text: knowID + " text"}}
}
