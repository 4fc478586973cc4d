package milvus

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"cancel-decision-api/internal/application/retrieval"
	domain "cancel-decision-api/internal/domain/entity"
)

func TestHitsFromResult(t *testing.T) {
	res := client.SearchResult{
		ResultCount: 2,
		Scores:      []float32{0.9, 0.5},
		Fields: client.ResultSet{
			entity.NewColumnVarChar(fieldID, []string{"p1", "p2"}),
			entity.NewColumnVarChar(fieldKnowID, []string{"K1", "K2"}),
			entity.NewColumnVarChar(fieldCourseID, []string{"C001", "COMMON"}),
			entity.NewColumnVarChar(fieldText, []string{"初回解約金", "解約金なし"}),
		},
	}

	hits := hitsFromResult(res, entity.COSINE)
	if len(hits) != 2 {
		t.Fatalf("len = %d", len(hits))
	}
	if math.Abs(hits[0].Score-0.9) > 1e-6 || hits[0].Rule.KnowID != "K1" || hits[0].Rule.ID != "p1" {
		t.Fatalf("hit[0] = %+v", hits[0])
	}
	if hits[1].Rule.CourseID != "COMMON" || hits[1].Rule.Text != "解約金なし" {
		t.Fatalf("hit[1] = %+v", hits[1])
	}
	// 未返回的字段为空串
	if hits[0].Rule.Title != "" || hits[0].Rule.Category != "" {
		t.Fatalf("missing fields should be empty: %+v", hits[0].Rule)
	}
}

func TestSimilarity(t *testing.T) {
	if got := similarity(0.75, entity.COSINE); math.Abs(got-0.75) > 1e-6 {
		t.Fatalf("cosine = %v", got)
	}
	if got := similarity(1, entity.L2); got != 0.5 {
		t.Fatalf("l2 = %v", got)
	}
	if similarity(0.1, entity.L2) <= similarity(2, entity.L2) {
		t.Fatal("smaller L2 distance must score higher")
	}
}

func TestMetricType(t *testing.T) {
	if metricType("l2") != entity.L2 || metricType("IP") != entity.IP || metricType("") != entity.COSINE {
		t.Fatal("unexpected metric mapping")
	}
}

func TestRulesToColumns(t *testing.T) {
	rules := []*retrieval.VectorRule{
		{Rule: domain.Rule{ID: "p1", KnowID: "K1", Text: "t1"}, Vector: []float32{1, 0}},
		nil,
		{Rule: domain.Rule{ID: "p2", KnowID: "K2", Text: "t2"}, Vector: []float32{0, 1}},
	}
	cols, err := rulesToColumns(rules, 2)
	if err != nil {
		t.Fatalf("rulesToColumns: %v", err)
	}
	if len(cols) != 9 {
		t.Fatalf("columns = %d", len(cols))
	}
	for _, c := range cols {
		if c.Len() != 2 {
			t.Fatalf("column %s len = %d", c.Name(), c.Len())
		}
	}

	if _, err := rulesToColumns(rules, 3); err == nil {
		t.Fatal("expected dimension mismatch")
	}
}

func TestRepository_NilClientDisabled(t *testing.T) {
	var r *Repository
	if err := r.EnsureRulesCollection(context.Background()); !errors.Is(err, retrieval.ErrVectorDisabled) {
		t.Fatalf("err = %v", err)
	}
	_, err := NewRepository(nil, Options{}).SearchRules(context.Background(), &retrieval.VectorSearchParams{TopK: 1})
	if !errors.Is(err, retrieval.ErrVectorDisabled) {
		t.Fatalf("err = %v", err)
	}
}
