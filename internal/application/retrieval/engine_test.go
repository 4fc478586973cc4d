package retrieval

import (
	"context"
	"errors"
	"testing"

	"cancel-decision-api/internal/domain/entity"
	apperrors "cancel-decision-api/pkg/errors"
)

func newTestEngine(repo *fakeVectorRepo, emb *fakeEmbedder) *Engine {
	return NewEngine(emb, repo, "")
}

func TestSearchScopedIssuesTwoRetrievalsAndMerges(t *testing.T) {
	repo := &fakeVectorRepo{byCourse: map[string][]entity.Hit{
		"COURSE_A":            {hit("K1", 0.95, "COURSE_A"), hit("K2", 0.3, "COURSE_A")},
		entity.CommonCourseID: {hit("K1", 0.9, entity.CommonCourseID), hit("K9", 0.5, entity.CommonCourseID)},
	}}
	emb := &fakeEmbedder{}
	e := newTestEngine(repo, emb)

	got, err := e.Search(context.Background(), SearchInput{Query: "解約したい", Limit: 5, CourseID: "COURSE_A", Category: "縛り・解約金"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(emb.calls) != 1 {
		t.Fatalf("query should be embedded once, got %d calls", len(emb.calls))
	}
	if len(repo.searches) != 2 {
		t.Fatalf("searches = %d, want 2", len(repo.searches))
	}
	if repo.searches[0].Filter.CourseID != "COURSE_A" || repo.searches[1].Filter.CourseID != entity.CommonCourseID {
		t.Fatalf("filters = %+v", repo.searches)
	}
	for _, s := range repo.searches {
		if s.Filter.Category != "縛り・解約金" || s.TopK != 5 {
			t.Fatalf("search params = %+v", s)
		}
	}

	ids := knowIDs(got)
	want := []string{"K1", "K9", "K2"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
	if got[0].Score != 0.95 {
		t.Fatalf("K1 score = %v, want scoped 0.95", got[0].Score)
	}
}

func TestSearchCommonOrAbsentScopeSingleRetrieval(t *testing.T) {
	for _, course := range []string{"", entity.CommonCourseID, "  "} {
		repo := &fakeVectorRepo{byCourse: map[string][]entity.Hit{
			"":                    {hit("K1", 0.4, "X"), hit("K1", 0.3, "Y")},
			entity.CommonCourseID: {hit("C1", 0.8, entity.CommonCourseID)},
		}}
		e := newTestEngine(repo, &fakeEmbedder{})

		got, err := e.Search(context.Background(), SearchInput{Query: "q", Limit: 3, CourseID: course})
		if err != nil {
			t.Fatalf("course %q: %v", course, err)
		}
		if len(repo.searches) != 1 {
			t.Fatalf("course %q: searches = %d, want 1", course, len(repo.searches))
		}
		if course == "" || course == "  " {
			// 单次检索不做去重
			if len(got) != 2 {
				t.Fatalf("course %q: got %d hits, want 2", course, len(got))
			}
		}
	}
}

func TestSearchValidation(t *testing.T) {
	e := newTestEngine(&fakeVectorRepo{}, &fakeEmbedder{})

	_, err := e.Search(context.Background(), SearchInput{Query: "q", Limit: 0})
	if !apperrors.HasCode(err, apperrors.CodeInvalidParam) {
		t.Fatalf("limit 0: err = %v", err)
	}
	_, err = e.Search(context.Background(), SearchInput{Query: "   ", Limit: 1})
	if !apperrors.HasCode(err, apperrors.CodeInvalidParam) {
		t.Fatalf("blank query: err = %v", err)
	}
}

func TestSearchDisabled(t *testing.T) {
	e := NewEngine(nil, nil, "")
	_, err := e.Search(context.Background(), SearchInput{Query: "q", Limit: 1})
	if !errors.Is(err, ErrVectorDisabled) {
		t.Fatalf("err = %v, want ErrVectorDisabled", err)
	}
}

func TestSearchPropagatesFailures(t *testing.T) {
	t.Run("embedding", func(t *testing.T) {
		e := newTestEngine(&fakeVectorRepo{}, &fakeEmbedder{err: errors.New("tei: 503")})
		_, err := e.Search(context.Background(), SearchInput{Query: "q", Limit: 1})
		if !apperrors.HasCode(err, apperrors.CodeEmbeddingFailed) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("common retrieval fails", func(t *testing.T) {
		repo := &fakeVectorRepo{
			byCourse: map[string][]entity.Hit{"COURSE_A": {hit("K1", 0.9, "COURSE_A")}},
			failOn:   entity.CommonCourseID,
		}
		e := newTestEngine(repo, &fakeEmbedder{})
		got, err := e.Search(context.Background(), SearchInput{Query: "q", Limit: 2, CourseID: "COURSE_A"})
		if !apperrors.HasCode(err, apperrors.CodeVectorDBError) {
			t.Fatalf("err = %v", err)
		}
		if got != nil {
			t.Fatalf("partial results returned: %+v", got)
		}
		app := apperrors.AsAppError(err)
		if app.Message != "retrieval failed: search common rules" {
			t.Fatalf("message = %q", app.Message)
		}
	})
}

func TestSearchCustomCommonCourseID(t *testing.T) {
	repo := &fakeVectorRepo{byCourse: map[string][]entity.Hit{"SHARED": {hit("S1", 0.5, "SHARED")}}}
	e := NewEngine(&fakeEmbedder{}, repo, "SHARED")

	if _, err := e.Search(context.Background(), SearchInput{Query: "q", Limit: 2, CourseID: "COURSE_B"}); err != nil {
		t.Fatal(err)
	}
	if repo.searches[1].Filter.CourseID != "SHARED" {
		t.Fatalf("fallback filter = %+v", repo.searches[1].Filter)
	}
}
