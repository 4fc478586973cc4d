package retrieval

import (
	"testing"

	"cancel-decision-api/internal/domain/entity"
)

func knowIDs(hits []entity.Hit) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Rule.KnowID)
	}
	return out
}

func TestMergeHitsScopedWinsOnDuplicate(t *testing.T) {
	scoped := []entity.Hit{hit("K1", 0.95, "COURSE_A")}
	common := []entity.Hit{hit("K1", 0.9, entity.CommonCourseID)}

	got := MergeHits(scoped, common, 5)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1: %+v", len(got), got)
	}
	if got[0].Score != 0.95 || got[0].Rule.CourseID != "COURSE_A" {
		t.Fatalf("kept %+v, want scoped hit with score 0.95", got[0])
	}
}

func TestMergeHitsScopedWinsEvenWithLowerScore(t *testing.T) {
	scoped := []entity.Hit{hit("K1", 0.4, "COURSE_A")}
	common := []entity.Hit{hit("K1", 0.9, entity.CommonCourseID)}

	got := MergeHits(scoped, common, 5)
	if len(got) != 1 || got[0].Rule.CourseID != "COURSE_A" {
		t.Fatalf("got %+v, want only the scoped copy", got)
	}
}

func TestMergeHitsStableDescending(t *testing.T) {
	scoped := []entity.Hit{hit("A", 0.5, "C"), hit("B", 0.8, "C"), hit("C", 0.5, "C")}
	common := []entity.Hit{hit("D", 0.5, entity.CommonCourseID), hit("E", 0.9, entity.CommonCourseID)}

	got := knowIDs(MergeHits(scoped, common, 10))
	want := []string{"E", "B", "A", "C", "D"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMergeHitsTruncates(t *testing.T) {
	scoped := []entity.Hit{hit("A", 0.1, "C"), hit("B", 0.2, "C"), hit("C", 0.3, "C")}
	common := []entity.Hit{hit("D", 0.4, entity.CommonCourseID), hit("E", 0.5, entity.CommonCourseID)}

	for limit := 1; limit <= 6; limit++ {
		got := MergeHits(scoped, common, limit)
		if len(got) > limit {
			t.Fatalf("limit %d: len = %d", limit, len(got))
		}
	}
	got := knowIDs(MergeHits(scoped, common, 2))
	if got[0] != "E" || got[1] != "D" {
		t.Fatalf("top 2 = %v", got)
	}
}

func TestMergeHitsKeylessHitsRetained(t *testing.T) {
	keyless := entity.Hit{Score: 0.7, Rule: entity.Rule{Text: "no id"}}
	withPoint := entity.Hit{Score: 0.6, Rule: entity.Rule{ID: "p-1", Text: "point only"}}
	dupPoint := entity.Hit{Score: 0.5, Rule: entity.Rule{ID: "p-1", Text: "point only"}}

	got := MergeHits([]entity.Hit{keyless, withPoint}, []entity.Hit{keyless, dupPoint}, 10)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (two keyless copies plus one point-id hit): %+v", len(got), got)
	}
	if got[2].Rule.ID != "p-1" || got[2].Score != 0.6 {
		t.Fatalf("point-id dedup kept %+v", got[2])
	}
}

func TestMergeHitsKnowIDTrimmed(t *testing.T) {
	a := entity.Hit{Score: 0.9, Rule: entity.Rule{KnowID: "K1 "}}
	b := entity.Hit{Score: 0.8, Rule: entity.Rule{KnowID: " K1"}}
	if got := MergeHits([]entity.Hit{a}, []entity.Hit{b}, 5); len(got) != 1 {
		t.Fatalf("whitespace variants of the same know_id should dedup, got %d hits", len(got))
	}
}
