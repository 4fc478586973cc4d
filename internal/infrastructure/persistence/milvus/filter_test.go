package milvus

import (
	"testing"

	"cancel-decision-api/internal/application/retrieval"
)

func TestFilterExpr(t *testing.T) {
	tests := []struct {
		name   string
		filter retrieval.Filter
		want   string
	}{
		{name: "empty", filter: retrieval.Filter{}, want: ""},
		{name: "course only", filter: retrieval.Filter{CourseID: "C001"}, want: `course_id == "C001"`},
		{name: "category only", filter: retrieval.Filter{Category: "解約"}, want: `category == "解約"`},
		{
			name:   "both",
			filter: retrieval.Filter{CourseID: "COMMON", Category: "解約"},
			want:   `course_id == "COMMON" && category == "解約"`,
		},
		{
			name:   "escapes quotes",
			filter: retrieval.Filter{CourseID: `a" || course_id != "`},
			want:   `course_id == "a\" || course_id != \""`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filterExpr(tt.filter); got != tt.want {
				t.Fatalf("filterExpr() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestKnowIDInExpr(t *testing.T) {
	got := knowIDInExpr([]string{"K-1", `K"2`})
	want := `know_id in ["K-1", "K\"2"]`
	if got != want {
		t.Fatalf("knowIDInExpr() = %s, want %s", got, want)
	}
}
