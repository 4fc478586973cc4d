package dto

import (
	"encoding/json"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestSearchRequest_ResolveTopK(t *testing.T) {
	tests := []struct {
		name    string
		topK    *int
		want    int
		wantErr bool
	}{
		{name: "default", topK: nil, want: 5},
		{name: "lower bound", topK: intPtr(1), want: 1},
		{name: "upper bound", topK: intPtr(20), want: 20},
		{name: "zero", topK: intPtr(0), wantErr: true},
		{name: "too large", topK: intPtr(21), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &SearchRequest{Query: "q", TopK: tt.topK}
			got, err := r.ResolveTopK(5, 20)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAnswerRequest_DecodesFlatJSON(t *testing.T) {
	var r AnswerRequest
	body := `{"query":"解約したい","top_k":3,"course_id":" C001 ","context":"受注回数=初回"}`
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Query != "解約したい" || *r.TopK != 3 {
		t.Fatalf("request = %+v", r)
	}
	if r.CourseIDValue() != "C001" || r.CategoryValue() != "" || r.ContextValue() != "受注回数=初回" {
		t.Fatalf("values = %q %q %q", r.CourseIDValue(), r.CategoryValue(), r.ContextValue())
	}
}
