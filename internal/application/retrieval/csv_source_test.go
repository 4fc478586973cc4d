package retrieval

import (
	"strings"
	"testing"
)

func TestReadRulesCSV(t *testing.T) {
	data := "\ufeffknow_id,course_id,category,title,text,tags\n" +
		"K1,DP_7P_001,縛り・解約金,初回解約,\"初回解約金の支払いを条件に解約可。\",fee\n" +
		"K2,COMMON,解約期限,期限,解約受付期限は次回発送予定日の10日前。\n"

	rules, err := ReadRulesCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadRulesCSV: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("len = %d", len(rules))
	}
	if rules[0].KnowID != "K1" || rules[0].CourseID != "DP_7P_001" || rules[0].Tags != "fee" {
		t.Fatalf("rule 0 = %+v", rules[0])
	}
	if rules[1].Tags != "" || rules[1].ClientID != "" {
		t.Fatalf("short row should default missing fields, got %+v", rules[1])
	}
}

func TestReadRulesCSVMissingColumn(t *testing.T) {
	if _, err := ReadRulesCSV(strings.NewReader("know_id,title\nK1,x\n")); err == nil {
		t.Fatal("expected error for missing text column")
	}
	if _, err := ReadRulesCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestReadRulesCSVComposesDecomposedKana(t *testing.T) {
	// カ + 组合浊点（U+3099）
	decomposed := "\u30ab\u3099"
	data := "know_id,text\nK1," + decomposed + "イド\n"

	rules, err := ReadRulesCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadRulesCSV: %v", err)
	}
	if rules[0].Text != "\u30acイド" {
		t.Fatalf("text = %q, want composed form", rules[0].Text)
	}
}
