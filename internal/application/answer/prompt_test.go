package answer

import (
	"strings"
	"testing"

	"cancel-decision-api/internal/domain/entity"
)

func TestBuildPromptSections(t *testing.T) {
	hits := []entity.Hit{
		{Score: 0.9, Rule: entity.Rule{KnowID: "K1", CourseID: "DP_7P_001", Category: "縛り・解約金", Title: "初回", Text: "初回解約金の支払いを条件に解約可。<注意>", Tags: "fee"}},
	}
	p := BuildPrompt("解約したい", "受注回数=初回", hits)

	for _, want := range []string{
		"あなたはコールセンターの解約対応の実務アシスタントです。",
		"【参照know_id】（カンマ区切りで列挙）",
		"# 追加コンテキスト\n受注回数=初回",
		"# 問い合わせ\n解約したい",
		`"know_id": "K1"`,
		`"text": "初回解約金の支払いを条件に解約可。<注意>"`,
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q\n%s", want, p)
		}
	}
	if strings.Contains(p, `"tags"`) {
		t.Error("tags should not be injected into the prompt")
	}
}

func TestBuildPromptEmptyContextAndHits(t *testing.T) {
	p := BuildPrompt("q", "  ", nil)
	if !strings.Contains(p, "# 追加コンテキスト\n（なし）") {
		t.Errorf("missing empty context placeholder:\n%s", p)
	}
	if !strings.HasSuffix(p, "# ルール（根拠データ）\n[]") {
		t.Errorf("empty rule list should encode as []:\n%s", p)
	}
}
