package decision

import (
	"reflect"
	"strings"
	"testing"
)

func TestRenderFullRecord(t *testing.T) {
	rec := Record{
		Decision:          "原則は途中解約不可。",
		FeeRequired:       FeeRequired,
		FeeNote:           "初回解約金（所定額／金額は別途確認）",
		ExceptionPossible: true,
		ExceptionNote:     "例外あり",
		DeadlineRule:      "解約受付期限は7日前。",
		OperatorActions:   []string{"a", "b"},
		NeedsConfirmation: []string{"n1", "n2"},
		UsedKnowIDs:       []string{"K1", "K2"},
		Code:              CodeAllowWithFee,
	}
	out := Render("解約したい", "受注回数=初回", rec)

	wantCustomer := strings.Join([]string{
		"お問い合わせありがとうございます。",
		"状況を確認したところ、受注回数=初回",
		"原則は途中解約不可。",
		"なお、解約金については「初回解約金（所定額／金額は別途確認）」となります。",
		"受付期限の目安：解約受付期限は7日前。",
		"確認が必要な点がございます：",
		"・n1",
		"・n2",
	}, "\n")
	if out.CustomerMessage != wantCustomer {
		t.Errorf("customer message:\n%s\nwant:\n%s", out.CustomerMessage, wantCustomer)
	}

	wantNote := strings.Join([]string{
		"[受付内容] 解約したい",
		"[状況] 受注回数=初回",
		"[判断] ALLOW_WITH_FEE / 原則は途中解約不可。",
		"[解約金メモ] 初回解約金（所定額／金額は別途確認）",
		"[例外メモ] 例外あり",
		"[期限ルール] 解約受付期限は7日前。",
		"[要確認]",
		"- n1",
		"- n2",
		"[根拠know_id] K1, K2",
	}, "\n")
	if out.OperatorNote != wantNote {
		t.Errorf("operator note:\n%s\nwant:\n%s", out.OperatorNote, wantNote)
	}

	if !reflect.DeepEqual(out.OperatorSteps, []string{"1. a", "2. b"}) {
		t.Errorf("steps = %v", out.OperatorSteps)
	}
}

func TestRenderExceptionLineOnlyForExceptionCode(t *testing.T) {
	rec := Record{Decision: "d", ExceptionPossible: true, ExceptionNote: "例外あり", Code: CodeAllowException}
	out := Render("q", "", rec)
	if !strings.Contains(out.CustomerMessage, "また、例外対応の可能性については「例外あり」となります。") {
		t.Errorf("missing exception line: %s", out.CustomerMessage)
	}

	rec.Code = CodeNeedConfirmation
	out = Render("q", "", rec)
	if strings.Contains(out.CustomerMessage, "例外対応") {
		t.Errorf("exception line should be omitted: %s", out.CustomerMessage)
	}
	if !strings.Contains(out.OperatorNote, "[例外メモ] 例外あり") {
		t.Errorf("operator note keeps exception note regardless of code: %s", out.OperatorNote)
	}
}

func TestRenderMinimal(t *testing.T) {
	out := Render("q", "", Record{Decision: "d", Code: CodeAllow})

	if out.CustomerMessage != "お問い合わせありがとうございます。\nd" {
		t.Errorf("customer = %q", out.CustomerMessage)
	}
	if out.OperatorNote != "[受付内容] q\n[判断] ALLOW / d\n[根拠know_id] (なし)" {
		t.Errorf("note = %q", out.OperatorNote)
	}
	if out.OperatorSteps == nil || len(out.OperatorSteps) != 0 {
		t.Errorf("steps = %#v, want empty non-nil", out.OperatorSteps)
	}
}

func TestRenderIdempotent(t *testing.T) {
	rec := Evaluate("解約したい", "受注回数=初回", hits("初回解約金の支払いを条件に解約可。解約受付期限は7日前。")).Record
	a := Render("解約したい", "受注回数=初回", rec)
	b := Render("解約したい", "受注回数=初回", rec)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("render not idempotent:\n%+v\n%+v", a, b)
	}
}
