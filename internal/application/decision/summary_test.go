package decision

import "testing"

func TestSummarize(t *testing.T) {
	cases := []struct {
		name string
		rec  Record
		want Summary
	}{
		{
			name: "deny cannot cancel",
			rec:  Record{Code: CodeDeny, FeeRequired: FeeNotRequired},
			want: Summary{CanCancel: false, FeeStatus: FeeStatusUnknown, DecisionCode: CodeDeny},
		},
		{
			name: "fee required",
			rec:  Record{Code: CodeNeedConfirmation, FeeRequired: FeeRequired, FeeNote: "初回解約金", NeedsConfirmation: []string{"a"}, DeadlineRule: "解約受付期限は…。"},
			want: Summary{CanCancel: true, FeeStatus: FeeStatusRequired, DeadlineKnown: true, NeedsConfirmation: true, DecisionCode: CodeNeedConfirmation},
		},
		{
			name: "explicit no fee",
			rec:  Record{Code: CodeAllowException, FeeRequired: FeeNotRequired, FeeNote: "解約金なし（該当条件の場合）", ExceptionPossible: true, ExceptionNote: "n"},
			want: Summary{CanCancel: true, FeeStatus: FeeStatusNone, ExceptionAvailable: true, DecisionCode: CodeAllowException},
		},
		{
			name: "unknown stays unknown",
			rec:  Record{Code: CodeAllow, FeeRequired: FeeUnknown, FeeNote: "解約金なし"},
			want: Summary{CanCancel: true, FeeStatus: FeeStatusUnknown, DecisionCode: CodeAllow},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Summarize(tc.rec); got != tc.want {
				t.Fatalf("Summarize = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestFeeFlagJSON(t *testing.T) {
	cases := map[FeeFlag]string{FeeRequired: "true", FeeNotRequired: "false", FeeUnknown: "null"}
	for flag, want := range cases {
		b, err := flag.MarshalJSON()
		if err != nil || string(b) != want {
			t.Errorf("%v: %s %v", flag, b, err)
		}
		var back FeeFlag = FeeRequired
		if err := back.UnmarshalJSON(b); err != nil || back != flag {
			t.Errorf("round trip %s -> %v (%v)", want, back, err)
		}
	}
	var f FeeFlag
	if err := f.UnmarshalJSON([]byte(`"yes"`)); err == nil {
		t.Error("expected error for string input")
	}
}
