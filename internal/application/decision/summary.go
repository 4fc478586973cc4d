package decision

import "strings"

// Summarize 将判定记录投影为 UI 摘要
func Summarize(r Record) Summary {
	return Summary{
		CanCancel:          r.Code != CodeDeny,
		FeeStatus:          feeStatus(r),
		ExceptionAvailable: r.ExceptionPossible,
		DeadlineKnown:      r.DeadlineRule != "",
		NeedsConfirmation:  len(r.NeedsConfirmation) > 0,
		DecisionCode:       r.Code,
	}
}

// feeStatus 只有文案明确写出“なし”时才认定无需解约金，否则视为未知
func feeStatus(r Record) FeeStatus {
	switch r.FeeRequired {
	case FeeRequired:
		return FeeStatusRequired
	case FeeNotRequired:
		if strings.Contains(r.FeeNote, "なし") {
			return FeeStatusNone
		}
		return FeeStatusUnknown
	default:
		return FeeStatusUnknown
	}
}
