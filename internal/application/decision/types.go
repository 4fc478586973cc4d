package decision

import (
	"encoding/json"
	"fmt"
)

// FeeFlag 解约金是否发生的三态标记
// 零值为 FeeUnknown，与“确认无需解约金”严格区分
type FeeFlag int8

const (
	FeeUnknown FeeFlag = iota
	FeeRequired
	FeeNotRequired
)

// Known 是否已确定
func (f FeeFlag) Known() bool {
	return f == FeeRequired || f == FeeNotRequired
}

func (f FeeFlag) String() string {
	switch f {
	case FeeRequired:
		return "true"
	case FeeNotRequired:
		return "false"
	default:
		return "unknown"
	}
}

// MarshalJSON 输出 true / false / null
func (f FeeFlag) MarshalJSON() ([]byte, error) {
	switch f {
	case FeeRequired:
		return []byte("true"), nil
	case FeeNotRequired:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON 接受 true / false / null
func (f *FeeFlag) UnmarshalJSON(b []byte) error {
	var v *bool
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("fee flag: %w", err)
	}
	switch {
	case v == nil:
		*f = FeeUnknown
	case *v:
		*f = FeeRequired
	default:
		*f = FeeNotRequired
	}
	return nil
}

// Code 判定结果码
type Code string

const (
	CodeNeedConfirmation Code = "NEED_CONFIRMATION"
	CodeAllowWithFee     Code = "ALLOW_WITH_FEE"
	CodeAllowException   Code = "ALLOW_EXCEPTION"
	CodeDeny             Code = "DENY"
	CodeAllow            Code = "ALLOW"
)

// FeeStatus UI 展示用的解约金状态
type FeeStatus string

const (
	FeeStatusRequired FeeStatus = "REQUIRED"
	FeeStatusNone     FeeStatus = "NONE"
	FeeStatusUnknown  FeeStatus = "UNKNOWN"
)

// Record 一次判定的完整结果，每个请求从零构造，不持久化
type Record struct {
	Decision          string   `json:"decision"`
	FeeRequired       FeeFlag  `json:"fee_required"`
	FeeNote           string   `json:"fee_note,omitempty"`
	ExceptionPossible bool     `json:"exception_possible"`
	ExceptionNote     string   `json:"exception_note,omitempty"`
	DeadlineRule      string   `json:"deadline_rule,omitempty"`
	OperatorActions   []string `json:"operator_actions"`
	NeedsConfirmation []string `json:"needs_confirmation"`
	UsedKnowIDs       []string `json:"used_know_ids"`
	Code              Code     `json:"decision_code,omitempty"`

	// MatchedRules 命中的规则名（按阶段顺序），用于审计日志
	MatchedRules []string `json:"-"`
}

// Summary 面向 UI 的判定摘要
type Summary struct {
	CanCancel          bool      `json:"can_cancel"`
	FeeStatus          FeeStatus `json:"fee_status"`
	ExceptionAvailable bool      `json:"exception_available"`
	DeadlineKnown      bool      `json:"deadline_known"`
	NeedsConfirmation  bool      `json:"needs_confirmation"`
	DecisionCode       Code      `json:"decision_code"`
}

// Rendered 渲染后的客服/坐席文案
type Rendered struct {
	CustomerMessage string   `json:"customer_message"`
	OperatorNote    string   `json:"operator_note"`
	OperatorSteps   []string `json:"operator_steps"`
}
