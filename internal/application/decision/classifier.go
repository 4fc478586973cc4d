package decision

import "strings"

// denyMarkers 判定文案中表示明确拒绝的短语
var denyMarkers = []string{"不可", "できない", "受付できません", "原則は途中解約不可", "原則解約不可"}

// codeRule 分类规则，严格按顺序匹配，首个命中生效
type codeRule struct {
	when func(r Record) bool
	code Code
}

// codeRules 缺失信息优先于一切，即使文案本身可判为拒绝
var codeRules = []codeRule{
	{when: func(r Record) bool { return len(r.NeedsConfirmation) > 0 }, code: CodeNeedConfirmation},
	{when: func(r Record) bool { return r.FeeRequired == FeeRequired }, code: CodeAllowWithFee},
	{when: func(r Record) bool { return r.ExceptionPossible }, code: CodeAllowException},
	{when: func(r Record) bool { return containsAny(r.Decision, denyMarkers) }, code: CodeDeny},
}

// Classify 根据判定记录得出判定结果码
func Classify(r Record) Code {
	for _, rule := range codeRules {
		if rule.when(r) {
			return rule.code
		}
	}
	return CodeAllow
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
