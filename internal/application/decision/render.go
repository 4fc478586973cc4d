package decision

import (
	"fmt"
	"strings"
)

const noKnowIDs = "(なし)"

// Render 生成顾客回复、坐席备忘与操作步骤，纯函数
func Render(query, context string, r Record) Rendered {
	return Rendered{
		CustomerMessage: customerMessage(context, r),
		OperatorNote:    operatorNote(query, context, r),
		OperatorSteps:   operatorSteps(r.OperatorActions),
	}
}

func customerMessage(context string, r Record) string {
	lines := []string{"お問い合わせありがとうございます。"}
	if context != "" {
		lines = append(lines, "状況を確認したところ、"+context)
	}
	lines = append(lines, r.Decision)
	if r.Code == CodeAllowWithFee && r.FeeNote != "" {
		lines = append(lines, "なお、解約金については「"+r.FeeNote+"」となります。")
	}
	if r.Code == CodeAllowException && r.ExceptionNote != "" {
		lines = append(lines, "また、例外対応の可能性については「"+r.ExceptionNote+"」となります。")
	}
	if r.DeadlineRule != "" {
		lines = append(lines, "受付期限の目安："+r.DeadlineRule)
	}
	if len(r.NeedsConfirmation) > 0 {
		lines = append(lines, "確認が必要な点がございます：")
		for _, n := range r.NeedsConfirmation {
			lines = append(lines, "・"+n)
		}
	}
	return strings.Join(lines, "\n")
}

func operatorNote(query, context string, r Record) string {
	lines := []string{"[受付内容] " + query}
	if context != "" {
		lines = append(lines, "[状況] "+context)
	}
	lines = append(lines, fmt.Sprintf("[判断] %s / %s", r.Code, r.Decision))
	if r.FeeNote != "" {
		lines = append(lines, "[解約金メモ] "+r.FeeNote)
	}
	if r.ExceptionNote != "" {
		lines = append(lines, "[例外メモ] "+r.ExceptionNote)
	}
	if r.DeadlineRule != "" {
		lines = append(lines, "[期限ルール] "+r.DeadlineRule)
	}
	if len(r.NeedsConfirmation) > 0 {
		lines = append(lines, "[要確認]")
		for _, n := range r.NeedsConfirmation {
			lines = append(lines, "- "+n)
		}
	}
	ids := noKnowIDs
	if len(r.UsedKnowIDs) > 0 {
		ids = strings.Join(r.UsedKnowIDs, ", ")
	}
	lines = append(lines, "[根拠know_id] "+ids)
	return strings.Join(lines, "\n")
}

func operatorSteps(actions []string) []string {
	steps := make([]string, 0, len(actions))
	for i, a := range actions {
		steps = append(steps, fmt.Sprintf("%d. %s", i+1, a))
	}
	return steps
}
