package answer

import (
	"bytes"
	"encoding/json"
	"strings"

	"cancel-decision-api/internal/domain/entity"
)

const emptyContext = "（なし）"

const instructionBlock = `あなたはコールセンターの解約対応の実務アシスタントです。
以下の【ルール】だけを根拠にして、【問い合わせ】への対応方針を日本語で回答してください。
推測で断言しないこと。ルールに金額が書かれていない場合は「解約金は発生する可能性がある（所定額）」までに留め、金額は「別途確認」と言うこと。

# 出力フォーマット（必ずこの順で）
【結論】（1〜3行）
【根拠】（know_id付きで箇条書き。最大3点）
【対応手順】（オペレータがやる操作/案内。箇条書き）
【追加で確認すべき事項】（不足情報がある場合のみ。箇条書き）
【参照know_id】（カンマ区切りで列挙）`

// ruleRef 注入到 Prompt 的规则引用，只保留判断需要的字段
type ruleRef struct {
	KnowID   string `json:"know_id"`
	CourseID string `json:"course_id"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}

// BuildPrompt 组装生成式回答的 Prompt：固定指令、补充上下文、问询、规则引用
func BuildPrompt(query, context string, hits []entity.Hit) string {
	ctxBlock := strings.TrimSpace(context)
	if ctxBlock == "" {
		ctxBlock = emptyContext
	}

	var sb strings.Builder
	sb.WriteString(instructionBlock)
	sb.WriteString("\n\n# 追加コンテキスト\n")
	sb.WriteString(ctxBlock)
	sb.WriteString("\n\n# 問い合わせ\n")
	sb.WriteString(query)
	sb.WriteString("\n\n# ルール（根拠データ）\n")
	sb.WriteString(encodeRefs(hits))
	return strings.TrimSpace(sb.String())
}

func encodeRefs(hits []entity.Hit) string {
	refs := make([]ruleRef, 0, len(hits))
	for _, h := range hits {
		refs = append(refs, ruleRef{
			KnowID:   h.Rule.KnowID,
			CourseID: h.Rule.CourseID,
			Category: h.Rule.Category,
			Title:    h.Rule.Title,
			Text:     h.Rule.Text,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// ruleRef 只包含字符串字段，编码不会失败
	_ = enc.Encode(refs)
	return strings.TrimSpace(buf.String())
}
