// Package entity 定义领域实体
package entity

import (
	"fmt"
	"strings"
)

// CommonCourseID 适用于所有 course 的通用规则保留值
const CommonCourseID = "COMMON"

// Rule 合同规则片段（向量库中的一条记录）
// 入库后不可变；text 是判定引擎唯一的匹配对象
type Rule struct {
	// ID 向量库主键（导入时生成的 uuid），know_id 缺失时作为去重兜底
	ID       string `json:"id,omitempty"`
	KnowID   string `json:"know_id"`
	ClientID string `json:"client_company_id,omitempty"`
	CourseID string `json:"course_id"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Tags     string `json:"tags"`
}

// DedupKey 返回合并去重使用的键：优先 know_id，其次主键；都没有时返回空串
func (r Rule) DedupKey() string {
	if k := strings.TrimSpace(r.KnowID); k != "" {
		return k
	}
	return strings.TrimSpace(r.ID)
}

// RuleFromPayload 从宽松的键值载荷构造 Rule，缺失或非字符串字段按空串处理
func RuleFromPayload(payload map[string]any) Rule {
	return Rule{
		ID:       payloadString(payload, "id"),
		KnowID:   payloadString(payload, "know_id"),
		ClientID: payloadString(payload, "client_company_id"),
		CourseID: payloadString(payload, "course_id"),
		Category: payloadString(payload, "category"),
		Title:    payloadString(payload, "title"),
		Text:     payloadString(payload, "text"),
		Tags:     payloadString(payload, "tags"),
	}
}

func payloadString(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case int, int32, int64, float32, float64:
		return fmt.Sprint(s)
	default:
		return ""
	}
}

// Hit 一条带相似度分数的检索结果，分数越大越相关
type Hit struct {
	Score float64 `json:"score"`
	Rule  Rule    `json:"payload"`
}

// Texts 按命中顺序返回规则正文
func Texts(hits []Hit) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Rule.Text)
	}
	return out
}

// KnowIDs 按命中顺序返回 know_id（每条命中一项，允许空串）
func KnowIDs(hits []Hit) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Rule.KnowID)
	}
	return out
}
