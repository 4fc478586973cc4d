package dto

import (
	"fmt"
	"strings"
)

// SearchRequest 规则检索请求
type SearchRequest struct {
	Query    string  `json:"query" binding:"required,max=5000"`
	TopK     *int    `json:"top_k,omitempty"`
	CourseID *string `json:"course_id,omitempty"`
	Category *string `json:"category,omitempty"`
}

// AnswerRequest 生成式回答与判定共用的请求
type AnswerRequest struct {
	SearchRequest
	// Context 客服画面获得的补充事实，如受注回数、次回発送予定日
	Context *string `json:"context,omitempty" binding:"omitempty,max=5000"`
}

// ResolveTopK 未指定时取默认值，指定时必须落在 [1, max]
func (r *SearchRequest) ResolveTopK(def, max int) (int, error) {
	if r.TopK == nil {
		return def, nil
	}
	k := *r.TopK
	if k < 1 || k > max {
		return 0, fmt.Errorf("top_k must be between 1 and %d", max)
	}
	return k, nil
}

// CourseIDValue 去除首尾空白后的 course_id
func (r *SearchRequest) CourseIDValue() string {
	return deref(r.CourseID)
}

// CategoryValue 去除首尾空白后的 category
func (r *SearchRequest) CategoryValue() string {
	return deref(r.Category)
}

// ContextValue 去除首尾空白后的补充上下文
func (r *AnswerRequest) ContextValue() string {
	return deref(r.Context)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
