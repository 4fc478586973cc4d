package milvus

import (
	"strings"

	"cancel-decision-api/internal/application/retrieval"
)

var exprEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + exprEscaper.Replace(s) + `"`
}

// filterExpr 构建标量过滤表达式，空字段不参与过滤
func filterExpr(f retrieval.Filter) string {
	var parts []string
	if f.CourseID != "" {
		parts = append(parts, fieldCourseID+" == "+quote(f.CourseID))
	}
	if f.Category != "" {
		parts = append(parts, fieldCategory+" == "+quote(f.Category))
	}
	return strings.Join(parts, " && ")
}

// knowIDInExpr 构建 know_id in [...] 表达式
func knowIDInExpr(ids []string) string {
	quoted := make([]string, 0, len(ids))
	for _, id := range ids {
		quoted = append(quoted, quote(id))
	}
	return fieldKnowID + " in [" + strings.Join(quoted, ", ") + "]"
}
