package retrieval

// SearchInput 规则检索输入
type SearchInput struct {
	Query string
	// Limit 期望返回的最大条数，必须 >= 1
	Limit int
	// CourseID 为空表示不按 course 过滤；等于通用值时只做一次检索
	CourseID string
	Category string
}

// Filter 向量检索的标量过滤条件，空字段表示不过滤
type Filter struct {
	CourseID string
	Category string
}

// Empty 是否没有任何过滤条件
func (f Filter) Empty() bool {
	return f.CourseID == "" && f.Category == ""
}

// searchMode 检索方式，用于指标标签
const (
	modeScoped = "scoped"
	modeSingle = "single"
)
