package retrieval

import (
	"sort"

	"cancel-decision-api/internal/domain/entity"
)

// MergeHits 合并按 course 检索与通用规则检索的结果
// 先拼接（course 在前），按 know_id 去重（先出现者保留），再按分数稳定降序，最后截断到 limit
func MergeHits(scoped, common []entity.Hit, limit int) []entity.Hit {
	merged := make([]entity.Hit, 0, len(scoped)+len(common))
	merged = append(merged, scoped...)
	merged = append(merged, common...)

	merged = dedupHits(merged)
	sortByScore(merged)
	return truncate(merged, limit)
}

// dedupHits 无法推导出键的命中总是保留
func dedupHits(hits []entity.Hit) []entity.Hit {
	seen := make(map[string]struct{}, len(hits))
	out := make([]entity.Hit, 0, len(hits))
	for _, h := range hits {
		key := h.Rule.DedupKey()
		if key == "" {
			out = append(out, h)
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
	}
	return out
}

func sortByScore(hits []entity.Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
}

func truncate(hits []entity.Hit, limit int) []entity.Hit {
	if limit >= 0 && len(hits) > limit {
		return hits[:limit]
	}
	return hits
}
