package retrieval

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"cancel-decision-api/internal/domain/entity"
)

// rulesCSVColumns 规则 CSV 的列（表头必须包含 know_id 与 text，其余列可缺省）
var rulesCSVColumns = []string{"know_id", "client_company_id", "course_id", "category", "title", "text", "tags"}

// ReadRulesCSV 读取带表头的规则 CSV，缺失列按空串处理，字段统一为 NFC
func ReadRulesCSV(r io.Reader) ([]entity.Rule, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("rules csv is empty")
		}
		return nil, fmt.Errorf("read rules csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		// Excel 导出的 UTF-8 BOM
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		index[strings.ToLower(name)] = i
	}
	for _, required := range []string{"know_id", "text"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("rules csv missing column %q", required)
		}
	}

	var rules []entity.Rule
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rules csv line %d: %w", line, err)
		}

		payload := make(map[string]any, len(rulesCSVColumns))
		for _, col := range rulesCSVColumns {
			if i, ok := index[col]; ok && i < len(rec) {
				// 判定按子串匹配关键词，分解形式的假名（macOS 导出常见）需先合成
				payload[col] = norm.NFC.String(strings.TrimSpace(rec[i]))
			}
		}
		rules = append(rules, entity.RuleFromPayload(payload))
	}
	return rules, nil
}
