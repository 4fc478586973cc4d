package milvus

import (
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// DefaultCollection 规则集合默认名称
const DefaultCollection = "rag_contract_rules_mvp"

// 字段名，与导入 CSV 的列名一致
const (
	fieldID       = "id"
	fieldKnowID   = "know_id"
	fieldClientID = "client_company_id"
	fieldCourseID = "course_id"
	fieldCategory = "category"
	fieldTitle    = "title"
	fieldText     = "text"
	fieldTags     = "tags"
	fieldVector   = "vector"
)

// outputFields 检索时取回的标量字段
var outputFields = []string{
	fieldID, fieldKnowID, fieldClientID, fieldCourseID, fieldCategory, fieldTitle, fieldText, fieldTags,
}

func varChar(name string, maxLen int) *entity.Field {
	return &entity.Field{
		Name:     name,
		DataType: entity.FieldTypeVarChar,
		TypeParams: map[string]string{
			"max_length": strconv.Itoa(maxLen),
		},
	}
}

// RulesSchema 合同规则集合 Schema
func RulesSchema(collection string, dim int) *entity.Schema {
	id := varChar(fieldID, 64)
	id.PrimaryKey = true
	id.AutoID = false

	return &entity.Schema{
		CollectionName: collection,
		Description:    "Contract rule snippets for cancellation decisions",
		Fields: []*entity.Field{
			id,
			varChar(fieldKnowID, 128),
			varChar(fieldClientID, 128),
			varChar(fieldCourseID, 128),
			varChar(fieldCategory, 128),
			varChar(fieldTitle, 512),
			varChar(fieldText, 65535),
			varChar(fieldTags, 1024),
			{
				Name:     fieldVector,
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": strconv.Itoa(dim),
				},
			},
		},
	}
}
