package dto

import (
	"cancel-decision-api/internal/application/answer"
	"cancel-decision-api/internal/application/decision"
	"cancel-decision-api/internal/domain/entity"
)

// RulePayload 命中规则的载荷
type RulePayload struct {
	KnowID   string `json:"know_id"`
	ClientID string `json:"client_company_id"`
	CourseID string `json:"course_id"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Tags     string `json:"tags"`
}

// HitResponse 一条检索命中
type HitResponse struct {
	Score   float64      `json:"score"`
	Payload *RulePayload `json:"payload"`
}

// SearchResponse 检索响应
type SearchResponse struct {
	Collection string         `json:"collection"`
	TopK       int            `json:"top_k"`
	Hits       []*HitResponse `json:"hits"`
}

// AnswerResponse 生成式回答响应
type AnswerResponse struct {
	Answer      string         `json:"answer"`
	UsedKnowIDs []string       `json:"used_know_ids"`
	Hits        []*HitResponse `json:"hits"`
}

// DecisionSummary UI 用判定摘要
type DecisionSummary struct {
	CanCancel          bool   `json:"can_cancel"`
	FeeStatus          string `json:"fee_status"`
	ExceptionAvailable bool   `json:"exception_available"`
	DeadlineKnown      bool   `json:"deadline_known"`
	NeedsConfirmation  bool   `json:"needs_confirmation"`
	DecisionCode       string `json:"decision_code"`
}

// DecisionResponse 解约判定响应，可选字段缺失时输出 null
type DecisionResponse struct {
	DecisionCode      string           `json:"decision_code"`
	Decision          string           `json:"decision"`
	FeeRequired       *bool            `json:"fee_required"`
	FeeNote           *string          `json:"fee_note"`
	ExceptionPossible bool             `json:"exception_possible"`
	ExceptionNote     *string          `json:"exception_note"`
	DeadlineRule      *string          `json:"deadline_rule"`
	OperatorActions   []string         `json:"operator_actions"`
	NeedsConfirmation []string         `json:"needs_confirmation"`
	CustomerMessage   string           `json:"customer_message"`
	OperatorNote      string           `json:"operator_note"`
	OperatorSteps     []string         `json:"operator_steps"`
	DecisionSummary   *DecisionSummary `json:"decision_summary"`
	UsedKnowIDs       []string         `json:"used_know_ids"`
	Hits              []*HitResponse   `json:"hits"`
}

// ToHitResponses 转换检索命中
func ToHitResponses(hits []entity.Hit) []*HitResponse {
	out := make([]*HitResponse, 0, len(hits))
	for _, h := range hits {
		out = append(out, &HitResponse{
			Score: h.Score,
			Payload: &RulePayload{
				KnowID:   h.Rule.KnowID,
				ClientID: h.Rule.ClientID,
				CourseID: h.Rule.CourseID,
				Category: h.Rule.Category,
				Title:    h.Rule.Title,
				Text:     h.Rule.Text,
				Tags:     h.Rule.Tags,
			},
		})
	}
	return out
}

// ToAnswerResponse 转换生成式回答结果
func ToAnswerResponse(res *answer.Result) *AnswerResponse {
	return &AnswerResponse{
		Answer:      res.Answer,
		UsedKnowIDs: nonNil(res.UsedKnowIDs),
		Hits:        ToHitResponses(res.Hits),
	}
}

// ToDecisionResponse 转换判定结果
func ToDecisionResponse(res *decision.Result) *DecisionResponse {
	rec := res.Record
	return &DecisionResponse{
		DecisionCode:      string(rec.Code),
		Decision:          rec.Decision,
		FeeRequired:       feeFlag(rec.FeeRequired),
		FeeNote:           optional(rec.FeeNote),
		ExceptionPossible: rec.ExceptionPossible,
		ExceptionNote:     optional(rec.ExceptionNote),
		DeadlineRule:      optional(rec.DeadlineRule),
		OperatorActions:   nonNil(rec.OperatorActions),
		NeedsConfirmation: nonNil(rec.NeedsConfirmation),
		CustomerMessage:   res.Rendered.CustomerMessage,
		OperatorNote:      res.Rendered.OperatorNote,
		OperatorSteps:     nonNil(res.Rendered.OperatorSteps),
		DecisionSummary: &DecisionSummary{
			CanCancel:          res.Summary.CanCancel,
			FeeStatus:          string(res.Summary.FeeStatus),
			ExceptionAvailable: res.Summary.ExceptionAvailable,
			DeadlineKnown:      res.Summary.DeadlineKnown,
			NeedsConfirmation:  res.Summary.NeedsConfirmation,
			DecisionCode:       string(res.Summary.DecisionCode),
		},
		UsedKnowIDs: nonNil(rec.UsedKnowIDs),
		Hits:        ToHitResponses(res.Hits),
	}
}

func feeFlag(f decision.FeeFlag) *bool {
	switch f {
	case decision.FeeRequired:
		v := true
		return &v
	case decision.FeeNotRequired:
		v := false
		return &v
	default:
		return nil
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
