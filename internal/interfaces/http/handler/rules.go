package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"cancel-decision-api/internal/application/answer"
	"cancel-decision-api/internal/application/decision"
	"cancel-decision-api/internal/application/retrieval"
	"cancel-decision-api/internal/domain/entity"
	"cancel-decision-api/internal/interfaces/http/dto"
	"cancel-decision-api/pkg/logger"
)

// RuleSearcher 规则检索
type RuleSearcher interface {
	Search(ctx context.Context, in retrieval.SearchInput) ([]entity.Hit, error)
}

// Answerer 生成式回答
type Answerer interface {
	Answer(ctx context.Context, req answer.Request) (*answer.Result, error)
}

// Decider 解约判定
type Decider interface {
	Decide(ctx context.Context, req decision.Request) (*decision.Result, error)
}

// RuleOptions 请求默认值与上限
type RuleOptions struct {
	Collection  string
	DefaultTopK int
	MaxTopK     int
}

// RuleHandler 合同规则检索、回答与判定处理器
type RuleHandler struct {
	searcher RuleSearcher
	answerer Answerer
	decider  Decider
	opts     RuleOptions
}

// NewRuleHandler 创建规则处理器
func NewRuleHandler(searcher RuleSearcher, answerer Answerer, decider Decider, opts RuleOptions) *RuleHandler {
	if opts.DefaultTopK <= 0 {
		opts.DefaultTopK = 5
	}
	if opts.MaxTopK < opts.DefaultTopK {
		opts.MaxTopK = 20
	}
	return &RuleHandler{
		searcher: searcher,
		answerer: answerer,
		decider:  decider,
		opts:     opts,
	}
}

// Search 检索规则
// @Summary 检索合同规则
// @Tags Rules
// @Accept json
// @Produce json
// @Param body body dto.SearchRequest true "检索请求"
// @Success 200 {object} dto.Response[dto.SearchResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/search [post]
func (h *RuleHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	topK, err := req.ResolveTopK(h.opts.DefaultTopK, h.opts.MaxTopK)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	ctx := withCourse(c, req.CourseIDValue())
	hits, err := h.searcher.Search(ctx, retrieval.SearchInput{
		Query:    req.Query,
		Limit:    topK,
		CourseID: req.CourseIDValue(),
		Category: req.CategoryValue(),
	})
	if err != nil {
		respondError(c, "search", err)
		return
	}

	dto.Success(c, &dto.SearchResponse{
		Collection: h.opts.Collection,
		TopK:       topK,
		Hits:       dto.ToHitResponses(hits),
	})
}

// Answer 检索规则并生成回答
// @Summary 生成式回答
// @Tags Rules
// @Accept json
// @Produce json
// @Param body body dto.AnswerRequest true "回答请求"
// @Success 200 {object} dto.Response[dto.AnswerResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 504 {object} dto.ErrorResponse
// @Router /v1/answer [post]
func (h *RuleHandler) Answer(c *gin.Context) {
	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	topK, err := req.ResolveTopK(h.opts.DefaultTopK, h.opts.MaxTopK)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	ctx := withCourse(c, req.CourseIDValue())
	res, err := h.answerer.Answer(ctx, answer.Request{
		Query:    req.Query,
		Context:  req.ContextValue(),
		Limit:    topK,
		CourseID: req.CourseIDValue(),
		Category: req.CategoryValue(),
	})
	if err != nil {
		respondError(c, "answer", err)
		return
	}

	dto.Success(c, dto.ToAnswerResponse(res))
}

// AnswerDecision 检索规则并给出结构化解约判定
// @Summary 解约判定
// @Tags Rules
// @Accept json
// @Produce json
// @Param body body dto.AnswerRequest true "判定请求"
// @Success 200 {object} dto.Response[dto.DecisionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/answer_decision [post]
func (h *RuleHandler) AnswerDecision(c *gin.Context) {
	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	topK, err := req.ResolveTopK(h.opts.DefaultTopK, h.opts.MaxTopK)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	ctx := withCourse(c, req.CourseIDValue())
	res, err := h.decider.Decide(ctx, decision.Request{
		Query:    req.Query,
		Context:  req.ContextValue(),
		Limit:    topK,
		CourseID: req.CourseIDValue(),
		Category: req.CategoryValue(),
	})
	if err != nil {
		respondError(c, "decision", err)
		return
	}

	dto.Success(c, dto.ToDecisionResponse(res))
}

func withCourse(c *gin.Context, courseID string) context.Context {
	ctx := c.Request.Context()
	if courseID == "" {
		return ctx
	}
	return logger.WithContext(ctx, logger.CourseIDKey, courseID)
}
