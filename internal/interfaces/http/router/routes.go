package router

import (
	"github.com/gin-gonic/gin"

	"cancel-decision-api/internal/interfaces/http/handler"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, rules *handler.RuleHandler) {
	v1.POST("/search", rules.Search)
	v1.POST("/answer", rules.Answer)
	v1.POST("/answer_decision", rules.AnswerDecision)
}
