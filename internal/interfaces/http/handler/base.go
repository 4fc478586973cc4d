package handler

import (
	"github.com/gin-gonic/gin"

	"cancel-decision-api/internal/interfaces/http/dto"
	"cancel-decision-api/pkg/errors"
	"cancel-decision-api/pkg/logger"
)

// respondError AppError 按其状态码返回，其余错误统一 500
func respondError(c *gin.Context, op string, err error) {
	ctx := c.Request.Context()
	if errors.IsAppError(err) {
		appErr := errors.AsAppError(err)
		if appErr.HTTPStatus >= 500 {
			logger.Error(ctx, op+" failed", err, "error_code", string(appErr.Code))
		} else {
			logger.Warn(ctx, op+" rejected", "error_code", string(appErr.Code), "error", appErr.Message)
		}
		dto.AppError(c, appErr)
		return
	}
	logger.Error(ctx, op+" failed", err)
	dto.InternalError(c, op+" failed")
}
