package v1

import (
	"context"

	"FitSocial/apps/social/internal/middleware"
	"FitSocial/consts"
	"FitSocial/pkg/bizerr"
	"FitSocial/pkg/ctxmeta"
	"FitSocial/pkg/logger"
	"FitSocial/pkg/result"

	"github.com/gin-gonic/gin"
)

// currentUser 取当前登录用户，未登录时直接返回 401
func currentUser(c *gin.Context) (context.Context, string, bool) {
	userID, ok := middleware.GetUserUUID(c)
	if !ok {
		result.Unauthorized(c, consts.CodeUnauthorized)
		return nil, "", false
	}
	return ctxmeta.FromGin(c), userID, true
}

// handleError 业务错误直接回 code，其余记录日志后统一回内部错误
func handleError(ctx context.Context, c *gin.Context, action string, err error) {
	if e, ok := bizerr.From(err); ok && e.Kind != bizerr.KindInternal {
		// 业务逻辑失败属于正常流程，不记录日志
		result.FailWithMessage(c, nil, e.Message, e.Code)
		return
	}

	logger.Error(ctx, action+"服务内部错误",
		logger.ErrorField("error", err),
	)
	result.Fail(c, nil, consts.CodeInternalError)
}
