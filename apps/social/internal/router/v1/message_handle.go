package v1

import (
	"FitSocial/apps/social/internal/dto"
	"FitSocial/apps/social/internal/service"
	"FitSocial/consts"
	"FitSocial/pkg/result"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息处理器
type MessageHandler struct {
	messageService service.IMessageService
}

// NewMessageHandler 创建消息处理器
func NewMessageHandler(messageService service.IMessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessage 发送私聊或群聊消息
// @Router /api/v1/messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	// 1. 绑定请求数据，目标与内容的校验交给服务层
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层
	msg, err := h.messageService.SendMessage(ctx, userID, &req)
	if err != nil {
		handleError(ctx, c, "发送消息", err)
		return
	}

	// 3. 返回落库后的消息
	result.Success(c, msg)
}

// MarkAsRead 将 :user_id 发来的私聊置为已读
// @Router /api/v1/messages/read/{user_id} [put]
func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	var uri dto.UserIDUri
	if err := c.ShouldBindUri(&uri); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	n, err := h.messageService.MarkAsRead(ctx, userID, uri.UserID)
	if err != nil {
		handleError(ctx, c, "私聊已读", err)
		return
	}
	result.Success(c, &dto.MarkReadResponse{Updated: n})
}

// MarkGroupAsRead 推进群已读水位线
// @Router /api/v1/messages/groups/{group_id}/read [put]
func (h *MessageHandler) MarkGroupAsRead(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	var uri dto.GroupIDUri
	if err := c.ShouldBindUri(&uri); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}
	var req dto.MarkGroupReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	if err := h.messageService.MarkGroupAsRead(ctx, userID, uri.GroupID, req.LastMessageID); err != nil {
		handleError(ctx, c, "群聊已读", err)
		return
	}
	result.Success(c, nil)
}

// UnreadCount 未读总数
// @Router /api/v1/messages/unread/count [get]
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	resp, err := h.messageService.UnreadCount(ctx, userID)
	if err != nil {
		handleError(ctx, c, "获取未读数", err)
		return
	}
	result.Success(c, resp)
}

// ChatHistory 私聊历史
// @Router /api/v1/messages/history/{user_id} [get]
func (h *MessageHandler) ChatHistory(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	var uri dto.UserIDUri
	if err := c.ShouldBindUri(&uri); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}
	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	resp, err := h.messageService.ChatHistory(ctx, userID, uri.UserID, page.Page, page.PageSize)
	if err != nil {
		handleError(ctx, c, "获取私聊历史", err)
		return
	}
	result.Success(c, resp)
}

// GroupHistory 群聊历史
// @Router /api/v1/messages/groups/{group_id}/history [get]
func (h *MessageHandler) GroupHistory(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	var uri dto.GroupIDUri
	if err := c.ShouldBindUri(&uri); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}
	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	resp, err := h.messageService.GroupHistory(ctx, userID, uri.GroupID, page.Page, page.PageSize)
	if err != nil {
		handleError(ctx, c, "获取群聊历史", err)
		return
	}
	result.Success(c, resp)
}
