package v1

import (
	"context"

	"FitSocial/apps/social/internal/dto"
	"FitSocial/apps/social/internal/service"
	"FitSocial/consts"
	"FitSocial/pkg/result"

	"github.com/gin-gonic/gin"
)

// FriendHandler 好友处理器
type FriendHandler struct {
	friendService service.IFriendService
	planService   service.IPlanService
}

// NewFriendHandler 创建好友处理器
func NewFriendHandler(friendService service.IFriendService, planService service.IPlanService) *FriendHandler {
	return &FriendHandler{
		friendService: friendService,
		planService:   planService,
	}
}

// SendRequest 发送好友申请
// @Router /api/v1/friends/requests [post]
func (h *FriendHandler) SendRequest(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	// 1. 绑定请求数据
	var req dto.SendFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 参数错误由客户端输入导致，不记录日志
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层
	if err := h.friendService.SendRequest(ctx, userID, req.TargetID); err != nil {
		handleError(ctx, c, "发送好友申请", err)
		return
	}

	// 3. 返回成功响应
	result.Success(c, nil)
}

// ListPending 收到的待处理申请
// @Router /api/v1/friends/requests/pending [get]
func (h *FriendHandler) ListPending(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	items, err := h.friendService.ListPending(ctx, userID)
	if err != nil {
		handleError(ctx, c, "获取好友申请列表", err)
		return
	}
	result.Success(c, &dto.PendingListResponse{Items: items})
}

// AcceptRequest 同意 :user_id 发来的申请
// @Router /api/v1/friends/requests/{user_id}/accept [put]
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	h.peerAction(c, "同意好友申请", h.friendService.AcceptRequest)
}

// DeclineRequest 拒绝 :user_id 发来的申请
// @Router /api/v1/friends/requests/{user_id}/decline [put]
func (h *FriendHandler) DeclineRequest(c *gin.Context) {
	h.peerAction(c, "拒绝好友申请", h.friendService.DeclineRequest)
}

// DeleteFriend 删除好友
// @Router /api/v1/friends/{user_id} [delete]
func (h *FriendHandler) DeleteFriend(c *gin.Context) {
	h.peerAction(c, "删除好友", h.friendService.DeleteFriend)
}

// Block 拉黑
// @Router /api/v1/friends/{user_id}/block [post]
func (h *FriendHandler) Block(c *gin.Context) {
	h.peerAction(c, "拉黑", h.friendService.Block)
}

// Unblock 解除拉黑
// @Router /api/v1/friends/{user_id}/block [delete]
func (h *FriendHandler) Unblock(c *gin.Context) {
	h.peerAction(c, "解除拉黑", h.friendService.Unblock)
}

// ListFriends 好友列表
// @Router /api/v1/friends [get]
func (h *FriendHandler) ListFriends(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	items, err := h.friendService.ListFriends(ctx, userID)
	if err != nil {
		handleError(ctx, c, "获取好友列表", err)
		return
	}
	result.Success(c, &dto.FriendListResponse{Items: items})
}

// FriendsActivePlans 好友们进行中的计划
// @Router /api/v1/friends/plans [get]
func (h *FriendHandler) FriendsActivePlans(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	items, err := h.planService.FriendsActivePlans(ctx, userID)
	if err != nil {
		handleError(ctx, c, "获取好友计划", err)
		return
	}
	result.Success(c, items)
}

// peerAction 当前用户对 :user_id 的无返回值操作
func (h *FriendHandler) peerAction(c *gin.Context, action string, fn func(ctx context.Context, self, peer string) error) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	var uri dto.UserIDUri
	if err := c.ShouldBindUri(&uri); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	if err := fn(ctx, userID, uri.UserID); err != nil {
		handleError(ctx, c, action, err)
		return
	}
	result.Success(c, nil)
}
