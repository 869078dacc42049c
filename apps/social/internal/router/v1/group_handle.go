package v1

import (
	"FitSocial/apps/social/internal/dto"
	"FitSocial/apps/social/internal/service"
	"FitSocial/consts"
	"FitSocial/pkg/result"

	"github.com/gin-gonic/gin"
)

// GroupHandler 群组处理器
type GroupHandler struct {
	groupService service.IGroupService
}

// NewGroupHandler 创建群组处理器
func NewGroupHandler(groupService service.IGroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroup 创建群组
// @Router /api/v1/groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	group, err := h.groupService.CreateGroup(ctx, userID, &req)
	if err != nil {
		handleError(ctx, c, "创建群组", err)
		return
	}
	result.Success(c, group)
}

// AddMember 拉人入群
// @Router /api/v1/groups/{group_id}/members [post]
func (h *GroupHandler) AddMember(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	var uri dto.GroupIDUri
	if err := c.ShouldBindUri(&uri); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}
	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	if err := h.groupService.AddMember(ctx, userID, uri.GroupID, req.UserID); err != nil {
		handleError(ctx, c, "添加群成员", err)
		return
	}
	result.Success(c, nil)
}

// ListMembers 群成员列表
// @Router /api/v1/groups/{group_id}/members [get]
func (h *GroupHandler) ListMembers(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	var uri dto.GroupIDUri
	if err := c.ShouldBindUri(&uri); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	members, err := h.groupService.ListMembers(ctx, userID, uri.GroupID)
	if err != nil {
		handleError(ctx, c, "获取群成员", err)
		return
	}
	result.Success(c, members)
}

// ListMyGroups 我加入的群
// @Router /api/v1/groups [get]
func (h *GroupHandler) ListMyGroups(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	groups, err := h.groupService.ListMyGroups(ctx, userID)
	if err != nil {
		handleError(ctx, c, "获取我的群组", err)
		return
	}
	result.Success(c, groups)
}
