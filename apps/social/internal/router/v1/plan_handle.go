package v1

import (
	"FitSocial/apps/social/internal/dto"
	"FitSocial/apps/social/internal/service"
	"FitSocial/consts"
	"FitSocial/pkg/result"

	"github.com/gin-gonic/gin"
)

// PlanHandler 健身计划处理器
type PlanHandler struct {
	planService service.IPlanService
}

// NewPlanHandler 创建计划处理器
func NewPlanHandler(planService service.IPlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// CreatePlan 创建计划，成功后通知全部好友
// @Router /api/v1/plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	resp, err := h.planService.CreatePlan(ctx, userID, &req)
	if err != nil {
		handleError(ctx, c, "创建计划", err)
		return
	}
	result.Success(c, resp)
}

// ActivePlans 我进行中的计划
// @Router /api/v1/plans/active [get]
func (h *PlanHandler) ActivePlans(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	plans, err := h.planService.ActivePlans(ctx, userID)
	if err != nil {
		handleError(ctx, c, "获取进行中计划", err)
		return
	}
	result.Success(c, plans)
}

// CompletePlan 完成计划
// @Router /api/v1/plans/{plan_id}/complete [put]
func (h *PlanHandler) CompletePlan(c *gin.Context) {
	ctx, userID, ok := currentUser(c)
	if !ok {
		return
	}

	var uri dto.PlanIDUri
	if err := c.ShouldBindUri(&uri); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	if err := h.planService.CompletePlan(ctx, userID, uri.PlanID); err != nil {
		handleError(ctx, c, "完成计划", err)
		return
	}
	result.Success(c, nil)
}
