package dto

import "FitSocial/model"

// ==================== 计划相关 DTO ====================

// DateLayout 计划日期格式
const DateLayout = "2006-01-02"

// CreatePlanRequest 创建计划，日期格式 2006-01-02，开始日期缺省为今天
type CreatePlanRequest struct {
	Title       string `json:"title" binding:"required,max=128"`
	Description string `json:"description" binding:"omitempty,max=1024"`
	StartDate   string `json:"start_date" binding:"omitempty"`
	EndDate     string `json:"end_date" binding:"required"`
}

// CreatePlanResponse 创建计划结果
type CreatePlanResponse struct {
	Plan     *model.Plan `json:"plan"`
	Notified int         `json:"notified"` // 成功通知的好友数
}

// FriendPlanView 好友进行中的计划
type FriendPlanView struct {
	UserId   string      `json:"user_id"`
	Nickname string      `json:"nickname"`
	Plan     *model.Plan `json:"plan"`
}
