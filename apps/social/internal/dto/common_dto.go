package dto

// PageRequest 分页查询参数
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`              // 页码，从 1 开始
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"` // 每页大小
}

// UserIDUri 路径中的用户 ID
type UserIDUri struct {
	UserID string `uri:"user_id" binding:"required,max=64"`
}

// GroupIDUri 路径中的群 ID
type GroupIDUri struct {
	GroupID int64 `uri:"group_id" binding:"required,min=1"`
}

// PlanIDUri 路径中的计划 ID
type PlanIDUri struct {
	PlanID int64 `uri:"plan_id" binding:"required,min=1"`
}
