package model

import "time"

// PlanStatus 计划状态
type PlanStatus int8

const (
	PlanActive    PlanStatus = 0
	PlanCompleted PlanStatus = 1
)

// Plan 健身计划
type Plan struct {
	Id          int64      `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	UserId      string     `gorm:"column:user_id;type:varchar(64);not null;index:idx_plan_user_status,priority:1" json:"user_id"`
	Title       string     `gorm:"column:title;type:varchar(128);not null" json:"title"`
	Description string     `gorm:"column:description;type:varchar(1024);not null;default:''" json:"description"`
	StartDate   time.Time  `gorm:"column:start_date;not null" json:"start_date"`
	EndDate     time.Time  `gorm:"column:end_date;not null" json:"end_date"`
	Status      PlanStatus `gorm:"column:status;not null;default:0;index:idx_plan_user_status,priority:2" json:"status"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Plan) TableName() string { return "plan" }
