package repository

import (
	"context"
	"time"

	"FitSocial/model"

	"gorm.io/gorm"
)

type planRepositoryImpl struct {
	db *gorm.DB
}

// NewPlanRepository 创建计划仓储实例
func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &planRepositoryImpl{db: db}
}

func (r *planRepositoryImpl) Create(ctx context.Context, plan *model.Plan) error {
	return WrapDBError(r.db.WithContext(ctx).Create(plan).Error)
}

func (r *planRepositoryImpl) GetByID(ctx context.Context, planID int64) (*model.Plan, error) {
	var plan model.Plan
	if err := r.db.WithContext(ctx).Where("id = ?", planID).Take(&plan).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &plan, nil
}

// ListActive 进行中且 end_date 不早于 day 的计划，按开始时间倒序
func (r *planRepositoryImpl) ListActive(ctx context.Context, userIDs []string, day time.Time) ([]*model.Plan, error) {
	userIDs = dedupe(userIDs)
	if len(userIDs) == 0 {
		return []*model.Plan{}, nil
	}

	var plans []*model.Plan
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND status = ? AND end_date >= ?", userIDs, model.PlanActive, day).
		Order("start_date DESC, id DESC").
		Find(&plans).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return plans, nil
}

// Complete 仅所有者可将进行中的计划标记完成
func (r *planRepositoryImpl) Complete(ctx context.Context, planID int64, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Plan{}).
		Where("id = ? AND user_id = ? AND status = ?", planID, userID, model.PlanActive).
		Updates(map[string]interface{}{
			"status":     model.PlanCompleted,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, WrapDBError(res.Error)
	}
	return res.RowsAffected > 0, nil
}
