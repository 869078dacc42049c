package repository

import (
	"context"
	"errors"
	"time"

	"FitSocial/model"

	"gorm.io/gorm"
)

// relationshipRepositoryImpl 好友关系数据访问层实现
type relationshipRepositoryImpl struct {
	db *gorm.DB
}

// NewRelationshipRepository 创建关系仓储实例
func NewRelationshipRepository(db *gorm.DB) IRelationshipRepository {
	return &relationshipRepositoryImpl{db: db}
}

// pair 规范化后的用户对条件，所有按对查询只走一次等值匹配
func (r *relationshipRepositoryImpl) pair(ctx context.Context, a, b string) *gorm.DB {
	low, high := model.CanonicalPair(a, b)
	return r.db.WithContext(ctx).
		Model(&model.Relationship{}).
		Where("user_low = ? AND user_high = ?", low, high)
}

// Get 查询两人之间的关系边
func (r *relationshipRepositoryImpl) Get(ctx context.Context, a, b string) (*model.Relationship, error) {
	var rel model.Relationship
	if err := r.pair(ctx, a, b).Take(&rel).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &rel, nil
}

// Create 插入新的关系边。并发申请时唯一索引兜底，输家拿到 ErrDuplicateKey。
func (r *relationshipRepositoryImpl) Create(ctx context.Context, rel *model.Relationship) error {
	rel.UserLow, rel.UserHigh = model.CanonicalPair(rel.UserLow, rel.UserHigh)
	return WrapDBError(r.db.WithContext(ctx).Create(rel).Error)
}

// Reopen DECLINED → PENDING，发起方更新为本次申请人
func (r *relationshipRepositoryImpl) Reopen(ctx context.Context, requester, target string) (bool, error) {
	res := r.pair(ctx, requester, target).
		Where("status = ?", model.RelationDeclined).
		Updates(map[string]interface{}{
			"status":       model.RelationPending,
			"requester_id": requester,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return false, WrapDBError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Accept 比较并交换：仅当边仍为 requester 发起的 PENDING 时生效
func (r *relationshipRepositoryImpl) Accept(ctx context.Context, target, requester string) (bool, error) {
	return r.transitionPending(ctx, target, requester, model.RelationAccepted)
}

// Decline 同 Accept，目标状态为 DECLINED
func (r *relationshipRepositoryImpl) Decline(ctx context.Context, target, requester string) (bool, error) {
	return r.transitionPending(ctx, target, requester, model.RelationDeclined)
}

func (r *relationshipRepositoryImpl) transitionPending(ctx context.Context, target, requester string, to model.RelationStatus) (bool, error) {
	res := r.pair(ctx, target, requester).
		Where("status = ? AND requester_id = ?", model.RelationPending, requester).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, WrapDBError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteUnblocked 物理删除非拉黑的边
func (r *relationshipRepositoryImpl) DeleteUnblocked(ctx context.Context, a, b string) (bool, error) {
	low, high := model.CanonicalPair(a, b)
	res := r.db.WithContext(ctx).
		Where("user_low = ? AND user_high = ? AND status <> ?", low, high, model.RelationBlocked).
		Delete(&model.Relationship{})
	if res.Error != nil {
		return false, WrapDBError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Block 将关系置为 BLOCKED。
// 先尝试更新已有的非拉黑边；没有则插入；插入冲突说明有并发写入，再更新一次。
func (r *relationshipRepositoryImpl) Block(ctx context.Context, blocker, target string) error {
	updated, err := r.markBlocked(ctx, blocker, target)
	if err != nil || updated {
		return err
	}

	low, high := model.CanonicalPair(blocker, target)
	err = r.Create(ctx, &model.Relationship{
		UserLow:     low,
		UserHigh:    high,
		RequesterId: blocker,
		Status:      model.RelationBlocked,
		BlockedBy:   blocker,
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrDuplicateKey) {
		return err
	}

	// 已存在的边可能本身就是 BLOCKED，此时 markBlocked 不会生效，保持原拉黑方
	_, err = r.markBlocked(ctx, blocker, target)
	return err
}

func (r *relationshipRepositoryImpl) markBlocked(ctx context.Context, blocker, target string) (bool, error) {
	res := r.pair(ctx, blocker, target).
		Where("status <> ?", model.RelationBlocked).
		Updates(map[string]interface{}{
			"status":       model.RelationBlocked,
			"blocked_by":   blocker,
			"requester_id": blocker,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return false, WrapDBError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Unblock 只有拉黑方可以解除，解除后关系边被删除
func (r *relationshipRepositoryImpl) Unblock(ctx context.Context, blocker, target string) (bool, error) {
	low, high := model.CanonicalPair(blocker, target)
	res := r.db.WithContext(ctx).
		Where("user_low = ? AND user_high = ? AND status = ? AND blocked_by = ?", low, high, model.RelationBlocked, blocker).
		Delete(&model.Relationship{})
	if res.Error != nil {
		return false, WrapDBError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// touching userID 出现在任一侧的关系
func (r *relationshipRepositoryImpl) touching(ctx context.Context, userID string) *gorm.DB {
	db := r.db.WithContext(ctx)
	return db.Model(&model.Relationship{}).
		Where(db.Where("user_low = ?", userID).Or("user_high = ?", userID))
}

// ListIncomingPending 发给 userID 的待处理申请
func (r *relationshipRepositoryImpl) ListIncomingPending(ctx context.Context, userID string) ([]*model.Relationship, error) {
	var rels []*model.Relationship
	err := r.touching(ctx, userID).
		Where("status = ? AND requester_id <> ?", model.RelationPending, userID).
		Order("updated_at DESC, id DESC").
		Find(&rels).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return rels, nil
}

// ListAccepted userID 的全部好友边
func (r *relationshipRepositoryImpl) ListAccepted(ctx context.Context, userID string) ([]*model.Relationship, error) {
	var rels []*model.Relationship
	err := r.touching(ctx, userID).
		Where("status = ?", model.RelationAccepted).
		Order("updated_at DESC, id DESC").
		Find(&rels).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return rels, nil
}
