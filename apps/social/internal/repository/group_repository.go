package repository

import (
	"context"
	"time"

	"FitSocial/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// groupRepositoryImpl 群组数据访问层实现
type groupRepositoryImpl struct {
	db *gorm.DB
}

// NewGroupRepository 创建群组仓储实例
func NewGroupRepository(db *gorm.DB) IGroupRepository {
	return &groupRepositoryImpl{db: db}
}

// Create 创建群并写入群主
func (r *groupRepositoryImpl) Create(ctx context.Context, group *model.ChatGroup, ownerID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		return tx.Create(&model.GroupMember{
			GroupId: group.Id,
			UserId:  ownerID,
			Role:    model.GroupRoleOwner,
		}).Error
	})
	return WrapDBError(err)
}

// GetByID 查询群
func (r *groupRepositoryImpl) GetByID(ctx context.Context, groupID int64) (*model.ChatGroup, error) {
	var group model.ChatGroup
	if err := r.db.WithContext(ctx).Where("id = ?", groupID).Take(&group).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &group, nil
}

// AddMember 插入成员，唯一键冲突时什么都不做
func (r *groupRepositoryImpl) AddMember(ctx context.Context, groupID int64, userID string, role model.GroupRole) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&model.GroupMember{GroupId: groupID, UserId: userID, Role: role})
	if res.Error != nil {
		return false, WrapDBError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// IsMember 是否群成员
func (r *groupRepositoryImpl) IsMember(ctx context.Context, groupID int64, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, WrapDBError(err)
	}
	return count > 0, nil
}

// ListMembers 群成员列表
func (r *groupRepositoryImpl) ListMembers(ctx context.Context, groupID int64) ([]*model.GroupMember, error) {
	var members []*model.GroupMember
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("joined_at ASC, id ASC").
		Find(&members).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return members, nil
}

// ListMemberIDs 群成员 ID
func (r *groupRepositoryImpl) ListMemberIDs(ctx context.Context, groupID int64) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.GroupMember{}).
		Where("group_id = ?", groupID).
		Order("id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return ids, nil
}

// ListUserGroups userID 加入的群，按加入时间倒序
func (r *groupRepositoryImpl) ListUserGroups(ctx context.Context, userID string) ([]*model.ChatGroup, error) {
	var groups []*model.ChatGroup
	err := r.db.WithContext(ctx).
		Table("chat_group AS g").
		Select("g.*").
		Joins("JOIN group_member gm ON gm.group_id = g.id").
		Where("gm.user_id = ?", userID).
		Order("gm.joined_at DESC, g.id DESC").
		Find(&groups).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return groups, nil
}

// AdvanceReadState 推进已读水位线。
// 不使用 GREATEST / 方言 upsert：
//  1. 仅当新值更大时更新；
//  2. 没有更新到任何行，说明记录不存在或已经更大，尝试插入（冲突忽略）；
//  3. 插入也没生效，说明并发插入抢先，再做一次条件更新。
func (r *groupRepositoryImpl) AdvanceReadState(ctx context.Context, groupID int64, userID string, lastReadMessageID int64) error {
	db := r.db.WithContext(ctx)

	advance := func() (int64, error) {
		res := db.Model(&model.GroupReadState{}).
			Where("group_id = ? AND user_id = ? AND last_read_message_id < ?", groupID, userID, lastReadMessageID).
			Updates(map[string]interface{}{
				"last_read_message_id": lastReadMessageID,
				"updated_at":           time.Now(),
			})
		return res.RowsAffected, res.Error
	}

	n, err := advance()
	if err != nil {
		return WrapDBError(err)
	}
	if n > 0 {
		return nil
	}

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&model.GroupReadState{
		GroupId:           groupID,
		UserId:            userID,
		LastReadMessageId: lastReadMessageID,
	})
	if res.Error != nil {
		return WrapDBError(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	_, err = advance()
	return WrapDBError(err)
}

// GetReadState 查询水位线
func (r *groupRepositoryImpl) GetReadState(ctx context.Context, groupID int64, userID string) (int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.GroupReadState{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Limit(1).
		Pluck("last_read_message_id", &ids).Error
	if err != nil {
		return 0, WrapDBError(err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}

// UnreadByGroup 只统计已加入群内、水位线之后、别人发的消息
func (r *groupRepositoryImpl) UnreadByGroup(ctx context.Context, userID string) (map[int64]int64, error) {
	var rows []struct {
		GroupId int64
		Cnt     int64
	}
	err := r.db.WithContext(ctx).
		Table("message AS m").
		Select("m.group_id AS group_id, COUNT(*) AS cnt").
		Joins("JOIN group_member gm ON gm.group_id = m.group_id AND gm.user_id = ?", userID).
		Joins("LEFT JOIN group_read_state rs ON rs.group_id = m.group_id AND rs.user_id = ?", userID).
		Where("m.group_id <> 0 AND m.sender_id <> ? AND m.id > COALESCE(rs.last_read_message_id, 0)", userID).
		Group("m.group_id").
		Scan(&rows).Error
	if err != nil {
		return nil, WrapDBError(err)
	}

	result := make(map[int64]int64, len(rows))
	for _, row := range rows {
		result[row.GroupId] = row.Cnt
	}
	return result, nil
}
