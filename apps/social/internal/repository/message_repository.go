package repository

import (
	"context"

	"FitSocial/model"

	"gorm.io/gorm"
)

// messageRepositoryImpl 消息数据访问层实现
type messageRepositoryImpl struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息仓储实例
func NewMessageRepository(db *gorm.DB) IMessageRepository {
	return &messageRepositoryImpl{db: db}
}

// Create 写入一条消息。私聊消息在这里补齐规范化的会话双方。
func (r *messageRepositoryImpl) Create(ctx context.Context, msg *model.Message) error {
	if !msg.IsGroup() {
		msg.PeerLow, msg.PeerHigh = model.CanonicalPair(msg.SenderId, msg.ReceiverId)
	} else {
		msg.IsRead = true
	}
	return WrapDBError(r.db.WithContext(ctx).Create(msg).Error)
}

// MarkRead 单条批量 UPDATE，幂等
func (r *messageRepositoryImpl) MarkRead(ctx context.Context, readerID, senderID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", readerID, senderID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, WrapDBError(res.Error)
	}
	return res.RowsAffected, nil
}

// CountUnreadDirect 统计私聊未读总数
func (r *messageRepositoryImpl) CountUnreadDirect(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&total).Error
	if err != nil {
		return 0, WrapDBError(err)
	}
	return total, nil
}

// UnreadBySender 按发送者分组统计私聊未读数
func (r *messageRepositoryImpl) UnreadBySender(ctx context.Context, userID string, senderIDs []string) (map[string]int64, error) {
	result := make(map[string]int64)
	senderIDs = dedupe(senderIDs)
	if len(senderIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		SenderId string
		Cnt      int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Select("sender_id, COUNT(*) AS cnt").
		Where("receiver_id = ? AND is_read = ? AND sender_id IN ?", userID, false, senderIDs).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	for _, row := range rows {
		result[row.SenderId] = row.Cnt
	}
	return result, nil
}

// LatestWithPeers 每个会话取 MAX(id) 再回表。
// 雪花 ID 与 sent_at 同序，MAX(id) 即最近一条。
func (r *messageRepositoryImpl) LatestWithPeers(ctx context.Context, userID string, peerIDs []string) (map[string]*model.Message, error) {
	result := make(map[string]*model.Message)
	peerIDs = dedupe(peerIDs)
	if len(peerIDs) == 0 {
		return result, nil
	}

	db := r.db.WithContext(ctx)
	// 以 userID 为低位或高位的会话分两次子查询，各自可走 idx_message_peer
	lowSide := db.Model(&model.Message{}).
		Select("MAX(id)").
		Where("group_id = 0 AND peer_low = ? AND peer_high IN ?", userID, peerIDs).
		Group("peer_high")
	highSide := db.Model(&model.Message{}).
		Select("MAX(id)").
		Where("group_id = 0 AND peer_high = ? AND peer_low IN ?", userID, peerIDs).
		Group("peer_low")

	var msgs []*model.Message
	err := db.Where("id IN (?)", lowSide).
		Or("id IN (?)", highSide).
		Find(&msgs).Error
	if err != nil {
		return nil, WrapDBError(err)
	}

	for _, m := range msgs {
		peer := m.PeerLow
		if peer == userID {
			peer = m.PeerHigh
		}
		result[peer] = m
	}
	return result, nil
}

// DirectHistory 私聊记录，最新的在前
func (r *messageRepositoryImpl) DirectHistory(ctx context.Context, a, b string, page, pageSize int) ([]*model.Message, int64, error) {
	low, high := model.CanonicalPair(a, b)
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&model.Message{}).
			Where("group_id = 0 AND peer_low = ? AND peer_high = ?", low, high)
	}
	return r.page(base, page, pageSize)
}

// GroupHistory 群聊记录，最新的在前
func (r *messageRepositoryImpl) GroupHistory(ctx context.Context, groupID int64, page, pageSize int) ([]*model.Message, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&model.Message{}).
			Where("group_id = ?", groupID)
	}
	return r.page(base, page, pageSize)
}

func (r *messageRepositoryImpl) page(base func() *gorm.DB, page, pageSize int) ([]*model.Message, int64, error) {
	offset, limit := normalizePage(page, pageSize)

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, WrapDBError(err)
	}
	if total == 0 {
		return []*model.Message{}, 0, nil
	}

	var msgs []*model.Message
	err := base().
		Order("sent_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, 0, WrapDBError(err)
	}
	return msgs, total, nil
}

// LatestInGroups 每个群最近的一条消息
func (r *messageRepositoryImpl) LatestInGroups(ctx context.Context, groupIDs []int64) (map[int64]*model.Message, error) {
	result := make(map[int64]*model.Message)
	if len(groupIDs) == 0 {
		return result, nil
	}

	db := r.db.WithContext(ctx)
	latest := db.Model(&model.Message{}).
		Select("MAX(id)").
		Where("group_id IN ?", groupIDs).
		Group("group_id")

	var msgs []*model.Message
	if err := db.Where("id IN (?)", latest).Find(&msgs).Error; err != nil {
		return nil, WrapDBError(err)
	}
	for _, m := range msgs {
		result[m.GroupId] = m
	}
	return result, nil
}

// MaxGroupMessageID 群内最大消息 ID
func (r *messageRepositoryImpl) MaxGroupMessageID(ctx context.Context, groupID int64) (int64, error) {
	var maxID int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Select("COALESCE(MAX(id), 0)").
		Where("group_id = ?", groupID).
		Scan(&maxID).Error
	if err != nil {
		return 0, WrapDBError(err)
	}
	return maxID, nil
}
