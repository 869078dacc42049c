package model

import "time"

// RelationStatus 关系状态
type RelationStatus int8

const (
	RelationPending  RelationStatus = 0 // 待处理
	RelationAccepted RelationStatus = 1 // 已成为好友
	RelationDeclined RelationStatus = 2 // 已拒绝，可被重新申请
	RelationBlocked  RelationStatus = 3 // 拉黑，只有拉黑方可以解除
)

func (s RelationStatus) String() string {
	switch s {
	case RelationPending:
		return "PENDING"
	case RelationAccepted:
		return "ACCEPTED"
	case RelationDeclined:
		return "DECLINED"
	case RelationBlocked:
		return "BLOCKED"
	default:
		return "UNKNOWN"
	}
}

// Relationship 两个用户之间的唯一关系边。
// 写入前对用户对做规范化（UserLow < UserHigh），uidx_relationship_pair 保证同一对用户最多一条边；
// 方向信息由 RequesterId 保留。删除为物理删除，删除后可重新申请。
type Relationship struct {
	Id          int64          `gorm:"column:id;primaryKey;autoIncrement"`
	UserLow     string         `gorm:"column:user_low;type:varchar(64);not null;uniqueIndex:uidx_relationship_pair,priority:1"`
	UserHigh    string         `gorm:"column:user_high;type:varchar(64);not null;uniqueIndex:uidx_relationship_pair,priority:2;index:idx_relationship_high"`
	RequesterId string         `gorm:"column:requester_id;type:varchar(64);not null"` // 发起方
	Status      RelationStatus `gorm:"column:status;not null;default:0"`
	BlockedBy   string         `gorm:"column:blocked_by;type:varchar(64);not null;default:''"` // 仅 BLOCKED 时有值
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Relationship) TableName() string { return "relationship" }

// CanonicalPair 返回规范化后的用户对，较小的 ID 在前
func CanonicalPair(a, b string) (low, high string) {
	if a <= b {
		return a, b
	}
	return b, a
}

// Other 返回关系中的另一方
func (r *Relationship) Other(userID string) string {
	if r.UserLow == userID {
		return r.UserHigh
	}
	return r.UserLow
}
