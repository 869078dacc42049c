package repository

import (
	"context"
	"time"

	"FitSocial/model"
)

// ==================== 关系 Repository ====================

// IRelationshipRepository 好友关系数据访问接口。
// 所有方法内部先对用户对做规范化，调用方无需关心参数顺序。
type IRelationshipRepository interface {
	// Get 查询两人之间的关系边，不存在返回 ErrRecordNotFound
	Get(ctx context.Context, a, b string) (*model.Relationship, error)

	// Create 插入新的关系边，同一对用户已存在时返回 ErrDuplicateKey
	Create(ctx context.Context, rel *model.Relationship) error

	// Reopen 将 DECLINED 边重新置为 PENDING 并更换发起方，返回是否生效
	Reopen(ctx context.Context, requester, target string) (bool, error)

	// Accept PENDING(发起方=requester) → ACCEPTED，返回是否生效
	Accept(ctx context.Context, target, requester string) (bool, error)

	// Decline PENDING(发起方=requester) → DECLINED，返回是否生效
	Decline(ctx context.Context, target, requester string) (bool, error)

	// DeleteUnblocked 删除非拉黑状态的边，返回是否删除了记录
	DeleteUnblocked(ctx context.Context, a, b string) (bool, error)

	// Block 将关系置为 BLOCKED（无边则插入）
	Block(ctx context.Context, blocker, target string) error

	// Unblock 删除由 blocker 拉黑的边，返回是否删除了记录
	Unblock(ctx context.Context, blocker, target string) (bool, error)

	// ListIncomingPending 发给 userID 的待处理申请，按时间倒序
	ListIncomingPending(ctx context.Context, userID string) ([]*model.Relationship, error)

	// ListAccepted userID 的全部好友边，按成为好友时间倒序
	ListAccepted(ctx context.Context, userID string) ([]*model.Relationship, error)
}

// ==================== 消息 Repository ====================

// IMessageRepository 消息数据访问接口
type IMessageRepository interface {
	// Create 写入一条消息（Id 由调用方生成）
	Create(ctx context.Context, msg *model.Message) error

	// MarkRead 将 sender 发给 reader 的未读私聊消息全部置为已读，返回更新条数
	MarkRead(ctx context.Context, readerID, senderID string) (int64, error)

	// CountUnreadDirect 统计 userID 的私聊未读总数
	CountUnreadDirect(ctx context.Context, userID string) (int64, error)

	// UnreadBySender 按发送者统计 userID 的私聊未读数
	UnreadBySender(ctx context.Context, userID string, senderIDs []string) (map[string]int64, error)

	// LatestWithPeers 返回 userID 与每个 peer 的最近一条私聊消息，key 为 peer
	LatestWithPeers(ctx context.Context, userID string, peerIDs []string) (map[string]*model.Message, error)

	// DirectHistory 两人的私聊记录，按 sent_at、id 倒序分页，返回总数
	DirectHistory(ctx context.Context, a, b string, page, pageSize int) ([]*model.Message, int64, error)

	// GroupHistory 群聊记录，按 sent_at、id 倒序分页，返回总数
	GroupHistory(ctx context.Context, groupID int64, page, pageSize int) ([]*model.Message, int64, error)

	// LatestInGroups 每个群最近的一条消息
	LatestInGroups(ctx context.Context, groupIDs []int64) (map[int64]*model.Message, error)

	// MaxGroupMessageID 群内最大消息 ID，没有消息时为 0
	MaxGroupMessageID(ctx context.Context, groupID int64) (int64, error)
}

// ==================== 群组 Repository ====================

// IGroupRepository 群组、成员与群已读水位线
type IGroupRepository interface {
	// Create 创建群并写入群主，事务内完成
	Create(ctx context.Context, group *model.ChatGroup, ownerID string) error

	// GetByID 查询群，不存在返回 ErrRecordNotFound
	GetByID(ctx context.Context, groupID int64) (*model.ChatGroup, error)

	// AddMember 加入成员，已是成员时不报错，返回是否新加入
	AddMember(ctx context.Context, groupID int64, userID string, role model.GroupRole) (bool, error)

	// IsMember 是否群成员
	IsMember(ctx context.Context, groupID int64, userID string) (bool, error)

	// ListMembers 群成员列表，按加入时间正序
	ListMembers(ctx context.Context, groupID int64) ([]*model.GroupMember, error)

	// ListMemberIDs 群成员 ID
	ListMemberIDs(ctx context.Context, groupID int64) ([]string, error)

	// ListUserGroups userID 加入的群
	ListUserGroups(ctx context.Context, userID string) ([]*model.ChatGroup, error)

	// AdvanceReadState 推进已读水位线，只前进不后退
	AdvanceReadState(ctx context.Context, groupID int64, userID string, lastReadMessageID int64) error

	// GetReadState 查询水位线，无记录返回 0
	GetReadState(ctx context.Context, groupID int64, userID string) (int64, error)

	// UnreadByGroup 按群统计 userID 的未读数（不含自己发的）
	UnreadByGroup(ctx context.Context, userID string) (map[int64]int64, error)
}

// ==================== 计划 Repository ====================

// IPlanRepository 健身计划数据访问接口
type IPlanRepository interface {
	Create(ctx context.Context, plan *model.Plan) error

	// GetByID 不存在返回 ErrRecordNotFound
	GetByID(ctx context.Context, planID int64) (*model.Plan, error)

	// ListActive userIDs 中每个人进行中且未过期（end_date >= day）的计划
	ListActive(ctx context.Context, userIDs []string, day time.Time) ([]*model.Plan, error)

	// Complete ACTIVE → COMPLETED，仅计划所有者可操作，返回是否生效
	Complete(ctx context.Context, planID int64, userID string) (bool, error)
}

// ==================== 用户资料 Repository ====================

// IProfileRepository 用户资料（本地 LRU + DB）
type IProfileRepository interface {
	// Get 不存在返回 ErrRecordNotFound
	Get(ctx context.Context, userID string) (*model.UserProfile, error)

	// BatchGet 批量查询，不存在的 ID 不出现在结果中
	BatchGet(ctx context.Context, userIDs []string) (map[string]*model.UserProfile, error)

	// Upsert 写入或更新资料，并淘汰本地缓存
	Upsert(ctx context.Context, profile *model.UserProfile) error
}

// ==================== 好友列表缓存 ====================

// FriendListLoader 缓存未命中时从存储构建好友列表
type FriendListLoader func(ctx context.Context) ([]model.FriendView, error)

// IFriendCacheRepository 好友列表读穿缓存
type IFriendCacheRepository interface {
	// GetOrLoad 命中直接返回；未命中调用 loader 并在版本号未变化时回填
	GetOrLoad(ctx context.Context, userID string, loader FriendListLoader) ([]model.FriendView, error)

	// Invalidate 失效若干用户的好友列表缓存
	Invalidate(ctx context.Context, userIDs ...string)
}
