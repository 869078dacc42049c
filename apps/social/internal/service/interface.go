package service

import (
	"context"

	"FitSocial/apps/social/internal/dto"
	"FitSocial/model"
)

// ==================== 好友服务接口 ====================

// IFriendService 好友关系服务
// 职责：好友申请状态机、拉黑、好友列表（读穿缓存）
type IFriendService interface {
	// SendRequest requester 向 target 发起好友申请
	SendRequest(ctx context.Context, requester, target string) error

	// AcceptRequest target 接受 requester 的申请，申请不存在时静默成功
	AcceptRequest(ctx context.Context, target, requester string) error

	// DeclineRequest target 拒绝 requester 的申请，申请不存在时静默成功
	DeclineRequest(ctx context.Context, target, requester string) error

	// DeleteFriend 删除两人之间的关系，幂等。拉黑边除外，只能由拉黑方 Unblock 解除
	DeleteFriend(ctx context.Context, userID, peerID string) error

	// Block 拉黑
	Block(ctx context.Context, blocker, target string) error

	// Unblock 解除拉黑，只有拉黑方可以解除，幂等
	Unblock(ctx context.Context, blocker, target string) error

	// ListPending 收到的待处理申请
	ListPending(ctx context.Context, userID string) ([]model.PendingRequestView, error)

	// ListFriends 好友列表，附最近一条私聊和未读数
	ListFriends(ctx context.Context, userID string) ([]model.FriendView, error)
}

// ==================== 消息服务接口 ====================

// IMessageService 私聊与群聊消息
// 职责：发送、已读、未读统计、历史记录
type IMessageService interface {
	// SendMessage 发送私聊或群聊消息
	SendMessage(ctx context.Context, senderID string, req *dto.SendMessageRequest) (*model.MessageView, error)

	// MarkAsRead senderID 发给 readerID 的私聊全部置为已读
	MarkAsRead(ctx context.Context, readerID, senderID string) (int64, error)

	// MarkGroupAsRead 推进群已读水位线
	MarkGroupAsRead(ctx context.Context, readerID string, groupID, lastMessageID int64) error

	// UnreadCount 私聊未读 + 群聊未读
	UnreadCount(ctx context.Context, userID string) (*dto.UnreadCountResponse, error)

	// ChatHistory 私聊历史，页内按时间正序
	ChatHistory(ctx context.Context, userID, peerID string, page, pageSize int) (*dto.MessagePage, error)

	// GroupHistory 群聊历史，需为群成员
	GroupHistory(ctx context.Context, userID string, groupID int64, page, pageSize int) (*dto.MessagePage, error)
}

// ==================== 群组服务接口 ====================

// IGroupService 群组管理
type IGroupService interface {
	CreateGroup(ctx context.Context, ownerID string, req *dto.CreateGroupRequest) (*model.ChatGroup, error)

	// AddMember 添加成员，已是成员时静默成功
	AddMember(ctx context.Context, operatorID string, groupID int64, userID string) error

	ListMembers(ctx context.Context, userID string, groupID int64) ([]dto.GroupMemberView, error)

	// ListMyGroups 我加入的群，附最近一条消息和未读数
	ListMyGroups(ctx context.Context, userID string) ([]dto.GroupSummary, error)
}

// ==================== 计划服务接口 ====================

// IPlanService 健身计划
type IPlanService interface {
	// CreatePlan 创建计划并通知所有好友
	CreatePlan(ctx context.Context, userID string, req *dto.CreatePlanRequest) (*dto.CreatePlanResponse, error)

	// ActivePlans 进行中且未过期的计划
	ActivePlans(ctx context.Context, userID string) ([]*model.Plan, error)

	CompletePlan(ctx context.Context, userID string, planID int64) error

	// FriendsActivePlans 好友们进行中的计划
	FriendsActivePlans(ctx context.Context, userID string) ([]dto.FriendPlanView, error)
}
