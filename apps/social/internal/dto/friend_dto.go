package dto

import "FitSocial/model"

// ==================== 好友相关 DTO ====================

// SendFriendRequest 发送好友申请
type SendFriendRequest struct {
	TargetID string `json:"target_id" binding:"required,max=64"` // 目标用户 ID
}

// FriendListResponse 好友列表
type FriendListResponse struct {
	Items []model.FriendView `json:"items"`
}

// PendingListResponse 待处理申请列表
type PendingListResponse struct {
	Items []model.PendingRequestView `json:"items"`
}

// FriendRequestEvent friend_request 推送内容
type FriendRequestEvent = model.PendingRequestView

// FriendAcceptedEvent friend_accepted 推送内容
type FriendAcceptedEvent struct {
	UserId    string `json:"user_id"` // 接受申请的一方
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	AvatarUrl string `json:"avatar_url"`
}
