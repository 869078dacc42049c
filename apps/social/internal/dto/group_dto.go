package dto

import (
	"time"

	"FitSocial/model"
)

// ==================== 群组相关 DTO ====================

// CreateGroupRequest 创建群
type CreateGroupRequest struct {
	Name      string   `json:"name" binding:"required,max=64"`
	AvatarUrl string   `json:"avatar_url" binding:"omitempty,max=255"`
	Notice    string   `json:"notice" binding:"omitempty,max=512"`
	MemberIDs []string `json:"member_ids" binding:"omitempty,max=200,dive,max=64"` // 初始成员，不含创建者
}

// AddMemberRequest 添加群成员
type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required,max=64"`
}

// GroupMemberView 群成员展示
type GroupMemberView struct {
	UserId    string          `json:"user_id"`
	Username  string          `json:"username"`
	Nickname  string          `json:"nickname"`
	AvatarUrl string          `json:"avatar_url"`
	Role      model.GroupRole `json:"role"`
	JoinedAt  time.Time       `json:"joined_at"`
}

// GroupSummary 我的群列表行
type GroupSummary struct {
	Group       *model.ChatGroup   `json:"group"`
	LastMessage *model.MessageView `json:"last_message,omitempty"`
	UnreadCount int64              `json:"unread_count"`
}
