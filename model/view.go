package model

import "time"

// 以下为读模型，由多张表拼装而成，不落库。

// MessageSummary 好友列表中展示的最近一条私聊消息
type MessageSummary struct {
	Id       int64     `json:"id,string"`
	SenderId string    `json:"sender_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
}

// FriendView 好友列表行，也是好友列表缓存的序列化格式
type FriendView struct {
	UserId      string          `json:"user_id"`
	Username    string          `json:"username"`
	Nickname    string          `json:"nickname"`
	AvatarUrl   string          `json:"avatar_url"`
	FriendSince time.Time       `json:"friend_since"`
	LastMessage *MessageSummary `json:"last_message,omitempty"`
	UnreadCount int64           `json:"unread_count"`
}

// PendingRequestView 待处理的好友申请
type PendingRequestView struct {
	RequesterId string    `json:"requester_id"`
	Username    string    `json:"username"`
	Nickname    string    `json:"nickname"`
	AvatarUrl   string    `json:"avatar_url"`
	RequestedAt time.Time `json:"requested_at"`
}

// MessageView 消息展示，附带发送者昵称
type MessageView struct {
	Id         int64     `json:"id,string"`
	SenderId   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	ReceiverId string    `json:"receiver_id,omitempty"`
	GroupId    int64     `json:"group_id,omitempty,string"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sent_at"`
	IsRead     bool      `json:"is_read"`
}

// NewMessageView 由消息与发送者资料组装展示对象
func NewMessageView(m *Message, sender *UserProfile) MessageView {
	name := sender.DisplayName()
	if name == "" {
		name = m.SenderId
	}
	return MessageView{
		Id:         m.Id,
		SenderId:   m.SenderId,
		SenderName: name,
		ReceiverId: m.ReceiverId,
		GroupId:    m.GroupId,
		Content:    m.Content,
		SentAt:     m.SentAt,
		IsRead:     m.IsRead,
	}
}

// AllModels 需要自动建表的模型
func AllModels() []interface{} {
	return []interface{}{
		&UserProfile{},
		&Relationship{},
		&Message{},
		&ChatGroup{},
		&GroupMember{},
		&GroupReadState{},
		&Plan{},
	}
}
