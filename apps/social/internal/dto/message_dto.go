package dto

import "FitSocial/model"

// ==================== 消息相关 DTO ====================

// SendMessageRequest 发送消息，receiver_id 与 group_id 必须且只能有一个
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" binding:"omitempty,max=64"` // 私聊接收方
	GroupID    int64  `json:"group_id,string"`                        // 群聊 ID，雪花 ID 以字符串传输
	Content    string `json:"content"`                                // 消息内容
}

// MarkGroupReadRequest 群聊已读上报
type MarkGroupReadRequest struct {
	LastMessageID int64 `json:"last_message_id,string" binding:"required,min=1"` // 已读到的最后一条消息
}

// MarkReadResponse 私聊已读结果
type MarkReadResponse struct {
	Updated int64 `json:"updated"` // 本次置为已读的条数
}

// UnreadCountResponse 未读数
type UnreadCountResponse struct {
	Direct int64 `json:"direct"` // 私聊未读
	Group  int64 `json:"group"`  // 群聊未读
	Total  int64 `json:"total"`
}

// MessagePage 历史消息分页，Items 按时间正序
type MessagePage struct {
	Items    []model.MessageView `json:"items"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}
