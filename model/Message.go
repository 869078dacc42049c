package model

import "time"

// Message 消息表，私聊与群聊共用。
// 私聊：ReceiverId 非空，GroupId = 0，PeerLow/PeerHigh 为规范化的会话双方；
// 群聊：GroupId 非 0，ReceiverId 与 PeerLow/PeerHigh 为空，IsRead 恒为 true（群聊已读走水位线）。
// Id 为雪花 ID，同一节点内单调递增，群已读水位线依赖这一点。
type Message struct {
	Id         int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	SenderId   string    `gorm:"column:sender_id;type:varchar(64);not null;index:idx_message_unread,priority:2"`
	ReceiverId string    `gorm:"column:receiver_id;type:varchar(64);not null;default:'';index:idx_message_unread,priority:1"`
	GroupId    int64     `gorm:"column:group_id;not null;default:0;index:idx_message_group"`
	PeerLow    string    `gorm:"column:peer_low;type:varchar(64);not null;default:'';index:idx_message_peer,priority:1"`
	PeerHigh   string    `gorm:"column:peer_high;type:varchar(64);not null;default:'';index:idx_message_peer,priority:2"`
	Content    string    `gorm:"column:content;type:text;not null"`
	SentAt     time.Time `gorm:"column:sent_at;not null;index"`
	IsRead     bool      `gorm:"column:is_read;not null;default:false;index:idx_message_unread,priority:3"`
}

func (Message) TableName() string { return "message" }

// IsGroup 是否群消息
func (m *Message) IsGroup() bool { return m.GroupId != 0 }
