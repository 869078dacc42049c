package model

import "time"

// GroupReadState 群聊已读水位线，每个 (群, 成员) 一行，只前进不后退。
type GroupReadState struct {
	Id                int64     `gorm:"column:id;primaryKey;autoIncrement"`
	GroupId           int64     `gorm:"column:group_id;not null;uniqueIndex:uidx_group_read_state,priority:1"`
	UserId            string    `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:uidx_group_read_state,priority:2"`
	LastReadMessageId int64     `gorm:"column:last_read_message_id;not null;default:0"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (GroupReadState) TableName() string { return "group_read_state" }
