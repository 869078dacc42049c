package model

import "time"

// GroupRole 群成员角色
type GroupRole int8

const (
	GroupRoleMember GroupRole = 0
	GroupRoleAdmin  GroupRole = 1
	GroupRoleOwner  GroupRole = 2
)

// ChatGroup 群组
type ChatGroup struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	Name      string    `gorm:"column:name;type:varchar(64);not null" json:"name"`
	OwnerId   string    `gorm:"column:owner_id;type:varchar(64);not null;index" json:"owner_id"`
	AvatarUrl string    `gorm:"column:avatar_url;type:varchar(255);not null;default:''" json:"avatar_url"`
	Notice    string    `gorm:"column:notice;type:varchar(512);not null;default:''" json:"notice"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ChatGroup) TableName() string { return "chat_group" }

// GroupMember 群成员
type GroupMember struct {
	Id       int64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	GroupId  int64     `gorm:"column:group_id;not null;uniqueIndex:uidx_group_member,priority:1" json:"group_id,string"`
	UserId   string    `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:uidx_group_member,priority:2;index:idx_group_member_user" json:"user_id"`
	Role     GroupRole `gorm:"column:role;not null;default:0" json:"role"`
	JoinedAt time.Time `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
}

func (GroupMember) TableName() string { return "group_member" }
