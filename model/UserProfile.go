package model

import "time"

// UserProfile 用户展示资料，由账号服务维护，这里只读。
type UserProfile struct {
	UserId    string    `gorm:"column:user_id;type:varchar(64);primaryKey"`
	Username  string    `gorm:"column:username;type:varchar(64);not null"`
	Nickname  string    `gorm:"column:nickname;type:varchar(64);not null;default:''"`
	AvatarUrl string    `gorm:"column:avatar_url;type:varchar(255);not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserProfile) TableName() string { return "user_profile" }

// DisplayName 昵称优先，其次用户名
func (p *UserProfile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.Username
}
