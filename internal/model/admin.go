package model

import "time"

// RoleAdmin 是管理员角色标识。
const RoleAdmin = "ADMIN"

// Admin 对应 admins 表，保存后台管理员账号。
type Admin struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"type:varchar(200);uniqueIndex" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null;default:ADMIN" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Admin) TableName() string {
	return "admins"
}

// AllModels 返回需要自动迁移的全部模型。
func AllModels() []interface{} {
	return []interface{}{
		&Admin{},
		&Admission{},
		&Course{},
		&Event{},
		&Resource{},
	}
}
