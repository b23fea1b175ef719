package model

import "time"

// Course 对应 courses 表。
type Course struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Fee         int       `gorm:"not null" json:"fee"` // 单位：卢比
	Duration    string    `gorm:"type:varchar(50);not null" json:"duration"`
	Timing      string    `gorm:"type:varchar(50);not null" json:"timing"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	Features    []string  `gorm:"type:text;serializer:json" json:"features"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Course) TableName() string {
	return "courses"
}

// Event 对应 events 表。
type Event struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null;index" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Location    string    `gorm:"type:varchar(200);not null" json:"location"`
	Fee         int       `gorm:"not null;default:0" json:"fee"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Event) TableName() string {
	return "events"
}
