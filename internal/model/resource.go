package model

import "time"

// ResourceCategories 是资料的合法分类。
var ResourceCategories = []string{"notes", "sample-papers", "syllabus", "announcements"}

// ResourceFileTypes 是资料的合法文件类型，link 表示外部链接。
var ResourceFileTypes = []string{"pdf", "doc", "docx", "jpg", "jpeg", "png", "gif", "mp4", "avi", "mov", "link"}

// FileTypeLink 表示只包含外部链接、没有上传文件的资料。
const FileTypeLink = "link"

// Resource 对应 resources 表，可以是上传的文件、外部链接或纯文本资料。
type Resource struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"type:varchar(200);not null;index" json:"title"`
	Subtitle    string `gorm:"type:varchar(200)" json:"subtitle"`
	Description string `gorm:"type:text" json:"description"`
	Content     string `gorm:"type:text" json:"content"`
	// FileURL 为外部链接；上传到对象存储的文件使用 ObjectName，由下载接口生成临时链接。
	FileURL    string    `gorm:"type:varchar(500)" json:"fileUrl"`
	ObjectName string    `gorm:"type:varchar(255)" json:"-"`
	FileName   string    `gorm:"type:varchar(255)" json:"fileName"`
	FileSize   int64     `gorm:"not null;default:0" json:"fileSize"`
	FileType   string    `gorm:"type:varchar(10);not null" json:"fileType"`
	Category   string    `gorm:"type:varchar(30);not null;index" json:"category"`
	IsActive   bool      `gorm:"not null" json:"isActive"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// HasObject 判断资料是否有存放在对象存储中的文件。
func (r *Resource) HasObject() bool {
	return r.ObjectName != ""
}

// TableName 指定了此模型在数据库中对应的表名。
func (Resource) TableName() string {
	return "resources"
}
