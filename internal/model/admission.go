// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// AdmissionStatus 是咨询记录的处理状态，仅管理员可修改。
type AdmissionStatus string

const (
	StatusPending   AdmissionStatus = "pending"
	StatusContacted AdmissionStatus = "contacted"
	StatusEnrolled  AdmissionStatus = "enrolled"
	StatusRejected  AdmissionStatus = "rejected"
)

// AdmissionStatuses 按声明顺序列出全部合法状态。
var AdmissionStatuses = []AdmissionStatus{StatusPending, StatusContacted, StatusEnrolled, StatusRejected}

// Valid 判断状态是否属于四个合法值之一。
func (s AdmissionStatus) Valid() bool {
	for _, v := range AdmissionStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// StudentClasses 是报名表中可选的年级。
var StudentClasses = []string{
	"Class 3", "Class 4", "Class 5", "Class 6", "Class 7",
	"Class 8", "Class 9", "Class 10", "Class 11", "Class 12",
}

// Batches 是可报名的班次。
var Batches = []string{
	"Lakshya 90",
	"Sankalp Class 3",
	"Sankalp Class 4",
	"Sankalp Class 5",
	"MIT30",
	"MIB 1.0",
}

// Admission 对应 admissions 表，记录一次入学咨询。
// 记录只能通过状态更新修改，不提供删除接口。
type Admission struct {
	ID                    uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentName           string          `gorm:"type:varchar(120);not null" json:"studentName"`
	StudentClass          string          `gorm:"type:varchar(20);not null" json:"studentClass"`
	BatchSelection        string          `gorm:"type:varchar(40);not null" json:"batchSelection"`
	ParentName            string          `gorm:"type:varchar(120);not null" json:"parentName"`
	Contact               string          `gorm:"type:varchar(10);not null;index" json:"contact"`
	Address               string          `gorm:"type:text;not null" json:"address"`
	MockTestParticipation bool            `gorm:"not null;default:false" json:"mockTestParticipation"`
	ConsentGiven          bool            `gorm:"not null" json:"consentGiven"`
	Status                AdmissionStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	SubmittedAt           time.Time       `gorm:"not null;index;<-:create" json:"submittedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Admission) TableName() string {
	return "admissions"
}

// AdmissionSearchDoc 是写入 Elasticsearch 的咨询文档。
type AdmissionSearchDoc struct {
	ID                    uint      `json:"id"`
	StudentName           string    `json:"student_name"`
	StudentClass          string    `json:"student_class"`
	BatchSelection        string    `json:"batch_selection"`
	ParentName            string    `json:"parent_name"`
	Contact               string    `json:"contact"`
	Address               string    `json:"address"`
	MockTestParticipation bool      `json:"mock_test_participation"`
	Status                string    `json:"status"`
	SubmittedAt           time.Time `json:"submitted_at"`
}

// NewAdmissionSearchDoc 把数据库记录转换为搜索文档。
func NewAdmissionSearchDoc(a *Admission) AdmissionSearchDoc {
	return AdmissionSearchDoc{
		ID:                    a.ID,
		StudentName:           a.StudentName,
		StudentClass:          a.StudentClass,
		BatchSelection:        a.BatchSelection,
		ParentName:            a.ParentName,
		Contact:               a.Contact,
		Address:               a.Address,
		MockTestParticipation: a.MockTestParticipation,
		Status:                string(a.Status),
		SubmittedAt:           a.SubmittedAt,
	}
}

// AdmissionSearchHit 是返回给管理后台的搜索结果。
type AdmissionSearchHit struct {
	ID             uint      `json:"id"`
	StudentName    string    `json:"studentName"`
	ParentName     string    `json:"parentName"`
	Contact        string    `json:"contact"`
	BatchSelection string    `json:"batchSelection"`
	Status         string    `json:"status"`
	SubmittedAt    LocalTime `json:"submittedAt"`
	Score          float64   `json:"score"`
}
