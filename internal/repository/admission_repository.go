// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"abhishek-coaching-go/internal/model"
	"context"
	"strings"

	"gorm.io/gorm"
)

// AdmissionRepository 接口定义了咨询记录的持久化操作。
// 没有删除方法：咨询记录一旦写入就不会被删除。
type AdmissionRepository interface {
	Create(ctx context.Context, admission *model.Admission) error
	FindByID(ctx context.Context, id uint) (*model.Admission, error)
	UpdateStatus(ctx context.Context, id uint, status model.AdmissionStatus) (*model.Admission, error)
	FindAll(ctx context.Context) ([]model.Admission, error)
	Search(ctx context.Context, query string, limit int) ([]model.Admission, error)
	CountByStatus(ctx context.Context) (map[model.AdmissionStatus]int64, error)
}

// admissionRepository 是 AdmissionRepository 接口的 GORM 实现。
type admissionRepository struct {
	db *gorm.DB
}

// NewAdmissionRepository 创建一个新的 AdmissionRepository 实例。
func NewAdmissionRepository(db *gorm.DB) AdmissionRepository {
	return &admissionRepository{db: db}
}

// Create 插入一条新的咨询记录，成功后 admission.ID 被回填。
func (r *admissionRepository) Create(ctx context.Context, admission *model.Admission) error {
	return r.db.WithContext(ctx).Create(admission).Error
}

// FindByID 根据 ID 查找咨询记录，不存在时返回 gorm.ErrRecordNotFound。
func (r *admissionRepository) FindByID(ctx context.Context, id uint) (*model.Admission, error) {
	var admission model.Admission
	if err := r.db.WithContext(ctx).First(&admission, id).Error; err != nil {
		return nil, err
	}
	return &admission, nil
}

// UpdateStatus 覆盖记录的状态并返回更新后的记录。
// 先查询再更新：MySQL 在值未变化时 RowsAffected 为 0，不能据此判断记录是否存在。
func (r *admissionRepository) UpdateStatus(ctx context.Context, id uint, status model.AdmissionStatus) (*model.Admission, error) {
	admission, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(admission).Update("status", status).Error; err != nil {
		return nil, err
	}
	admission.Status = status
	return admission, nil
}

// FindAll 返回全部咨询记录，按提交时间倒序。
func (r *admissionRepository) FindAll(ctx context.Context) ([]model.Admission, error) {
	var admissions []model.Admission
	err := r.db.WithContext(ctx).Order("submitted_at DESC").Order("id DESC").Find(&admissions).Error
	return admissions, err
}

// Search 在学生姓名、家长姓名、联系电话和地址中做模糊匹配。
// 这是 Elasticsearch 不可用时的降级查询。
func (r *admissionRepository) Search(ctx context.Context, query string, limit int) ([]model.Admission, error) {
	var admissions []model.Admission
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(student_name) LIKE ? OR LOWER(parent_name) LIKE ? OR contact LIKE ? OR LOWER(address) LIKE ?", like, like, like, like).
		Order("submitted_at DESC").
		Limit(limit).
		Find(&admissions).Error
	return admissions, err
}

// CountByStatus 统计各状态的记录数，未出现的状态计为 0。
func (r *admissionRepository) CountByStatus(ctx context.Context) (map[model.AdmissionStatus]int64, error) {
	var rows []struct {
		Status model.AdmissionStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Admission{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.AdmissionStatus]int64, len(model.AdmissionStatuses))
	for _, s := range model.AdmissionStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
