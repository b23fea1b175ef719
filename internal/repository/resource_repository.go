package repository

import (
	"abhishek-coaching-go/internal/model"
	"context"

	"gorm.io/gorm"
)

// ResourceRepository 接口定义了学习资料的数据操作方法。
type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) error
	FindByID(ctx context.Context, id uint) (*model.Resource, error)
	FindByTitle(ctx context.Context, title string) (*model.Resource, error)
	FindActive(ctx context.Context) ([]model.Resource, error)
	FindActiveByCategory(ctx context.Context, category string) ([]model.Resource, error)
	Update(ctx context.Context, resource *model.Resource) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type resourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository 创建一个新的 ResourceRepository 实例。
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *resourceRepository) FindByID(ctx context.Context, id uint) (*model.Resource, error) {
	var resource model.Resource
	if err := r.db.WithContext(ctx).First(&resource, id).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *resourceRepository) FindByTitle(ctx context.Context, title string) (*model.Resource, error) {
	var resource model.Resource
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&resource).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

// FindActive 返回所有上架资料，最新的在前。
func (r *resourceRepository) FindActive(ctx context.Context) ([]model.Resource, error) {
	var resources []model.Resource
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at DESC").Order("id DESC").Find(&resources).Error
	return resources, err
}

// FindActiveByCategory 返回指定分类下的上架资料，最新的在前。
func (r *resourceRepository) FindActiveByCategory(ctx context.Context, category string) ([]model.Resource, error) {
	var resources []model.Resource
	err := r.db.WithContext(ctx).
		Where("category = ? AND is_active = ?", category, true).
		Order("created_at DESC").Order("id DESC").
		Find(&resources).Error
	return resources, err
}

func (r *resourceRepository) Update(ctx context.Context, resource *model.Resource) error {
	return r.db.WithContext(ctx).Save(resource).Error
}

func (r *resourceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Resource{}, id).Error
}

func (r *resourceRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Resource{}).Count(&total).Error
	return total, err
}
