package service

import (
	"abhishek-coaching-go/internal/config"
	"abhishek-coaching-go/internal/model"
	"abhishek-coaching-go/internal/repository"
	"abhishek-coaching-go/pkg/apperr"
	"abhishek-coaching-go/pkg/log"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ObjectStorage 存放上传的资料文件。
type ObjectStorage interface {
	Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, objectName string) error
	PresignedURL(ctx context.Context, objectName, fileName string) (string, error)
}

// ResourceInput 是创建或更新资料的字段，JSON 和 multipart 表单共用。
type ResourceInput struct {
	Title       string `json:"title" form:"title"`
	Subtitle    string `json:"subtitle" form:"subtitle"`
	Description string `json:"description" form:"description"`
	Content     string `json:"content" form:"content"`
	FileURL     string `json:"fileUrl" form:"fileUrl"`
	FileType    string `json:"fileType" form:"fileType"`
	Category    string `json:"category" form:"category"`
	IsActive    *bool  `json:"isActive" form:"isActive"`
}

// FileUpload 是随请求上传的文件。
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// ResourceService 接口定义了学习资料相关的业务操作。
type ResourceService interface {
	List(ctx context.Context) ([]model.Resource, error)
	ListByCategory(ctx context.Context, category string) ([]model.Resource, error)
	Get(ctx context.Context, id uint) (*model.Resource, error)
	Create(ctx context.Context, in ResourceInput, file *FileUpload) (*model.Resource, error)
	Update(ctx context.Context, id uint, in ResourceInput, file *FileUpload) (*model.Resource, error)
	Delete(ctx context.Context, id uint) error
	DownloadURL(ctx context.Context, id uint) (string, error)
}

type resourceService struct {
	repo        repository.ResourceRepository
	storage     ObjectStorage
	maxBytes    int64
	allowedExts map[string]struct{}
}

// NewResourceService 创建一个新的 ResourceService 实例。storage 为 nil 时不支持文件上传。
func NewResourceService(repo repository.ResourceRepository, storage ObjectStorage, uploadCfg config.UploadConfig) ResourceService {
	maxMB := uploadCfg.MaxSizeMB
	if maxMB <= 0 {
		maxMB = 10
	}
	exts := make(map[string]struct{}, len(uploadCfg.AllowedExtensions))
	for _, e := range uploadCfg.AllowedExtensions {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}
	return &resourceService{
		repo:        repo,
		storage:     storage,
		maxBytes:    maxMB << 20,
		allowedExts: exts,
	}
}

func validCategory(category string) error {
	if category == "" {
		return apperr.New(apperr.KindMissingField, "category", "Category is required")
	}
	if !oneOf(category, model.ResourceCategories) {
		return apperr.New(apperr.KindInvalidEnum, "category", "Category must be one of notes, sample-papers, syllabus, announcements")
	}
	return nil
}

// applyFields 把文本字段写入资料，不处理文件。
func (in ResourceInput) applyFields(r *model.Resource) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return apperr.New(apperr.KindMissingField, "title", "Title is required")
	}
	category := strings.TrimSpace(in.Category)
	if err := validCategory(category); err != nil {
		return err
	}
	r.Title = title
	r.Subtitle = strings.TrimSpace(in.Subtitle)
	r.Description = strings.TrimSpace(in.Description)
	r.Content = in.Content
	r.Category = category
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
	return nil
}

// applyLink 处理没有上传文件的资料：外部链接或仅有文本内容。
func (in ResourceInput) applyLink(r *model.Resource) error {
	fileType := strings.ToLower(strings.TrimSpace(in.FileType))
	fileURL := strings.TrimSpace(in.FileURL)
	if fileType == "" && fileURL != "" {
		fileType = model.FileTypeLink
	}
	if fileType == "" {
		return apperr.New(apperr.KindMissingField, "fileType", "File type is required")
	}
	if !oneOf(fileType, model.ResourceFileTypes) {
		return apperr.New(apperr.KindInvalidEnum, "fileType", "Unsupported file type")
	}
	if fileType == model.FileTypeLink && fileURL == "" {
		return apperr.New(apperr.KindMissingField, "fileUrl", "A link resource needs a URL")
	}
	r.FileType = fileType
	r.FileURL = fileURL
	return nil
}

// storeFile 校验并上传文件，返回对象名。
func (s *resourceService) storeFile(ctx context.Context, file *FileUpload) (objectName, ext string, err error) {
	if s.storage == nil {
		return "", "", apperr.New(apperr.KindStoreUnavailable, "file", "File storage is not configured")
	}
	if file.Size > s.maxBytes {
		return "", "", apperr.New(apperr.KindBadRequest, "file", fmt.Sprintf("File exceeds the %dMB limit", s.maxBytes>>20))
	}
	ext = strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Name), "."))
	if _, ok := s.allowedExts[ext]; !ok {
		return "", "", apperr.New(apperr.KindBadRequest, "file", "Invalid file type. Only documents, images, and videos are allowed.")
	}

	objectName = fmt.Sprintf("resources/%s.%s", uuid.NewString(), ext)
	if err := s.storage.Put(ctx, objectName, file.Body, file.Size, file.ContentType); err != nil {
		return "", "", apperr.Wrap(apperr.KindStoreUnavailable, "Failed to store file", err)
	}
	log.Infof("[ResourceService] 文件上传成功, object: %s, size: %d", objectName, file.Size)
	return objectName, ext, nil
}

func (s *resourceService) removeObject(ctx context.Context, objectName string) {
	if objectName == "" || s.storage == nil {
		return
	}
	if err := s.storage.Remove(ctx, objectName); err != nil {
		log.Warnf("[ResourceService] 删除对象失败, object: %s, error: %v", objectName, err)
	}
}

func (s *resourceService) List(ctx context.Context) ([]model.Resource, error) {
	resources, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	if resources == nil {
		resources = []model.Resource{}
	}
	return resources, nil
}

func (s *resourceService) ListByCategory(ctx context.Context, category string) ([]model.Resource, error) {
	if err := validCategory(category); err != nil {
		return nil, err
	}
	resources, err := s.repo.FindActiveByCategory(ctx, category)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	if resources == nil {
		resources = []model.Resource{}
	}
	return resources, nil
}

func (s *resourceService) Get(ctx context.Context, id uint) (*model.Resource, error) {
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Resource not found")
	}
	return resource, nil
}

// Create 新建资料。带文件时文件类型由扩展名决定，否则按链接或文本资料处理。
func (s *resourceService) Create(ctx context.Context, in ResourceInput, file *FileUpload) (*model.Resource, error) {
	resource := &model.Resource{IsActive: true}
	if err := in.applyFields(resource); err != nil {
		return nil, err
	}

	if file != nil {
		objectName, ext, err := s.storeFile(ctx, file)
		if err != nil {
			return nil, err
		}
		resource.ObjectName = objectName
		resource.FileName = filepath.Base(file.Name)
		resource.FileSize = file.Size
		resource.FileType = ext
	} else if err := in.applyLink(resource); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, resource); err != nil {
		log.Errorf("[ResourceService] 创建资料失败: %v", err)
		s.removeObject(ctx, resource.ObjectName)
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	return resource, nil
}

// Update 更新资料。上传新文件时替换旧文件，旧对象在记录保存成功后删除。
func (s *resourceService) Update(ctx context.Context, id uint, in ResourceInput, file *FileUpload) (*model.Resource, error) {
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Resource not found")
	}
	if err := in.applyFields(resource); err != nil {
		return nil, err
	}

	oldObject := resource.ObjectName
	switch {
	case file != nil:
		objectName, ext, err := s.storeFile(ctx, file)
		if err != nil {
			return nil, err
		}
		resource.ObjectName = objectName
		resource.FileName = filepath.Base(file.Name)
		resource.FileSize = file.Size
		resource.FileType = ext
		resource.FileURL = ""
	case strings.TrimSpace(in.FileURL) != "" || (strings.TrimSpace(in.FileType) != "" && !resource.HasObject()):
		if err := in.applyLink(resource); err != nil {
			return nil, err
		}
		resource.ObjectName = ""
		resource.FileName = ""
		resource.FileSize = 0
	}

	if err := s.repo.Update(ctx, resource); err != nil {
		log.Errorf("[ResourceService] 更新资料失败, id: %d, error: %v", id, err)
		if resource.ObjectName != oldObject {
			s.removeObject(ctx, resource.ObjectName)
		}
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	if oldObject != "" && resource.ObjectName != oldObject {
		s.removeObject(ctx, oldObject)
	}
	return resource, nil
}

// Delete 删除资料记录及其文件。
func (s *resourceService) Delete(ctx context.Context, id uint) error {
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeError(err, "Resource not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	s.removeObject(ctx, resource.ObjectName)
	return nil
}

// DownloadURL 返回资料的下载地址：对象存储中的文件生成临时链接，外部链接原样返回。
func (s *resourceService) DownloadURL(ctx context.Context, id uint) (string, error) {
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", storeError(err, "Resource not found")
	}
	if resource.HasObject() {
		if s.storage == nil {
			return "", apperr.New(apperr.KindStoreUnavailable, "", "File storage is not configured")
		}
		url, err := s.storage.PresignedURL(ctx, resource.ObjectName, resource.FileName)
		if err != nil {
			return "", apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
		}
		return url, nil
	}
	if resource.FileURL != "" && resource.FileURL != "#" {
		return resource.FileURL, nil
	}
	return "", apperr.New(apperr.KindNotFound, "", "This resource has no downloadable file")
}
