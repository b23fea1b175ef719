// Package service 包含了应用的业务逻辑层。
package service

import (
	"abhishek-coaching-go/internal/metrics"
	"abhishek-coaching-go/internal/model"
	"abhishek-coaching-go/internal/repository"
	"abhishek-coaching-go/pkg/apperr"
	"abhishek-coaching-go/pkg/log"
	"abhishek-coaching-go/pkg/tasks"
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	msgServerError        = "Server error"
	msgAdmissionNotFound  = "Admission not found"
	defaultSearchLimit    = 20
	maxSearchLimit        = 100
	publishTimeoutSeconds = 5
)

// AdmissionEventPublisher 发布咨询记录的变化。
type AdmissionEventPublisher interface {
	PublishAdmissionEvent(ctx context.Context, event tasks.AdmissionEvent) error
}

// AdmissionSearcher 提供全文检索。
type AdmissionSearcher interface {
	SearchAdmissions(ctx context.Context, query string, size int) ([]model.AdmissionSearchHit, error)
}

// AdmissionService 接口定义了入学咨询相关的业务操作。
type AdmissionService interface {
	Submit(ctx context.Context, in AdmissionInput) (*model.Admission, error)
	SetStatus(ctx context.Context, id uint, status string) (*model.Admission, error)
	List(ctx context.Context) ([]model.Admission, error)
	Get(ctx context.Context, id uint) (*model.Admission, error)
	Search(ctx context.Context, query string, limit int) ([]model.AdmissionSearchHit, error)
}

type admissionService struct {
	repo      repository.AdmissionRepository
	publisher AdmissionEventPublisher
	searcher  AdmissionSearcher
	now       func() time.Time
}

// NewAdmissionService 创建一个新的 AdmissionService 实例。
// publisher 和 searcher 可以为 nil：不发布事件，检索直接走数据库。
func NewAdmissionService(repo repository.AdmissionRepository, publisher AdmissionEventPublisher, searcher AdmissionSearcher) AdmissionService {
	return &admissionService{
		repo:      repo,
		publisher: publisher,
		searcher:  searcher,
		now:       time.Now,
	}
}

// storeError 把仓储层错误转换为业务错误。
func storeError(err error, notFoundMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.KindNotFound, "", notFoundMsg)
	}
	return apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
}

// Submit 校验并保存一条咨询，校验失败时不会写入任何记录。
func (s *admissionService) Submit(ctx context.Context, in AdmissionInput) (*model.Admission, error) {
	valid, err := ValidateAdmission(in)
	if err != nil {
		metrics.RecordAdmissionSubmission(string(apperr.KindOf(err)))
		return nil, err
	}

	admission := valid.Record(s.now())
	if err := s.repo.Create(ctx, admission); err != nil {
		log.Errorf("[AdmissionService] 保存咨询记录失败: %v", err)
		metrics.RecordAdmissionSubmission(string(apperr.KindStoreUnavailable))
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}

	metrics.RecordAdmissionSubmission("accepted")
	log.Infow("收到新的入学咨询", "id", admission.ID, "batch", admission.BatchSelection, "class", admission.StudentClass)
	s.publish(tasks.EventAdmissionSubmitted, admission)
	return admission, nil
}

// SetStatus 覆盖记录的状态。任意状态之间都可以互相转换，只拒绝四个合法值以外的状态。
// 状态值按原样比较，带空白或大小写不同的值同样被拒绝。
func (s *admissionService) SetStatus(ctx context.Context, id uint, status string) (*model.Admission, error) {
	next := model.AdmissionStatus(status)
	if !next.Valid() {
		return nil, apperr.New(apperr.KindInvalidEnum, "status", "Status must be one of pending, contacted, enrolled, rejected")
	}

	admission, err := s.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorf("[AdmissionService] 更新咨询状态失败, id: %d, error: %v", id, err)
		}
		return nil, storeError(err, msgAdmissionNotFound)
	}

	metrics.RecordStatusUpdate(string(next))
	log.Infow("咨询状态已更新", "id", id, "status", next)
	s.publish(tasks.EventAdmissionStatusChanged, admission)
	return admission, nil
}

// List 返回全部咨询记录，最新的在前。
func (s *admissionService) List(ctx context.Context) ([]model.Admission, error) {
	admissions, err := s.repo.FindAll(ctx)
	if err != nil {
		log.Errorf("[AdmissionService] 查询咨询列表失败: %v", err)
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	if admissions == nil {
		admissions = []model.Admission{}
	}
	return admissions, nil
}

// Get 返回单条咨询记录。
func (s *admissionService) Get(ctx context.Context, id uint) (*model.Admission, error) {
	admission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, msgAdmissionNotFound)
	}
	return admission, nil
}

// Search 优先使用搜索引擎，不可用或出错时降级为数据库模糊查询。
func (s *admissionService) Search(ctx context.Context, query string, limit int) ([]model.AdmissionSearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.New(apperr.KindMissingField, "q", "Search query is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	if s.searcher != nil {
		hits, err := s.searcher.SearchAdmissions(ctx, query, limit)
		if err == nil {
			return hits, nil
		}
		log.Warnf("[AdmissionService] 搜索引擎查询失败，降级为数据库查询: %v", err)
	}

	admissions, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		log.Errorf("[AdmissionService] 数据库检索失败: %v", err)
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	hits := make([]model.AdmissionSearchHit, 0, len(admissions))
	for _, a := range admissions {
		hits = append(hits, model.AdmissionSearchHit{
			ID:             a.ID,
			StudentName:    a.StudentName,
			ParentName:     a.ParentName,
			Contact:        a.Contact,
			BatchSelection: a.BatchSelection,
			Status:         string(a.Status),
			SubmittedAt:    model.LocalTime(a.SubmittedAt),
		})
	}
	return hits, nil
}

// publish 发布事件。失败只记录日志，不影响请求结果。
func (s *admissionService) publish(eventType tasks.AdmissionEventType, admission *model.Admission) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeoutSeconds*time.Second)
	defer cancel()
	if err := s.publisher.PublishAdmissionEvent(ctx, tasks.NewAdmissionEvent(eventType, admission)); err != nil {
		log.Errorf("[AdmissionService] 发布咨询事件失败, id: %d, type: %s, error: %v", admission.ID, eventType, err)
	}
}
