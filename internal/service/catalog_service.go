package service

import (
	"abhishek-coaching-go/internal/model"
	"abhishek-coaching-go/internal/repository"
	"abhishek-coaching-go/pkg/apperr"
	"abhishek-coaching-go/pkg/log"
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// CourseInput 是创建或更新课程的请求体。
type CourseInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Fee         int      `json:"fee" binding:"min=0"`
	Duration    string   `json:"duration" binding:"required"`
	Timing      string   `json:"timing" binding:"required"`
	IsActive    *bool    `json:"isActive"`
	Features    []string `json:"features"`
}

// CourseService 接口定义了课程相关的业务操作。
type CourseService interface {
	List(ctx context.Context) ([]model.Course, error)
	Get(ctx context.Context, id uint) (*model.Course, error)
	Create(ctx context.Context, in CourseInput) (*model.Course, error)
	Update(ctx context.Context, id uint, in CourseInput) (*model.Course, error)
	Delete(ctx context.Context, id uint) error
}

type courseService struct {
	repo repository.CourseRepository
}

// NewCourseService 创建一个新的 CourseService 实例。
func NewCourseService(repo repository.CourseRepository) CourseService {
	return &courseService{repo: repo}
}

func (in CourseInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.New(apperr.KindMissingField, "name", "Course name is required")
	}
	if in.Fee < 0 {
		return apperr.New(apperr.KindInvalidFormat, "fee", "Fee cannot be negative")
	}
	return nil
}

func (in CourseInput) apply(c *model.Course) {
	c.Name = strings.TrimSpace(in.Name)
	c.Description = strings.TrimSpace(in.Description)
	c.Fee = in.Fee
	c.Duration = strings.TrimSpace(in.Duration)
	c.Timing = strings.TrimSpace(in.Timing)
	c.Features = in.Features
	if c.Features == nil {
		c.Features = []string{}
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
}

func (s *courseService) List(ctx context.Context) ([]model.Course, error) {
	courses, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, nil
}

func (s *courseService) Get(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Course not found")
	}
	return course, nil
}

// Create 新建课程，课程名不能重复。
func (s *courseService) Create(ctx context.Context, in CourseInput) (*model.Course, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, strings.TrimSpace(in.Name), 0); err != nil {
		return nil, err
	}

	course := &model.Course{IsActive: true}
	in.apply(course)
	if err := s.repo.Create(ctx, course); err != nil {
		log.Errorf("[CourseService] 创建课程失败: %v", err)
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	return course, nil
}

func (s *courseService) Update(ctx context.Context, id uint, in CourseInput) (*model.Course, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Course not found")
	}
	if err := s.ensureNameFree(ctx, strings.TrimSpace(in.Name), id); err != nil {
		return nil, err
	}

	in.apply(course)
	if err := s.repo.Update(ctx, course); err != nil {
		log.Errorf("[CourseService] 更新课程失败, id: %d, error: %v", id, err)
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return storeError(err, "Course not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	return nil
}

// ensureNameFree 检查课程名未被其他课程占用，selfID 为当前课程自身。
func (s *courseService) ensureNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err == nil && existing.ID != selfID {
		return apperr.New(apperr.KindConflict, "name", "Course already exists")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	return nil
}

// EventInput 是创建或更新活动的请求体。Date 接受 RFC3339 或 YYYY-MM-DD。
type EventInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Fee         int    `json:"fee" binding:"min=0"`
	IsActive    *bool  `json:"isActive"`
}

// ParseEventDate 解析活动日期。
func ParseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperr.New(apperr.KindInvalidFormat, "date", "Date must be YYYY-MM-DD or RFC3339")
	}
	return t, nil
}

// EventService 接口定义了活动相关的业务操作。
type EventService interface {
	List(ctx context.Context) ([]model.Event, error)
	Get(ctx context.Context, id uint) (*model.Event, error)
	Create(ctx context.Context, in EventInput) (*model.Event, error)
	Update(ctx context.Context, id uint, in EventInput) (*model.Event, error)
	Delete(ctx context.Context, id uint) error
}

type eventService struct {
	repo repository.EventRepository
}

// NewEventService 创建一个新的 EventService 实例。
func NewEventService(repo repository.EventRepository) EventService {
	return &eventService{repo: repo}
}

func (in EventInput) toModel(e *model.Event) error {
	if strings.TrimSpace(in.Title) == "" {
		return apperr.New(apperr.KindMissingField, "title", "Event title is required")
	}
	if in.Fee < 0 {
		return apperr.New(apperr.KindInvalidFormat, "fee", "Fee cannot be negative")
	}
	date, err := ParseEventDate(in.Date)
	if err != nil {
		return err
	}
	e.Title = strings.TrimSpace(in.Title)
	e.Description = strings.TrimSpace(in.Description)
	e.Date = date
	e.Location = strings.TrimSpace(in.Location)
	e.Fee = in.Fee
	if in.IsActive != nil {
		e.IsActive = *in.IsActive
	}
	return nil
}

func (s *eventService) List(ctx context.Context) ([]model.Event, error) {
	events, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

func (s *eventService) Get(ctx context.Context, id uint) (*model.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Event not found")
	}
	return event, nil
}

func (s *eventService) Create(ctx context.Context, in EventInput) (*model.Event, error) {
	event := &model.Event{IsActive: true}
	if err := in.toModel(event); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, event); err != nil {
		log.Errorf("[EventService] 创建活动失败: %v", err)
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, id uint, in EventInput) (*model.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Event not found")
	}
	if err := in.toModel(event); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, event); err != nil {
		log.Errorf("[EventService] 更新活动失败, id: %d, error: %v", id, err)
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return storeError(err, "Event not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	return nil
}
