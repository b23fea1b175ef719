package service

import (
	"abhishek-coaching-go/internal/model"
	"abhishek-coaching-go/internal/repository"
	"abhishek-coaching-go/pkg/log"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	seedTiming   = "4 PM – 9 PM"
	seedLocation = "Abhishek Coaching Classes"
)

func seedCourses() []model.Course {
	return []model.Course{
		{
			Name:        "Lakshya 90",
			Description: "CBSE Class 10 Special Batch - Complete syllabus coverage with regular assessments",
			Fee:         6000,
			Duration:    "1 Year",
			Features:    []string{"Complete CBSE syllabus coverage", "Regular assessments", "Doubt clearing sessions", "One-time payment"},
		},
		{
			Name:        "Sankalp",
			Description: "Navodaya Vidyalaya Preparation - Specialized coaching for entrance exams",
			Fee:         15000,
			Duration:    "1-3 Years",
			Features:    []string{"Class 3 Entry: ₹15,000 (3 years)", "Class 4 Entry: ₹13,000 (2 years)", "Class 5 Entry: ₹8,000 (1 year)", "Specialized preparation"},
		},
		{
			Name:        "MIT30",
			Description: "Spoken English Mastery - Intensive 3-month course for English fluency",
			Fee:         1499,
			Duration:    "3 Months",
			Features:    []string{"3 months intensive course", "Practical speaking sessions", "Grammar fundamentals", "One-time payment"},
		},
		{
			Name:        "MIB 1.0",
			Description: "Biology NCERT Mastery - Complete coverage of Class 11 & 12 Biology",
			Fee:         4000,
			Duration:    "Flexible",
			Features:    []string{"Class 11 & 12 Biology", "Complete NCERT coverage", "Monthly or one-time payment", "Conceptual clarity"},
		},
	}
}

func seedEvents() []model.Event {
	day := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	return []model.Event{
		{
			Title:       "Winter Olympiad 2024",
			Description: "Join our annual Winter Olympiad competition for students of all classes. Test your knowledge and win exciting prizes!",
			Date:        day("2024-12-15"),
			Fee:         200,
		},
		{
			Title:       "Parent-Teacher Meeting",
			Description: "Monthly parent-teacher meeting to discuss student progress and address any concerns.",
			Date:        day("2024-12-20"),
			Fee:         0,
		},
		{
			Title:       "Mock Test Series Launch",
			Description: "Introduction to our comprehensive mock test series for board exam preparation.",
			Date:        day("2024-12-25"),
			Fee:         300,
		},
	}
}

func seedResources() []model.Resource {
	return []model.Resource{
		{Title: "CBSE Class 10 Mathematics Notes", Description: "Comprehensive notes covering all chapters of CBSE Class 10 Mathematics syllabus", Category: "notes"},
		{Title: "Sample Paper - Mathematics Class 10", Description: "Latest CBSE sample paper for Mathematics Class 10 with marking scheme", Category: "sample-papers"},
		{Title: "Navodaya Vidyalaya Syllabus", Description: "Complete syllabus for Navodaya Vidyalaya entrance examination", Category: "syllabus"},
		{Title: "Important Announcement - Mock Tests", Description: "Schedule and guidelines for upcoming mock test series", Category: "announcements"},
		{Title: "Biology NCERT Solutions", Description: "Detailed solutions for NCERT Biology textbook questions", Category: "notes"},
	}
}

// Seeder 导入初始课程、活动和资料。按名称或标题判断是否已存在，可重复执行。
type Seeder struct {
	courses   repository.CourseRepository
	events    repository.EventRepository
	resources repository.ResourceRepository
}

// NewSeeder 创建一个新的 Seeder 实例。
func NewSeeder(courses repository.CourseRepository, events repository.EventRepository, resources repository.ResourceRepository) *Seeder {
	return &Seeder{courses: courses, events: events, resources: resources}
}

// exists 把"未找到"视为不存在，其他错误原样返回。
func exists(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// Run 导入缺失的初始数据，返回新建的记录数。
func (s *Seeder) Run(ctx context.Context) (int, error) {
	created := 0

	for _, c := range seedCourses() {
		_, err := s.courses.FindByName(ctx, c.Name)
		found, err := exists(err)
		if err != nil {
			return created, err
		}
		if found {
			continue
		}
		course := c
		course.Timing = seedTiming
		course.IsActive = true
		if err := s.courses.Create(ctx, &course); err != nil {
			return created, err
		}
		created++
		log.Infof("[Seeder] 课程 \"%s\" 已创建", course.Name)
	}

	for _, e := range seedEvents() {
		_, err := s.events.FindByTitle(ctx, e.Title)
		found, err := exists(err)
		if err != nil {
			return created, err
		}
		if found {
			continue
		}
		event := e
		event.Location = seedLocation
		event.IsActive = true
		if err := s.events.Create(ctx, &event); err != nil {
			return created, err
		}
		created++
		log.Infof("[Seeder] 活动 \"%s\" 已创建", event.Title)
	}

	for _, r := range seedResources() {
		_, err := s.resources.FindByTitle(ctx, r.Title)
		found, err := exists(err)
		if err != nil {
			return created, err
		}
		if found {
			continue
		}
		resource := r
		resource.FileType = "pdf"
		resource.FileURL = "#"
		resource.IsActive = true
		if err := s.resources.Create(ctx, &resource); err != nil {
			return created, err
		}
		created++
		log.Infof("[Seeder] 资料 \"%s\" 已创建", resource.Title)
	}

	return created, nil
}
