package handler

import (
	"abhishek-coaching-go/internal/service"
	"abhishek-coaching-go/pkg/log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CourseHandler 负责处理课程相关的 API 请求。
type CourseHandler struct {
	courseService service.CourseService
}

// NewCourseHandler 创建一个新的 CourseHandler 实例。
func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// List 返回所有上架的课程。
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context())
	if err != nil {
		respondError(c, "ListCourses", err)
		return
	}
	respondOK(c, http.StatusOK, "success", courses)
}

func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "Course not found")
	if !ok {
		return
	}
	course, err := h.courseService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetCourse", err)
		return
	}
	respondOK(c, http.StatusOK, "success", course)
}

func (h *CourseHandler) Create(c *gin.Context) {
	var in service.CourseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		log.Warnf("CreateCourse: Invalid request payload, error: %v", err)
		respondBadRequest(c, "Name, description, duration and timing are required")
		return
	}
	course, err := h.courseService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, "CreateCourse", err)
		return
	}
	respondOK(c, http.StatusCreated, "Course created", course)
}

// Update 整体替换课程信息。
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "Course not found")
	if !ok {
		return
	}
	var in service.CourseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "Name, description, duration and timing are required")
		return
	}
	course, err := h.courseService.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, "UpdateCourse", err)
		return
	}
	respondOK(c, http.StatusOK, "Course updated", course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "Course not found")
	if !ok {
		return
	}
	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "DeleteCourse", err)
		return
	}
	respondOK(c, http.StatusOK, "Course deleted", nil)
}

// EventHandler 负责处理活动相关的 API 请求。
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler 创建一个新的 EventHandler 实例。
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List 返回所有上架的活动，按日期升序。
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventService.List(c.Request.Context())
	if err != nil {
		respondError(c, "ListEvents", err)
		return
	}
	respondOK(c, http.StatusOK, "success", events)
}

func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "Event not found")
	if !ok {
		return
	}
	event, err := h.eventService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetEvent", err)
		return
	}
	respondOK(c, http.StatusOK, "success", event)
}

func (h *EventHandler) Create(c *gin.Context) {
	var in service.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		log.Warnf("CreateEvent: Invalid request payload, error: %v", err)
		respondBadRequest(c, "Title, description, date and location are required")
		return
	}
	event, err := h.eventService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, "CreateEvent", err)
		return
	}
	respondOK(c, http.StatusCreated, "Event created", event)
}

func (h *EventHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "Event not found")
	if !ok {
		return
	}
	var in service.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "Title, description, date and location are required")
		return
	}
	event, err := h.eventService.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, "UpdateEvent", err)
		return
	}
	respondOK(c, http.StatusOK, "Event updated", event)
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "Event not found")
	if !ok {
		return
	}
	if err := h.eventService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "DeleteEvent", err)
		return
	}
	respondOK(c, http.StatusOK, "Event deleted", nil)
}
