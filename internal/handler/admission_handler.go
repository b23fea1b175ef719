package handler

import (
	"abhishek-coaching-go/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AdmissionHandler 负责处理入学咨询相关的 API 请求。
type AdmissionHandler struct {
	admissionService service.AdmissionService
}

// NewAdmissionHandler 创建一个新的 AdmissionHandler 实例。
func NewAdmissionHandler(admissionService service.AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{admissionService: admissionService}
}

// Submit 处理访客提交的入学咨询。
func (h *AdmissionHandler) Submit(c *gin.Context) {
	var in service.AdmissionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, "Submit", err)
		return
	}

	admission, err := h.admissionService.Submit(c.Request.Context(), in)
	if err != nil {
		respondError(c, "Submit", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":        http.StatusCreated,
		"message":     "Admission enquiry submitted successfully!",
		"admissionId": admission.ID,
	})
}

// List 返回全部咨询，最新的在前。
func (h *AdmissionHandler) List(c *gin.Context) {
	admissions, err := h.admissionService.List(c.Request.Context())
	if err != nil {
		respondError(c, "ListAdmissions", err)
		return
	}
	respondOK(c, http.StatusOK, "success", admissions)
}

// Get 返回单条咨询。
func (h *AdmissionHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "Admission not found")
	if !ok {
		return
	}
	admission, err := h.admissionService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetAdmission", err)
		return
	}
	respondOK(c, http.StatusOK, "success", admission)
}

// UpdateStatusRequest 是更新咨询状态的请求体。
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus 处理管理员修改咨询状态的请求。
func (h *AdmissionHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "Admission not found")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "UpdateStatus", err)
		return
	}

	admission, err := h.admissionService.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, "UpdateStatus", err)
		return
	}
	respondOK(c, http.StatusOK, "Status updated", admission)
}

// Search 按关键字检索咨询，limit 可选。
func (h *AdmissionHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	hits, err := h.admissionService.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, "SearchAdmissions", err)
		return
	}
	respondOK(c, http.StatusOK, "success", hits)
}
