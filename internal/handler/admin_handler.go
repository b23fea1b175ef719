package handler

import (
	"abhishek-coaching-go/internal/middleware"
	"abhishek-coaching-go/internal/service"
	"abhishek-coaching-go/pkg/log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminHandler 负责处理所有与管理员相关的 API 请求。
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler 创建一个新的 AdminHandler 实例。
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// LoginRequest 定义了管理员登录 API 的请求体结构。
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理管理员登录请求。
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Login: Invalid request payload, error: %v", err)
		respondBadRequest(c, "Username and password are required")
		return
	}

	tokenString, admin, err := h.adminService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, "Login", err)
		return
	}
	respondOK(c, http.StatusOK, "Login successful", gin.H{
		"token": tokenString,
		"admin": gin.H{"id": admin.ID, "username": admin.Username},
	})
}

// Logout 使当前 token 失效。
func (h *AdminHandler) Logout(c *gin.Context) {
	if err := h.adminService.Logout(c.Request.Context(), middleware.Token(c)); err != nil {
		respondError(c, "Logout", err)
		return
	}
	respondOK(c, http.StatusOK, "Logged out", nil)
}

// Me 返回当前登录的管理员信息。
func (h *AdminHandler) Me(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "Unauthorized"})
		return
	}
	admin, err := h.adminService.Me(c.Request.Context(), claims.AdminID)
	if err != nil {
		respondError(c, "Me", err)
		return
	}
	respondOK(c, http.StatusOK, "success", admin)
}

// Dashboard 返回后台首页的统计数据。
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, "Dashboard", err)
		return
	}
	respondOK(c, http.StatusOK, "success", stats)
}

// ResetPasswordRequest 是重置管理员密码的请求体。
type ResetPasswordRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Key      string `json:"key"`
}

// ResetPassword 凭部署密钥重置管理员密码。
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Username and password are required")
		return
	}
	if err := h.adminService.ResetPassword(c.Request.Context(), req.Username, req.Password, req.Key); err != nil {
		respondError(c, "ResetPassword", err)
		return
	}
	respondOK(c, http.StatusOK, "Password reset successfully", nil)
}
