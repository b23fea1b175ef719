package service

import (
	"abhishek-coaching-go/internal/metrics"
	"abhishek-coaching-go/internal/model"
	"abhishek-coaching-go/internal/repository"
	"abhishek-coaching-go/pkg/apperr"
	"abhishek-coaching-go/pkg/hash"
	"abhishek-coaching-go/pkg/log"
	"abhishek-coaching-go/pkg/token"
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

const minPasswordLength = 6

// DashboardStats 是管理后台首页的统计数据。
type DashboardStats struct {
	Admissions      map[model.AdmissionStatus]int64 `json:"admissions"`
	TotalAdmissions int64                           `json:"totalAdmissions"`
	Courses         int64                           `json:"courses"`
	Events          int64                           `json:"events"`
	Resources       int64                           `json:"resources"`
}

// AdminService 接口定义了所有管理员相关的业务操作。
type AdminService interface {
	Login(ctx context.Context, username, password string) (string, *model.Admin, error)
	Logout(ctx context.Context, tokenString string) error
	Me(ctx context.Context, adminID uint) (*model.Admin, error)
	Dashboard(ctx context.Context) (*DashboardStats, error)
	ResetPassword(ctx context.Context, username, newPassword, setupKey string) error
	EnsureDefaultAdmin(ctx context.Context, username, password, email string) error
}

// adminService 是 AdminService 接口的实现。
type adminService struct {
	adminRepo     repository.AdminRepository
	admissionRepo repository.AdmissionRepository
	courseRepo    repository.CourseRepository
	eventRepo     repository.EventRepository
	resourceRepo  repository.ResourceRepository
	blacklist     repository.TokenBlacklist
	jwtManager    *token.JWTManager
	setupKey      string
}

// AdminDeps 汇总 AdminService 的依赖。
type AdminDeps struct {
	Admins     repository.AdminRepository
	Admissions repository.AdmissionRepository
	Courses    repository.CourseRepository
	Events     repository.EventRepository
	Resources  repository.ResourceRepository
	Blacklist  repository.TokenBlacklist
	JWT        *token.JWTManager
	SetupKey   string
}

// NewAdminService 创建一个新的 AdminService 实例。
func NewAdminService(deps AdminDeps) AdminService {
	return &adminService{
		adminRepo:     deps.Admins,
		admissionRepo: deps.Admissions,
		courseRepo:    deps.Courses,
		eventRepo:     deps.Events,
		resourceRepo:  deps.Resources,
		blacklist:     deps.Blacklist,
		jwtManager:    deps.JWT,
		setupKey:      deps.SetupKey,
	}
}

// Login 校验用户名和密码并签发 token。
func (s *adminService) Login(ctx context.Context, username, password string) (string, *model.Admin, error) {
	invalid := apperr.New(apperr.KindUnauthorized, "", "Invalid credentials")

	admin, err := s.adminRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		metrics.RecordAdminLogin(false)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, invalid
		}
		return "", nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	if !hash.CheckPasswordHash(password, admin.Password) {
		metrics.RecordAdminLogin(false)
		return "", nil, invalid
	}

	tokenString, err := s.jwtManager.GenerateToken(admin.ID, admin.Username, admin.Role)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	metrics.RecordAdminLogin(true)
	log.Infow("管理员登录", "username", admin.Username)
	return tokenString, admin, nil
}

// Logout 把 token 加入黑名单，直到它自然过期。
func (s *adminService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwtManager.VerifyToken(tokenString)
	if err != nil {
		return apperr.New(apperr.KindUnauthorized, "", "Invalid token")
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.Add(ctx, tokenString, ttl); err != nil {
		log.Errorf("[AdminService] 写入 token 黑名单失败: %v", err)
		return apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	log.Infow("管理员登出", "username", claims.Username)
	return nil
}

func (s *adminService) Me(ctx context.Context, adminID uint) (*model.Admin, error) {
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return nil, storeError(err, "Admin not found")
	}
	return admin, nil
}

// Dashboard 汇总各类记录的数量。
func (s *adminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	byStatus, err := s.admissionRepo.CountByStatus(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	stats := &DashboardStats{Admissions: byStatus}
	for _, n := range byStatus {
		stats.TotalAdmissions += n
	}

	counters := []struct {
		count func(context.Context) (int64, error)
		dst   *int64
	}{
		{s.courseRepo.Count, &stats.Courses},
		{s.eventRepo.Count, &stats.Events},
		{s.resourceRepo.Count, &stats.Resources},
	}
	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
		}
		*c.dst = n
	}
	return stats, nil
}

// ResetPassword 使用部署时配置的密钥重置管理员密码。未配置密钥时该功能关闭。
func (s *adminService) ResetPassword(ctx context.Context, username, newPassword, setupKey string) error {
	if s.setupKey == "" {
		return apperr.New(apperr.KindForbidden, "", "Password reset is disabled")
	}
	if subtle.ConstantTimeCompare([]byte(setupKey), []byte(s.setupKey)) != 1 {
		return apperr.New(apperr.KindForbidden, "key", "Invalid setup key")
	}
	if len(newPassword) < minPasswordLength {
		return apperr.New(apperr.KindBadRequest, "password", "Password must be at least 6 characters")
	}

	admin, err := s.adminRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return storeError(err, "Admin not found")
	}
	hashed, err := hash.HashPassword(newPassword)
	if err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	admin.Password = hashed
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, msgServerError, err)
	}
	log.Infow("管理员密码已重置", "username", admin.Username)
	return nil
}

// EnsureDefaultAdmin 在管理员不存在时创建它，已存在时不做任何修改。
func (s *adminService) EnsureDefaultAdmin(ctx context.Context, username, password, email string) error {
	_, err := s.adminRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if password == "" {
		return errors.New("default admin password is empty")
	}

	hashed, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &model.Admin{
		Username: username,
		Email:    email,
		Password: hashed,
		Role:     model.RoleAdmin,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return err
	}
	log.Warnf("已创建默认管理员 '%s'，请尽快修改密码", username)
	return nil
}
