package handler

import (
	"abhishek-coaching-go/internal/chatbot"
	"abhishek-coaching-go/internal/config"
	"abhishek-coaching-go/internal/repository"
	"abhishek-coaching-go/internal/service"
	"abhishek-coaching-go/pkg/database"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(database.MemoryDSN)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	admissionRepo := repository.NewAdmissionRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	eventRepo := repository.NewEventRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	blacklist := repository.NewMemoryTokenBlacklist()
	jwtManager := newJWT()

	adminService := service.NewAdminService(service.AdminDeps{
		Admins:     repository.NewAdminRepository(db),
		Admissions: admissionRepo,
		Courses:    courseRepo,
		Events:     eventRepo,
		Resources:  resourceRepo,
		Blacklist:  blacklist,
		JWT:        jwtManager,
		SetupKey:   "setup-key",
	})
	if err := adminService.EnsureDefaultAdmin(context.Background(), "admin", "admin123", "admin@example.com"); err != nil {
		t.Fatalf("EnsureDefaultAdmin: %v", err)
	}

	chatService := service.NewChatService(chatbot.NewMatcher(nil), 10*time.Millisecond)
	r := NewRouter(RouterDeps{
		Admissions: NewAdmissionHandler(service.NewAdmissionService(admissionRepo, nil, nil)),
		Courses:    NewCourseHandler(service.NewCourseService(courseRepo)),
		Events:     NewEventHandler(service.NewEventService(eventRepo)),
		Resources:  NewResourceHandler(service.NewResourceService(resourceRepo, nil, config.UploadConfig{}), 0),
		Admin:      NewAdminHandler(adminService),
		Chat:       NewChatHandler(chatService, nil),
		JWT:        jwtManager,
		Blacklist:  blacklist,
	})
	return &testServer{router: r, db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/api/admin/login", "", gin.H{"username": "admin", "password": "admin123"})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: got=%d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	decode(t, rr, &resp)
	if resp.Data.Token == "" {
		t.Fatalf("login returned empty token")
	}
	return resp.Data.Token
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", rr.Body.String(), err)
	}
}

func validEnquiry() gin.H {
	return gin.H{
		"studentName":           "Aarav Sharma",
		"studentClass":          "Class 10",
		"batchSelection":        "Lakshya 90",
		"parentName":            "Rakesh Sharma",
		"contact":               "9876543210",
		"address":               "12 MG Road, Patna",
		"mockTestParticipation": true,
		"consentGiven":          true,
	}
}
