package handler

import (
	"abhishek-coaching-go/pkg/token"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func newJWT() *token.JWTManager {
	return token.NewJWTManager("handler-test-secret", 1)
}

func TestAdminLoginLogout(t *testing.T) {
	s := newTestServer(t)

	if rr := s.do(t, http.MethodPost, "/api/admin/login", "", gin.H{"username": "admin", "password": "wrong"}); rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: got=%d want=%d", rr.Code, http.StatusUnauthorized)
	}
	if rr := s.do(t, http.MethodPost, "/api/admin/login", "", gin.H{"username": "admin"}); rr.Code != http.StatusBadRequest {
		t.Fatalf("missing password: got=%d want=%d", rr.Code, http.StatusBadRequest)
	}

	tok := s.login(t)
	rr := s.do(t, http.MethodGet, "/api/admin/me", tok, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("me: got=%d body=%s", rr.Code, rr.Body.String())
	}
	var me struct {
		Data struct {
			Username string `json:"username"`
			Password string `json:"password"`
		} `json:"data"`
	}
	decode(t, rr, &me)
	if me.Data.Username != "admin" || me.Data.Password != "" {
		t.Fatalf("unexpected profile: %+v", me.Data)
	}

	if rr := s.do(t, http.MethodPost, "/api/admin/logout", tok, nil); rr.Code != http.StatusOK {
		t.Fatalf("logout: got=%d body=%s", rr.Code, rr.Body.String())
	}
	if rr := s.do(t, http.MethodGet, "/api/admin/me", tok, nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: got=%d want=%d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAdminDashboard(t *testing.T) {
	s := newTestServer(t)
	if rr := s.do(t, http.MethodPost, "/api/admissions", "", validEnquiry()); rr.Code != http.StatusCreated {
		t.Fatalf("submit: got=%d", rr.Code)
	}

	rr := s.do(t, http.MethodGet, "/api/admin/dashboard", s.login(t), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard: got=%d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Data struct {
			Admissions      map[string]int64 `json:"admissions"`
			TotalAdmissions int64            `json:"totalAdmissions"`
		} `json:"data"`
	}
	decode(t, rr, &resp)
	if resp.Data.TotalAdmissions != 1 || resp.Data.Admissions["pending"] != 1 || resp.Data.Admissions["enrolled"] != 0 {
		t.Fatalf("unexpected dashboard: %+v", resp.Data)
	}
}

func TestAdminResetPassword(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name string
		body gin.H
		want int
	}{
		{"wrong key", gin.H{"username": "admin", "password": "newpass1", "key": "nope"}, http.StatusForbidden},
		{"short password", gin.H{"username": "admin", "password": "123", "key": "setup-key"}, http.StatusBadRequest},
		{"unknown admin", gin.H{"username": "ghost", "password": "newpass1", "key": "setup-key"}, http.StatusNotFound},
		{"ok", gin.H{"username": "admin", "password": "newpass1", "key": "setup-key"}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rr := s.do(t, http.MethodPost, "/api/admin/reset-password", "", tc.body); rr.Code != tc.want {
				t.Fatalf("status: got=%d want=%d body=%s", rr.Code, tc.want, rr.Body.String())
			}
		})
	}

	rr := s.do(t, http.MethodPost, "/api/admin/login", "", gin.H{"username": "admin", "password": "newpass1"})
	if rr.Code != http.StatusOK {
		t.Fatalf("login with new password: got=%d", rr.Code)
	}
}
