package handler

import (
	"abhishek-coaching-go/internal/model"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCourseEndpoints(t *testing.T) {
	s := newTestServer(t)
	course := gin.H{
		"name":        "Lakshya 90",
		"description": "CBSE Class 10 complete preparation",
		"fee":         6000,
		"duration":    "1 Year",
		"timing":      "4 PM – 9 PM",
		"features":    []string{"Weekly tests"},
	}

	if rr := s.do(t, http.MethodPost, "/api/courses", "", course); rr.Code != http.StatusUnauthorized {
		t.Fatalf("create without token: got=%d want=%d", rr.Code, http.StatusUnauthorized)
	}

	tok := s.login(t)
	rr := s.do(t, http.MethodPost, "/api/courses", tok, course)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got=%d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		Data model.Course `json:"data"`
	}
	decode(t, rr, &created)

	if rr := s.do(t, http.MethodPost, "/api/courses", tok, course); rr.Code != http.StatusConflict {
		t.Fatalf("duplicate: got=%d want=%d", rr.Code, http.StatusConflict)
	}
	if rr := s.do(t, http.MethodPost, "/api/courses", tok, gin.H{"name": "x"}); rr.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: got=%d want=%d", rr.Code, http.StatusBadRequest)
	}

	rr = s.do(t, http.MethodGet, "/api/courses", "", nil)
	var list struct {
		Data []model.Course `json:"data"`
	}
	decode(t, rr, &list)
	if len(list.Data) != 1 || list.Data[0].Name != "Lakshya 90" {
		t.Fatalf("unexpected course list: %+v", list.Data)
	}

	path := fmt.Sprintf("/api/courses/%d", created.Data.ID)
	if rr := s.do(t, http.MethodDelete, path, tok, nil); rr.Code != http.StatusOK {
		t.Fatalf("delete: got=%d", rr.Code)
	}
	if rr := s.do(t, http.MethodGet, path, "", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("get deleted: got=%d want=%d", rr.Code, http.StatusNotFound)
	}
}

func TestEventEndpoints(t *testing.T) {
	s := newTestServer(t)
	tok := s.login(t)

	rr := s.do(t, http.MethodPost, "/api/events", tok, gin.H{
		"title": "Winter Olympiad 2024", "description": "Olympiad for classes 3-10",
		"date": "2024-12-15", "location": "Centre", "fee": 200,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = s.do(t, http.MethodPost, "/api/events", tok, gin.H{
		"title": "Bad", "description": "d", "date": "15/12/2024", "location": "Centre",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad date: got=%d want=%d", rr.Code, http.StatusBadRequest)
	}

	rr = s.do(t, http.MethodGet, "/api/events", "", nil)
	var list struct {
		Data []model.Event `json:"data"`
	}
	decode(t, rr, &list)
	if len(list.Data) != 1 || list.Data[0].Title != "Winter Olympiad 2024" {
		t.Fatalf("unexpected events: %+v", list.Data)
	}
}

func TestResourceEndpoints(t *testing.T) {
	s := newTestServer(t)
	tok := s.login(t)

	rr := s.do(t, http.MethodPost, "/api/resources", tok, gin.H{
		"title": "NCERT Biology", "category": "notes", "fileUrl": "https://ncert.nic.in/textbook.php",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create link: got=%d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		Data model.Resource `json:"data"`
	}
	decode(t, rr, &created)
	if created.Data.FileType != model.FileTypeLink {
		t.Fatalf("file type: got=%s want=%s", created.Data.FileType, model.FileTypeLink)
	}

	rr = s.do(t, http.MethodGet, fmt.Sprintf("/api/resources/%d/download", created.Data.ID), "", nil)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "https://ncert.nic.in/textbook.php" {
		t.Fatalf("download: got=%d location=%q", rr.Code, rr.Header().Get("Location"))
	}

	rr = s.do(t, http.MethodGet, "/api/resources/category/notes", "", nil)
	var list struct {
		Data []model.Resource `json:"data"`
	}
	decode(t, rr, &list)
	if len(list.Data) != 1 {
		t.Fatalf("category list: got=%d items", len(list.Data))
	}
	if rr := s.do(t, http.MethodGet, "/api/resources/category/videos", "", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown category: got=%d want=%d", rr.Code, http.StatusBadRequest)
	}
}
