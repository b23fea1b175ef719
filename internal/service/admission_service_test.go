package service

import (
	"abhishek-coaching-go/internal/model"
	"abhishek-coaching-go/internal/repository"
	"abhishek-coaching-go/pkg/apperr"
	"abhishek-coaching-go/pkg/database"
	"abhishek-coaching-go/pkg/tasks"
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"
)

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

type recordingPublisher struct {
	mu     sync.Mutex
	events []tasks.AdmissionEvent
	err    error
}

func (p *recordingPublisher) PublishAdmissionEvent(_ context.Context, ev tasks.AdmissionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type stubSearcher struct {
	hits []model.AdmissionSearchHit
	err  error
	hit  bool
}

func (s *stubSearcher) SearchAdmissions(_ context.Context, _ string, _ int) ([]model.AdmissionSearchHit, error) {
	s.hit = true
	return s.hits, s.err
}

// brokenAdmissionRepo 模拟存储不可用。
type brokenAdmissionRepo struct {
	repository.AdmissionRepository
}

func (brokenAdmissionRepo) Create(context.Context, *model.Admission) error {
	return errors.New("connection refused")
}

func (brokenAdmissionRepo) FindAll(context.Context) ([]model.Admission, error) {
	return nil, errors.New("connection refused")
}

func (brokenAdmissionRepo) UpdateStatus(context.Context, uint, model.AdmissionStatus) (*model.Admission, error) {
	return nil, errors.New("timeout")
}

func TestAdmissionSubmitRoundTrip(t *testing.T) {
	repo := repository.NewAdmissionRepository(newTestDB(t))
	pub := &recordingPublisher{}
	svc := NewAdmissionService(repo, pub, nil)
	ctx := context.Background()

	created, err := svc.Submit(ctx, validInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected generated id")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != model.StatusPending {
		t.Fatalf("status: got=%s want=pending", got.Status)
	}
	if got.SubmittedAt.IsZero() {
		t.Fatalf("submittedAt should be set")
	}

	if len(pub.events) != 1 || pub.events[0].Type != tasks.EventAdmissionSubmitted || pub.events[0].Admission.ID != created.ID {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
}

func TestAdmissionSubmitRejectedIsNotPersisted(t *testing.T) {
	repo := repository.NewAdmissionRepository(newTestDB(t))
	pub := &recordingPublisher{}
	svc := NewAdmissionService(repo, pub, nil)
	ctx := context.Background()

	bad := []func(*AdmissionInput){
		func(in *AdmissionInput) { in.StudentName = "" },
		func(in *AdmissionInput) { in.Contact = "12345" },
		func(in *AdmissionInput) { in.ConsentGiven = boolPtr(false) },
		func(in *AdmissionInput) { in.ConsentGiven = nil },
		func(in *AdmissionInput) { in.Address = "" },
	}
	for i, mutate := range bad {
		in := validInput()
		mutate(&in)
		if _, err := svc.Submit(ctx, in); !apperr.IsValidation(err) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("rejected submissions were persisted: %d", len(all))
	}
	if len(pub.events) != 0 {
		t.Fatalf("rejected submissions should not publish events")
	}
}

func TestAdmissionResubmissionCreatesNewRecord(t *testing.T) {
	svc := NewAdmissionService(repository.NewAdmissionRepository(newTestDB(t)), nil, nil)
	ctx := context.Background()

	first, err := svc.Submit(ctx, validInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second, err := svc.Submit(ctx, validInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("resubmission should create an independent record")
	}
}

func TestAdmissionSetStatus(t *testing.T) {
	repo := repository.NewAdmissionRepository(newTestDB(t))
	pub := &recordingPublisher{}
	svc := NewAdmissionService(repo, pub, nil)
	ctx := context.Background()

	created, err := svc.Submit(ctx, validInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	for i := 0; i < 2; i++ {
		updated, err := svc.SetStatus(ctx, created.ID, "enrolled")
		if err != nil {
			t.Fatalf("SetStatus #%d: %v", i+1, err)
		}
		if updated.Status != model.StatusEnrolled {
			t.Fatalf("SetStatus #%d: got=%s", i+1, updated.Status)
		}
	}

	// 任意状态之间都可以切换
	for _, s := range []string{"rejected", "pending", "contacted", "enrolled"} {
		if _, err := svc.SetStatus(ctx, created.ID, s); err != nil {
			t.Fatalf("SetStatus(%s): %v", s, err)
		}
	}

	if _, err := svc.SetStatus(ctx, created.ID+42, "contacted"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("unknown id: expected NotFound, got %v", err)
	}
	if _, err := svc.SetStatus(ctx, created.ID, "archived"); !apperr.Is(err, apperr.KindInvalidEnum) {
		t.Fatalf("fifth status: expected InvalidEnum, got %v", err)
	}
	if _, err := svc.SetStatus(ctx, created.ID, " rejected "); !apperr.Is(err, apperr.KindInvalidEnum) {
		t.Fatalf("padded status: expected InvalidEnum, got %v", err)
	}

	got, _ := svc.Get(ctx, created.ID)
	if got.Status != model.StatusEnrolled {
		t.Fatalf("rejected update changed the record: %s", got.Status)
	}

	statusEvents := 0
	for _, ev := range pub.events {
		if ev.Type == tasks.EventAdmissionStatusChanged {
			statusEvents++
		}
	}
	if statusEvents != 6 {
		t.Fatalf("status events: got=%d want=6", statusEvents)
	}
}

func TestAdmissionPublishFailureDoesNotFailRequest(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewAdmissionService(repository.NewAdmissionRepository(newTestDB(t)), pub, nil)

	if _, err := svc.Submit(context.Background(), validInput()); err != nil {
		t.Fatalf("Submit should succeed when publishing fails: %v", err)
	}
}

func TestAdmissionStoreUnavailable(t *testing.T) {
	svc := NewAdmissionService(brokenAdmissionRepo{}, nil, nil)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, validInput()); !apperr.Is(err, apperr.KindStoreUnavailable) {
		t.Fatalf("Submit: expected StoreUnavailable, got %v", err)
	}
	if _, err := svc.List(ctx); !apperr.Is(err, apperr.KindStoreUnavailable) {
		t.Fatalf("List: expected StoreUnavailable, got %v", err)
	}
	if _, err := svc.SetStatus(ctx, 1, "contacted"); !apperr.Is(err, apperr.KindStoreUnavailable) {
		t.Fatalf("SetStatus: expected StoreUnavailable, got %v", err)
	}
}

func TestAdmissionSearch(t *testing.T) {
	repo := repository.NewAdmissionRepository(newTestDB(t))
	ctx := context.Background()

	seedSvc := NewAdmissionService(repo, nil, nil)
	if _, err := seedSvc.Submit(ctx, validInput()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	searcher := &stubSearcher{hits: []model.AdmissionSearchHit{{ID: 99, StudentName: "from index"}}}
	svc := NewAdmissionService(repo, nil, searcher)
	hits, err := svc.Search(ctx, "asha", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !searcher.hit || len(hits) != 1 || hits[0].ID != 99 {
		t.Fatalf("expected results from the search index, got %+v", hits)
	}

	failing := &stubSearcher{err: errors.New("es down")}
	svc = NewAdmissionService(repo, nil, failing)
	hits, err = svc.Search(ctx, "ASHA", 0)
	if err != nil {
		t.Fatalf("Search fallback: %v", err)
	}
	if len(hits) != 1 || hits[0].StudentName != "Asha Kumari" {
		t.Fatalf("fallback results: %+v", hits)
	}

	if _, err := svc.Search(ctx, "  ", 0); !apperr.Is(err, apperr.KindMissingField) {
		t.Fatalf("blank query: expected MissingField, got %v", err)
	}
}
