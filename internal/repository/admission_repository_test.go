package repository

import (
	"abhishek-coaching-go/internal/model"
	"abhishek-coaching-go/pkg/database"
	"context"
	"errors"
	"testing"
	"time"

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

func sampleAdmission(name string, submittedAt time.Time) *model.Admission {
	return &model.Admission{
		StudentName:    name,
		StudentClass:   "Class 10",
		BatchSelection: "Lakshya 90",
		ParentName:     "Parent of " + name,
		Contact:        "9876543210",
		Address:        "Main Road, Patna",
		ConsentGiven:   true,
		Status:         model.StatusPending,
		SubmittedAt:    submittedAt,
	}
}

func TestAdmissionRepositoryCreateAndFind(t *testing.T) {
	repo := NewAdmissionRepository(newTestDB(t))
	ctx := context.Background()

	a := sampleAdmission("Asha", time.Now())
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == 0 {
		t.Fatalf("expected generated id")
	}

	got, err := repo.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.StudentName != "Asha" || got.Status != model.StatusPending {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := repo.FindByID(ctx, a.ID+100); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestAdmissionRepositoryUpdateStatusIsIdempotent(t *testing.T) {
	repo := NewAdmissionRepository(newTestDB(t))
	ctx := context.Background()

	a := sampleAdmission("Ravi", time.Now())
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 2; i++ {
		updated, err := repo.UpdateStatus(ctx, a.ID, model.StatusEnrolled)
		if err != nil {
			t.Fatalf("UpdateStatus #%d: %v", i+1, err)
		}
		if updated.Status != model.StatusEnrolled {
			t.Fatalf("UpdateStatus #%d: got=%s want=%s", i+1, updated.Status, model.StatusEnrolled)
		}
	}

	stored, err := repo.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Status != model.StatusEnrolled {
		t.Fatalf("stored status: got=%s want=%s", stored.Status, model.StatusEnrolled)
	}

	if _, err := repo.UpdateStatus(ctx, 9999, model.StatusContacted); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for unknown id, got %v", err)
	}
}

func TestAdmissionRepositoryFindAllNewestFirst(t *testing.T) {
	repo := NewAdmissionRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)

	for i, name := range []string{"first", "second", "third"} {
		if err := repo.Create(ctx, sampleAdmission(name, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	want := []string{"third", "second", "first"}
	if len(all) != len(want) {
		t.Fatalf("len: got=%d want=%d", len(all), len(want))
	}
	for i, name := range want {
		if all[i].StudentName != name {
			t.Fatalf("position %d: got=%s want=%s", i, all[i].StudentName, name)
		}
	}
}

func TestAdmissionRepositorySearchAndCount(t *testing.T) {
	repo := NewAdmissionRepository(newTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, sampleAdmission("Meera", time.Now())); err != nil {
		t.Fatalf("Create: %v", err)
	}
	other := sampleAdmission("Kunal", time.Now())
	other.Contact = "8123456789"
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.UpdateStatus(ctx, other.ID, model.StatusRejected); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	hits, err := repo.Search(ctx, "meera", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].StudentName != "Meera" {
		t.Fatalf("unexpected hits: %+v", hits)
	}

	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[model.StatusPending] != 1 || counts[model.StatusRejected] != 1 || counts[model.StatusEnrolled] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
