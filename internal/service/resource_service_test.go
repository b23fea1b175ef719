package service

import (
	"abhishek-coaching-go/internal/config"
	"abhishek-coaching-go/internal/model"
	"abhishek-coaching-go/internal/repository"
	"abhishek-coaching-go/pkg/apperr"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type memoryStorage struct {
	objects map[string][]byte
	putErr  error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (m *memoryStorage) Put(_ context.Context, objectName string, r io.Reader, _ int64, _ string) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[objectName] = data
	return nil
}

func (m *memoryStorage) Remove(_ context.Context, objectName string) error {
	delete(m.objects, objectName)
	return nil
}

func (m *memoryStorage) PresignedURL(_ context.Context, objectName, fileName string) (string, error) {
	return "https://files.example/" + objectName + "?name=" + fileName, nil
}

var testUploadConfig = config.UploadConfig{
	MaxSizeMB:         1,
	AllowedExtensions: []string{"pdf", "doc", "docx", "jpg", "jpeg", "png", "gif", "mp4", "avi", "mov"},
}

func upload(name string, size int) *FileUpload {
	return &FileUpload{
		Name:        name,
		Size:        int64(size),
		ContentType: "application/pdf",
		Body:        bytes.NewReader(make([]byte, size)),
	}
}

func TestResourceCreateWithFile(t *testing.T) {
	store := newMemoryStorage()
	svc := NewResourceService(repository.NewResourceRepository(newTestDB(t)), store, testUploadConfig)
	ctx := context.Background()

	res, err := svc.Create(ctx, ResourceInput{Title: "Algebra Notes", Category: "notes"}, upload("Algebra.PDF", 2048))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.FileType != "pdf" || res.FileName != "Algebra.PDF" || res.FileSize != 2048 || !res.HasObject() {
		t.Fatalf("unexpected resource: %+v", res)
	}
	if _, ok := store.objects[res.ObjectName]; !ok {
		t.Fatalf("object %q not stored", res.ObjectName)
	}
	if !strings.HasPrefix(res.ObjectName, "resources/") || !strings.HasSuffix(res.ObjectName, ".pdf") {
		t.Fatalf("unexpected object name: %s", res.ObjectName)
	}

	url, err := svc.DownloadURL(ctx, res.ID)
	if err != nil {
		t.Fatalf("DownloadURL: %v", err)
	}
	if !strings.Contains(url, res.ObjectName) {
		t.Fatalf("unexpected download url: %s", url)
	}
}

func TestResourceUploadRules(t *testing.T) {
	store := newMemoryStorage()
	svc := NewResourceService(repository.NewResourceRepository(newTestDB(t)), store, testUploadConfig)
	ctx := context.Background()
	in := ResourceInput{Title: "Paper", Category: "sample-papers"}

	if _, err := svc.Create(ctx, in, upload("virus.exe", 10)); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("bad extension: expected BadRequest, got %v", err)
	}
	if _, err := svc.Create(ctx, in, upload("big.pdf", 2<<20)); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("oversized file: expected BadRequest, got %v", err)
	}
	if len(store.objects) != 0 {
		t.Fatalf("rejected uploads must not be stored")
	}

	noStorage := NewResourceService(repository.NewResourceRepository(newTestDB(t)), nil, testUploadConfig)
	if _, err := noStorage.Create(ctx, in, upload("paper.pdf", 10)); !apperr.Is(err, apperr.KindStoreUnavailable) {
		t.Fatalf("no storage: expected StoreUnavailable, got %v", err)
	}

	store.putErr = errors.New("minio down")
	if _, err := svc.Create(ctx, in, upload("paper.pdf", 10)); !apperr.Is(err, apperr.KindStoreUnavailable) {
		t.Fatalf("storage failure: expected StoreUnavailable, got %v", err)
	}
}

func TestResourceLinkAndValidation(t *testing.T) {
	svc := NewResourceService(repository.NewResourceRepository(newTestDB(t)), nil, testUploadConfig)
	ctx := context.Background()

	link, err := svc.Create(ctx, ResourceInput{Title: "Syllabus", Category: "syllabus", FileURL: "https://cbse.gov.in/syllabus"}, nil)
	if err != nil {
		t.Fatalf("Create link: %v", err)
	}
	if link.FileType != model.FileTypeLink {
		t.Fatalf("fileType: got=%s want=link", link.FileType)
	}
	url, err := svc.DownloadURL(ctx, link.ID)
	if err != nil || url != "https://cbse.gov.in/syllabus" {
		t.Fatalf("DownloadURL: url=%s err=%v", url, err)
	}

	placeholder, err := svc.Create(ctx, ResourceInput{Title: "Notes", Category: "notes", FileType: "pdf", FileURL: "#"}, nil)
	if err != nil {
		t.Fatalf("Create placeholder: %v", err)
	}
	if _, err := svc.DownloadURL(ctx, placeholder.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("placeholder download: expected NotFound, got %v", err)
	}

	cases := []struct {
		name string
		in   ResourceInput
		kind apperr.Kind
	}{
		{"missing title", ResourceInput{Category: "notes", FileURL: "x"}, apperr.KindMissingField},
		{"bad category", ResourceInput{Title: "t", Category: "videos", FileURL: "x"}, apperr.KindInvalidEnum},
		{"missing file type", ResourceInput{Title: "t", Category: "notes"}, apperr.KindMissingField},
		{"bad file type", ResourceInput{Title: "t", Category: "notes", FileType: "exe"}, apperr.KindInvalidEnum},
		{"link without url", ResourceInput{Title: "t", Category: "notes", FileType: "link"}, apperr.KindMissingField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.in, nil); !apperr.Is(err, tc.kind) {
				t.Fatalf("expected %s, got %v", tc.kind, err)
			}
		})
	}
}

func TestResourceUpdateReplacesFileAndDeleteRemovesIt(t *testing.T) {
	store := newMemoryStorage()
	svc := NewResourceService(repository.NewResourceRepository(newTestDB(t)), store, testUploadConfig)
	ctx := context.Background()

	res, err := svc.Create(ctx, ResourceInput{Title: "Biology", Category: "notes"}, upload("bio.pdf", 100))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	oldObject := res.ObjectName

	updated, err := svc.Update(ctx, res.ID, ResourceInput{Title: "Biology v2", Category: "notes"}, upload("bio2.docx", 200))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ObjectName == oldObject || updated.FileType != "docx" || updated.Title != "Biology v2" {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if _, ok := store.objects[oldObject]; ok {
		t.Fatalf("old object should be removed")
	}

	// 只改文本字段时保留文件
	kept, err := svc.Update(ctx, res.ID, ResourceInput{Title: "Biology v3", Category: "notes"}, nil)
	if err != nil {
		t.Fatalf("Update text only: %v", err)
	}
	if kept.ObjectName != updated.ObjectName {
		t.Fatalf("file should be kept on text-only update")
	}

	if err := svc.Delete(ctx, res.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.objects) != 0 {
		t.Fatalf("object should be removed on delete")
	}
	if _, err := svc.Get(ctx, res.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("Get after delete: expected NotFound, got %v", err)
	}
	if err := svc.Delete(ctx, res.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("second delete: expected NotFound, got %v", err)
	}
}

func TestResourceListByCategory(t *testing.T) {
	svc := NewResourceService(repository.NewResourceRepository(newTestDB(t)), nil, testUploadConfig)
	ctx := context.Background()

	for _, in := range []ResourceInput{
		{Title: "A", Category: "notes", FileURL: "https://a"},
		{Title: "B", Category: "syllabus", FileURL: "https://b"},
		{Title: "C", Category: "notes", FileURL: "https://c", IsActive: boolPtr(false)},
	} {
		if _, err := svc.Create(ctx, in, nil); err != nil {
			t.Fatalf("Create %s: %v", in.Title, err)
		}
	}

	notes, err := svc.ListByCategory(ctx, "notes")
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(notes) != 1 || notes[0].Title != "A" {
		t.Fatalf("unexpected notes: %+v", notes)
	}
	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("active resources: got=%d want=2", len(all))
	}
	if _, err := svc.ListByCategory(ctx, "memes"); !apperr.Is(err, apperr.KindInvalidEnum) {
		t.Fatalf("bad category: expected InvalidEnum, got %v", err)
	}
}
