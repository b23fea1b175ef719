package repository

import (
	"context"
	"testing"
	"time"
)

func TestMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryTokenBlacklist().(*memoryTokenBlacklist)
	now := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	bl.now = func() time.Time { return now }

	if err := bl.Add(ctx, "expired-already", 0); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if ok, _ := bl.Contains(ctx, "expired-already"); ok {
		t.Fatalf("token with non-positive ttl should not be stored")
	}

	if err := bl.Add(ctx, "tok", time.Hour); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if ok, err := bl.Contains(ctx, "tok"); err != nil || !ok {
		t.Fatalf("Contains: got=%v err=%v want=true", ok, err)
	}

	now = now.Add(time.Hour)
	if ok, _ := bl.Contains(ctx, "tok"); ok {
		t.Fatalf("token should be forgotten once it expires")
	}
}
