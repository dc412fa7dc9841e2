package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"factfake_backend/internal/model"
	"factfake_backend/internal/util"
)

func TestMemorySessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(30 * time.Minute)

	session := &CollectionSession{
		ID:          "sess-1",
		UserID:      42,
		Type:        model.CollectionByCategory,
		ReferenceID: 3,
		QuestionIDs: []uint{1, 2, 3},
		CreatedAt:   time.Now(),
	}
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.UserID != 42 || len(got.QuestionIDs) != 3 {
		t.Fatalf("unexpected session: %+v", got)
	}

	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "sess-1"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestMemorySessionStoreGetUnknown(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(10 * time.Minute)

	stale := &CollectionSession{
		ID:        "stale",
		UserID:    1,
		CreatedAt: time.Now().Add(-11 * time.Minute),
	}
	fresh := &CollectionSession{
		ID:        "fresh",
		UserID:    1,
		CreatedAt: time.Now(),
	}
	store.Create(ctx, stale)
	store.Create(ctx, fresh)

	if _, err := store.Get(ctx, "stale"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("expired session should read as missing, got %v", err)
	}
	if _, err := store.Get(ctx, "fresh"); err != nil {
		t.Fatalf("fresh session should survive: %v", err)
	}
}

func TestMemorySessionStoreSweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(10 * time.Minute)

	for i, age := range []time.Duration{-20 * time.Minute, -15 * time.Minute, -time.Minute} {
		store.Create(ctx, &CollectionSession{
			ID:        string(rune('a' + i)),
			CreatedAt: time.Now().Add(age),
		})
	}

	swept, err := store.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if swept != 2 {
		t.Fatalf("swept %d sessions, want 2", swept)
	}
	if _, err := store.Get(ctx, "c"); err != nil {
		t.Fatalf("live session swept: %v", err)
	}

	// 再次清理应无事可做
	swept, _ = store.Sweep(ctx)
	if swept != 0 {
		t.Fatalf("second sweep removed %d sessions, want 0", swept)
	}
}
