package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"factfake_backend/internal/util"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSessionStore(client, ttl), mr
}

func TestRedisSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, time.Minute)

	session := &CollectionSession{
		ID:          "sess-1",
		UserID:      9,
		QuestionIDs: []uint{5, 6},
		CreatedAt:   time.Now(),
	}
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !mr.Exists("collection:session:sess-1") {
		t.Fatalf("expected redis key to be set")
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.UserID != 9 || len(got.QuestionIDs) != 2 {
		t.Fatalf("unexpected session: %+v", got)
	}

	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if mr.Exists("collection:session:sess-1") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestRedisSessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, time.Minute)

	if err := store.Create(ctx, &CollectionSession{ID: "sess-2", UserID: 1}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// 过期由键 TTL 承担
	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, "sess-2"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after TTL, got %v", err)
	}
}

func TestRedisSessionStoreSweepIsNoop(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Minute)
	swept, err := store.Sweep(context.Background())
	if err != nil || swept != 0 {
		t.Fatalf("sweep = %d, %v; want 0, nil", swept, err)
	}
}
