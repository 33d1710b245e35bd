package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartcopro-dashboard/internal/session"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	sess := session.Session{
		ID:        "s1",
		Token:     "tok",
		Role:      session.RoleManager,
		User:      session.User{ID: 1, Username: "syndic"},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	found, err := store.Find(ctx, "s1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found.Token != "tok" || found.User.Username != "syndic" {
		t.Fatalf("found = %+v", found)
	}

	if _, err := store.Find(ctx, "missing"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("Find missing = %v, want ErrNotFound", err)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "s1"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestStoreDeleteExpired(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	_ = store.Save(ctx, session.Session{ID: "live", ExpiresAt: now.Add(time.Hour)})
	_ = store.Save(ctx, session.Session{ID: "dead1", ExpiresAt: now.Add(-time.Minute)})
	_ = store.Save(ctx, session.Session{ID: "dead2", ExpiresAt: now.Add(-time.Hour)})

	removed, err := store.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}

	count, err := store.ActiveCount(ctx, now)
	if err != nil || count != 1 {
		t.Fatalf("ActiveCount = %d, %v", count, err)
	}
	if _, err := store.Find(ctx, "live"); err != nil {
		t.Fatalf("live session lost: %v", err)
	}
}
