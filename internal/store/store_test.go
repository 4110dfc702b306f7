package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/mmcdole/locker/internal/domain"
)

var (
	older = domain.Thumbnail{Title: "older", ThumbnailURL: "https://t/1", MediaURL: "https://m/1", Source: domain.SourceImage, DateTime: "2023-01-01"}
	newer = domain.Thumbnail{Title: "newer", ThumbnailURL: "https://t/2", MediaURL: "https://m/2", Source: domain.SourceVideo, DateTime: "2024-01-01"}
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testLockerStore runs the behaviour every backend must share
func testLockerStore(t *testing.T, s domain.LockerStore) {
	t.Helper()
	ctx := context.Background()

	items, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All on empty store: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty store, got %+v", items)
	}

	for _, item := range []domain.Thumbnail{older, newer, older} {
		if err := s.Put(ctx, item); err != nil {
			t.Fatalf("Put(%s): %v", item.Title, err)
		}
	}

	items, err = s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(items) != 2 || items[0] != newer || items[1] != older {
		t.Fatalf("expected [newer, older] without duplicates, got %+v", items)
	}

	if err := s.Delete(ctx, older); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, older); err != nil {
		t.Fatalf("Delete of absent item must succeed: %v", err)
	}

	items, err = s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(items) != 1 || items[0] != newer {
		t.Errorf("expected [newer], got %+v", items)
	}
}

func TestBoltStore(t *testing.T) {
	s, err := NewBoltStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBoltStore: %v", err)
	}
	defer s.Close()
	testLockerStore(t, s)
}

func TestBoltStoreMemoryOnly(t *testing.T) {
	s, err := NewBoltStore("")
	if err != nil {
		t.Fatalf("NewBoltStore: %v", err)
	}
	defer s.Close()
	testLockerStore(t, s)
}

func TestBoltStorePersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewBoltStore(dir)
	if err != nil {
		t.Fatalf("NewBoltStore: %v", err)
	}
	if err := s.Put(ctx, newer); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewBoltStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	items, err := reopened.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(items) != 1 || items[0] != newer {
		t.Errorf("expected [newer] after reopen, got %+v", items)
	}
}

func TestBoltStoreCancelledContext(t *testing.T) {
	s, _ := NewBoltStore("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Put(ctx, newer); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := Open(context.Background(), Options{Backend: BackendSQLite, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	testLockerStore(t, s)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("LOCKER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LOCKER_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	s, err := NewRedisStore(ctx, RedisOptions{Addr: addr, Key: "locker:test:" + t.Name()})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()
	defer s.client.Del(ctx, s.key)

	testLockerStore(t, s)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"", false},
		{"bolt", false},
		{"Memory", false},
		{"sqlite", false},
		{"postgres", true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := Open(context.Background(), Options{Backend: tt.backend, Dir: t.TempDir()})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}

func TestOpenSQLiteNeedsDir(t *testing.T) {
	if _, err := Open(context.Background(), Options{Backend: BackendSQLite}); err == nil {
		t.Error("expected an error without a data directory")
	}
}

func recv(t *testing.T, ch <-chan []domain.Thumbnail) []domain.Thumbnail {
	t.Helper()
	select {
	case items, ok := <-ch:
		if !ok {
			t.Fatal("watch channel closed")
		}
		return items
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestWatched(t *testing.T) {
	inner, _ := NewBoltStore("")
	w := NewWatched(inner, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := w.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if got := recv(t, ch); len(got) != 0 {
		t.Errorf("expected empty initial snapshot, got %+v", got)
	}

	if err := w.Put(context.Background(), older); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got := recv(t, ch); len(got) != 1 || got[0] != older {
		t.Errorf("expected [older], got %+v", got)
	}

	if err := w.Delete(context.Background(), older); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := recv(t, ch); len(got) != 0 {
		t.Errorf("expected empty snapshot after delete, got %+v", got)
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("watch channel not closed after cancel")
	}
	if w.Watchers() != 0 {
		t.Errorf("expected no watchers, got %d", w.Watchers())
	}
}

func TestWatchedCoalescesSlowReader(t *testing.T) {
	inner, _ := NewBoltStore("")
	w := NewWatched(inner, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := w.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	// Nothing is read until both writes have happened
	w.Put(context.Background(), older)
	w.Put(context.Background(), newer)

	if got := recv(t, ch); len(got) != 2 {
		t.Errorf("expected only the latest snapshot, got %+v", got)
	}
}

type failingStore struct {
	domain.LockerStore
}

func (failingStore) Put(context.Context, domain.Thumbnail) error { return errors.New("full") }

func TestWatchedSkipsFailedWrites(t *testing.T) {
	inner, _ := NewBoltStore("")
	w := NewWatched(failingStore{inner}, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, _ := w.Watch(ctx)
	recv(t, ch)

	if err := w.Put(context.Background(), older); err == nil {
		t.Fatal("expected put error")
	}
	select {
	case got := <-ch:
		t.Errorf("failed write must not notify, got %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}
