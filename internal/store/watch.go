package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmcdole/locker/internal/domain"
)

// Watched decorates a LockerStore so callers can follow its contents.
// Every successful Put or Delete pushes a fresh snapshot to all watchers.
type Watched struct {
	domain.LockerStore
	logger *slog.Logger

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan []domain.Thumbnail
}

// NewWatched wraps inner.
func NewWatched(inner domain.LockerStore, logger *slog.Logger) *Watched {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watched{
		LockerStore: inner,
		logger:      logger,
		subs:        make(map[uint64]chan []domain.Thumbnail),
	}
}

// Watch returns a channel that receives the current contents immediately and
// again after every change. A slow reader only sees the latest snapshot.
// The channel is closed when ctx ends.
func (w *Watched) Watch(ctx context.Context) (<-chan []domain.Thumbnail, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	items, err := w.LockerStore.All(ctx)
	if err != nil {
		return nil, err
	}

	ch := make(chan []domain.Thumbnail, 1)
	ch <- items

	w.nextID++
	id := w.nextID
	w.subs[id] = ch

	go func() {
		<-ctx.Done()
		w.mu.Lock()
		delete(w.subs, id)
		close(ch)
		w.mu.Unlock()
	}()

	return ch, nil
}

func (w *Watched) Put(ctx context.Context, item domain.Thumbnail) error {
	if err := w.LockerStore.Put(ctx, item); err != nil {
		return err
	}
	w.notify(ctx)
	return nil
}

func (w *Watched) Delete(ctx context.Context, item domain.Thumbnail) error {
	if err := w.LockerStore.Delete(ctx, item); err != nil {
		return err
	}
	w.notify(ctx)
	return nil
}

// Watchers returns the number of open subscriptions
func (w *Watched) Watchers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.subs)
}

func (w *Watched) notify(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.subs) == 0 {
		return
	}

	items, err := w.LockerStore.All(ctx)
	if err != nil {
		w.logger.Warn("failed to snapshot locker for watchers", "error", err)
		return
	}

	for _, ch := range w.subs {
		select {
		case ch <- items:
		default:
			// Replace the unread snapshot with the newer one
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- items:
			default:
			}
		}
	}
}
