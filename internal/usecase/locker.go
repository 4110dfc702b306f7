package usecase

import (
	"context"
	"log/slog"

	"github.com/mmcdole/locker/internal/domain"
)

// Locker wraps the store with the load, save and delete use cases
type Locker struct {
	store  domain.LockerStore
	logger *slog.Logger
}

// NewLocker creates the locker use cases over store.
func NewLocker(store domain.LockerStore, logger *slog.Logger) *Locker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locker{store: store, logger: logger}
}

// LoadAll returns every saved thumbnail in the store's order
func (l *Locker) LoadAll(ctx context.Context) ([]domain.Thumbnail, error) {
	items, err := l.store.All(ctx)
	if err != nil {
		l.logger.Error("failed to load locker", "error", err)
		return nil, err
	}
	l.logger.Debug("loaded locker", "count", len(items))
	return items, nil
}

// Save stores item. Saving an item that is already in the locker is not an error.
func (l *Locker) Save(ctx context.Context, item domain.Thumbnail) error {
	if err := l.store.Put(ctx, item); err != nil {
		l.logger.Error("failed to save thumbnail", "error", err, "title", item.Title)
		return err
	}
	l.logger.Info("saved thumbnail", "title", item.Title, "key", item.Key())
	return nil
}

// Delete removes item. Deleting an absent item is not an error.
func (l *Locker) Delete(ctx context.Context, item domain.Thumbnail) error {
	if err := l.store.Delete(ctx, item); err != nil {
		l.logger.Error("failed to delete thumbnail", "error", err, "title", item.Title)
		return err
	}
	l.logger.Info("deleted thumbnail", "title", item.Title, "key", item.Key())
	return nil
}

// LoadAllUseCase returns l.LoadAll as a domain.LoadAllUseCase
func (l *Locker) LoadAllUseCase() domain.LoadAllUseCase { return domain.LoadAllFunc(l.LoadAll) }

// SaveUseCase returns l.Save as a domain.SaveUseCase
func (l *Locker) SaveUseCase() domain.SaveUseCase { return domain.SaveFunc(l.Save) }

// DeleteUseCase returns l.Delete as a domain.DeleteUseCase
func (l *Locker) DeleteUseCase() domain.DeleteUseCase { return domain.DeleteFunc(l.Delete) }
