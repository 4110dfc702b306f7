package usecase

import (
	"context"
	"errors"

	"github.com/mmcdole/locker/internal/domain"
)

// Stream opens a feed of locker snapshots. The channel is closed when ctx ends.
type Stream func(ctx context.Context) (<-chan []domain.Thumbnail, error)

// ErrStreamClosed is returned when a stream closes before emitting anything
var ErrStreamClosed = errors.New("stream closed before first emission")

// FirstEmission turns a stream into a single-shot load: it takes the first
// snapshot and closes the subscription.
func FirstEmission(stream Stream) domain.LoadAllUseCase {
	return domain.LoadAllFunc(func(ctx context.Context) ([]domain.Thumbnail, error) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		ch, err := stream(ctx)
		if err != nil {
			return nil, err
		}

		select {
		case items, ok := <-ch:
			if !ok {
				return nil, ErrStreamClosed
			}
			return items, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}
