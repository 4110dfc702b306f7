package domain

import "context"

// SearchRepository provides keyword search against the remote image/video API
type SearchRepository interface {
	// SearchImages returns image results for query
	SearchImages(ctx context.Context, query string) ([]Thumbnail, error)

	// SearchVideos returns video clip results for query
	SearchVideos(ctx context.Context, query string) ([]Thumbnail, error)
}

// LockerStore persists the user's saved thumbnails.
// Put is idempotent per Thumbnail.Key; deleting an absent item is not an error.
type LockerStore interface {
	All(ctx context.Context) ([]Thumbnail, error)
	Put(ctx context.Context, item Thumbnail) error
	Delete(ctx context.Context, item Thumbnail) error
	Close() error
}
