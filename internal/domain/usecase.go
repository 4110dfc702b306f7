package domain

import "context"

// Use cases are the async boundary the controller calls through.
// Every implementation reports failure through its error return and must
// honour ctx cancellation where it blocks.

// SearchUseCase runs a keyword search against the remote API
type SearchUseCase interface {
	Execute(ctx context.Context, query string) ([]Thumbnail, error)
}

// LoadAllUseCase loads the full locker. It must return after one result;
// stream-shaped sources are adapted so they stop after the first emission.
type LoadAllUseCase interface {
	Execute(ctx context.Context) ([]Thumbnail, error)
}

// SaveUseCase persists a thumbnail into the locker
type SaveUseCase interface {
	Execute(ctx context.Context, item Thumbnail) error
}

// DeleteUseCase removes a thumbnail from the locker
type DeleteUseCase interface {
	Execute(ctx context.Context, item Thumbnail) error
}

// SearchFunc adapts a function to SearchUseCase
type SearchFunc func(ctx context.Context, query string) ([]Thumbnail, error)

func (f SearchFunc) Execute(ctx context.Context, query string) ([]Thumbnail, error) {
	return f(ctx, query)
}

// LoadAllFunc adapts a function to LoadAllUseCase
type LoadAllFunc func(ctx context.Context) ([]Thumbnail, error)

func (f LoadAllFunc) Execute(ctx context.Context) ([]Thumbnail, error) {
	return f(ctx)
}

// SaveFunc adapts a function to SaveUseCase
type SaveFunc func(ctx context.Context, item Thumbnail) error

func (f SaveFunc) Execute(ctx context.Context, item Thumbnail) error {
	return f(ctx, item)
}

// DeleteFunc adapts a function to DeleteUseCase
type DeleteFunc func(ctx context.Context, item Thumbnail) error

func (f DeleteFunc) Execute(ctx context.Context, item Thumbnail) error {
	return f(ctx, item)
}
