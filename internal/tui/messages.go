package tui

import (
	"github.com/mmcdole/locker/internal/controller"
	"github.com/mmcdole/locker/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SearchResultsMsg carries a new search result publication
type SearchResultsMsg struct {
	Items []domain.Thumbnail
}

// SavedThumbnailsMsg carries a new locker publication
type SavedThumbnailsMsg struct {
	Items []domain.Thumbnail
}

// ItemClickedMsg is a consumed click event, ready for navigation
type ItemClickedMsg struct {
	Origin controller.Origin
	Item   domain.Thumbnail
}

// FetchErrorMsg signals a surfaced failure
type FetchErrorMsg struct{}

// FailureMsg carries the details of a surfaced failure
type FailureMsg struct {
	Failure controller.Failure
}

// LockerChangedMsg signals that the store was written to
type LockerChangedMsg struct{}

// OpenedMsg signals that an item was handed to a browser or player
type OpenedMsg struct {
	Item domain.Thumbnail
}
