package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/locker/internal/controller"
	"github.com/mmcdole/locker/internal/domain"
	"github.com/mmcdole/locker/internal/observable"
)

// Bridge adapts the controller's observables to a channel of tea messages.
// Observers run on the controller's owner loop and hold it until the UI takes
// the message, so they only hand messages over.
type Bridge struct {
	ch      chan tea.Msg
	done    chan struct{}
	cancels []func()
	once    sync.Once
}

// NewBridge observes every output of ctrl. Call Close before tearing the
// controller down.
func NewBridge(ctrl *controller.ThumbnailController) *Bridge {
	b := &Bridge{
		ch:   make(chan tea.Msg, 64),
		done: make(chan struct{}),
	}

	b.cancels = append(b.cancels,
		ctrl.SearchResults().Observe(func(items []domain.Thumbnail) {
			b.send(SearchResultsMsg{Items: items})
		}),
		ctrl.SavedThumbnails().Observe(func(items []domain.Thumbnail) {
			b.send(SavedThumbnailsMsg{Items: items})
		}),
		ctrl.SearchItemClicked().Observe(b.clicked(controller.OriginSearchResult)),
		ctrl.LockerItemClicked().Observe(b.clicked(controller.OriginLocker)),
		ctrl.FetchError().Observe(func(e *observable.Event[bool]) {
			if failed, ok := e.Consume(); ok && failed {
				b.send(FetchErrorMsg{})
			}
		}),
		ctrl.Failures().Observe(func(e *observable.Event[controller.Failure]) {
			if f, ok := e.Consume(); ok {
				b.send(FailureMsg{Failure: f})
			}
		}),
	)
	return b
}

func (b *Bridge) clicked(origin controller.Origin) func(*observable.Event[domain.Thumbnail]) {
	return func(e *observable.Event[domain.Thumbnail]) {
		if item, ok := e.Consume(); ok {
			b.send(ItemClickedMsg{Origin: origin, Item: item})
		}
	}
}

// send blocks until the UI takes msg or the bridge is closed
func (b *Bridge) send(msg tea.Msg) {
	select {
	case b.ch <- msg:
	case <-b.done:
	}
}

// Messages returns the channel the model reads from
func (b *Bridge) Messages() <-chan tea.Msg {
	return b.ch
}

// Close detaches every observer and unblocks pending sends
func (b *Bridge) Close() {
	b.once.Do(func() {
		close(b.done)
		for _, cancel := range b.cancels {
			cancel()
		}
	})
}
