// Package controller reconciles search results and the saved locker for the
// presentation layer.
//
// # Architecture
//
//	┌───────────┐  command   ┌────────────┐  Execute(ctx)  ┌───────────┐
//	│    UI     │ ─────────> │ Controller │ ─────────────> │ Use cases │
//	│ (observe) │ <───────── │ (owner)    │ <───────────── │ (async)   │
//	└───────────┘  publish   └────────────┘   completion   └───────────┘
//
// Each command starts a task in the controller's task group and returns
// immediately. When a use case completes, the task hands a closure to the
// owner loop, a single goroutine that performs every mutation of the
// observable lists and event channels. Observers therefore never see two
// writers at once, and the sort order is applied before anything is published.
//
// # Teardown
//
// Teardown cancels every in-flight task and stops the owner loop. Completions
// that arrive afterwards are dropped, so no state changes once Teardown returns.
// Observers may issue commands; those run after the update that notified
// the observer. Teardown must not be called from inside an observer callback.
//
// # Ordering
//
// Independent calls are not serialized. A SaveThumbnail followed quickly by a
// RemoveThumbnail of the same item invokes both use cases, and the persisted
// state is whatever the last one to complete leaves behind.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mmcdole/locker/internal/domain"
	"github.com/mmcdole/locker/internal/observable"
)

// Origin identifies which list a click came from
type Origin int

const (
	OriginSearchResult Origin = iota
	OriginLocker
)

func (o Origin) String() string {
	switch o {
	case OriginSearchResult:
		return "search_result"
	case OriginLocker:
		return "locker"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// UseCases bundles the four async collaborators the controller drives
type UseCases struct {
	Search  domain.SearchUseCase
	LoadAll domain.LoadAllUseCase
	Save    domain.SaveUseCase
	Delete  domain.DeleteUseCase
}

// ThumbnailController owns the observable state shown by the UI.
// All exported methods are safe to call from any goroutine, observer
// callbacks included, except Teardown.
type ThumbnailController struct {
	search  domain.SearchUseCase
	loadAll domain.LoadAllUseCase
	save    domain.SaveUseCase
	del     domain.DeleteUseCase

	logger     *slog.Logger
	timeout    time.Duration
	optimistic bool
	surfaced   map[FailureKind]bool

	searchResults *observable.List[domain.Thumbnail]
	saved         *observable.List[domain.Thumbnail]
	searchClicked *observable.EventChannel[domain.Thumbnail]
	lockerClicked *observable.EventChannel[domain.Thumbnail]
	fetchError    *observable.EventChannel[bool]
	failures      *observable.EventChannel[Failure]

	ctx      context.Context
	cancel   context.CancelFunc
	tasks    *taskGroup
	loopDone chan struct{}

	qmu      sync.Mutex
	queue    []*update
	stopped  bool
	wake     chan struct{}
	applying atomic.Bool

	teardownOnce sync.Once
}

// New creates a controller and starts its owner loop.
// Missing use cases fail every call with an error instead of panicking.
func New(uc UseCases, opts ...Option) *ThumbnailController {
	c := &ThumbnailController{
		search:        uc.Search,
		loadAll:       uc.LoadAll,
		save:          uc.Save,
		del:           uc.Delete,
		logger:        slog.Default(),
		surfaced:      map[FailureKind]bool{FailureSearch: true},
		searchResults: observable.NewList[domain.Thumbnail](),
		saved:         observable.NewList[domain.Thumbnail](),
		searchClicked: observable.NewEventChannel[domain.Thumbnail](),
		lockerClicked: observable.NewEventChannel[domain.Thumbnail](),
		fetchError:    observable.NewEventChannel[bool](),
		failures:      observable.NewEventChannel[Failure](),
		wake:          make(chan struct{}, 1),
		loopDone:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.fillMissing()

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.tasks = newTaskGroup(c.ctx, c.timeout)

	go c.run()
	return c
}

func (c *ThumbnailController) fillMissing() {
	if c.search == nil {
		c.search = domain.SearchFunc(func(context.Context, string) ([]domain.Thumbnail, error) {
			return nil, errMissing("search")
		})
	}
	if c.loadAll == nil {
		c.loadAll = domain.LoadAllFunc(func(context.Context) ([]domain.Thumbnail, error) {
			return nil, errMissing("load-all")
		})
	}
	if c.save == nil {
		c.save = domain.SaveFunc(func(context.Context, domain.Thumbnail) error {
			return errMissing("save")
		})
	}
	if c.del == nil {
		c.del = domain.DeleteFunc(func(context.Context, domain.Thumbnail) error {
			return errMissing("delete")
		})
	}
}

func errMissing(name string) error {
	return fmt.Errorf("%s use case not configured", name)
}

// === Observable state ===

// SearchResults holds the latest successful search, newest first
func (c *ThumbnailController) SearchResults() *observable.List[domain.Thumbnail] {
	return c.searchResults
}

// SavedThumbnails holds the latest loaded locker, newest first
func (c *ThumbnailController) SavedThumbnails() *observable.List[domain.Thumbnail] {
	return c.saved
}

// SearchItemClicked emits a one-shot event per click on a search result
func (c *ThumbnailController) SearchItemClicked() *observable.EventChannel[domain.Thumbnail] {
	return c.searchClicked
}

// LockerItemClicked emits a one-shot event per click on a locker entry
func (c *ThumbnailController) LockerItemClicked() *observable.EventChannel[domain.Thumbnail] {
	return c.lockerClicked
}

// FetchError emits true whenever a surfaced failure happens (search by default)
func (c *ThumbnailController) FetchError() *observable.EventChannel[bool] {
	return c.fetchError
}

// Failures emits the details of every surfaced failure
func (c *ThumbnailController) Failures() *observable.EventChannel[Failure] {
	return c.failures
}

// === Commands ===

// FetchThumbnails searches for query. On success the results replace
// SearchResults sorted newest first; on failure FetchError fires and
// SearchResults keeps its previous value.
func (c *ThumbnailController) FetchThumbnails(query string) {
	c.spawn("search", func(ctx context.Context) func() {
		items, err := c.search.Execute(ctx, query)
		if err != nil {
			return c.failed(ctx, Failure{Kind: FailureSearch, Query: query, Err: err})
		}
		sorted := domain.SortByDateTimeDesc(items)
		if sorted == nil {
			sorted = []domain.Thumbnail{}
		}
		return func() {
			c.searchResults.Set(sorted)
			c.logger.Debug("search results published", "query", query, "count", len(sorted))
		}
	})
}

// FetchSavedThumbnails reloads the whole locker and publishes it sorted
// newest first. Failures are logged and leave SavedThumbnails unchanged.
func (c *ThumbnailController) FetchSavedThumbnails() {
	c.spawn("load-all", func(ctx context.Context) func() {
		items, err := c.loadAll.Execute(ctx)
		if err != nil {
			return c.failed(ctx, Failure{Kind: FailureLoadAll, Err: err})
		}
		sorted := domain.SortByDateTimeDesc(items)
		if sorted == nil {
			sorted = []domain.Thumbnail{}
		}
		return func() {
			c.saved.Set(sorted)
			c.logger.Debug("saved thumbnails published", "count", len(sorted))
		}
	})
}

// ContainsSaved reports whether item equals an entry of the current locker.
// It returns false when the locker has never been loaded.
func (c *ThumbnailController) ContainsSaved(item domain.Thumbnail) bool {
	return domain.Contains(c.saved.Current(), item)
}

// SaveThumbnail persists item. The locker is not reloaded: call
// FetchSavedThumbnails to observe the change, unless optimistic updates are on.
func (c *ThumbnailController) SaveThumbnail(item domain.Thumbnail) {
	if c.optimistic {
		c.post(func() {
			items := c.saved.Current()
			if !domain.Contains(items, item) {
				c.saved.Set(domain.SortByDateTimeDesc(append(items, item)))
			}
		})
	}

	c.spawn("save", func(ctx context.Context) func() {
		if err := c.save.Execute(ctx, item); err != nil {
			return c.failed(ctx, Failure{Kind: FailureSave, Item: item, Err: err})
		}
		c.logger.Debug("save succeeded", "title", item.Title)
		return nil
	})
}

// RemoveThumbnail deletes item if it is present in the current locker and
// does nothing otherwise.
func (c *ThumbnailController) RemoveThumbnail(item domain.Thumbnail) {
	if !c.ContainsSaved(item) {
		c.logger.Debug("remove skipped, not in locker", "title", item.Title)
		return
	}

	if c.optimistic {
		c.post(func() {
			items := c.saved.Current()
			if i := slices.Index(items, item); i >= 0 {
				c.saved.Set(domain.SortByDateTimeDesc(slices.Delete(items, i, i+1)))
			}
		})
	}

	c.spawn("delete", func(ctx context.Context) func() {
		if err := c.del.Execute(ctx, item); err != nil {
			return c.failed(ctx, Failure{Kind: FailureDelete, Item: item, Err: err})
		}
		c.logger.Debug("delete succeeded", "title", item.Title)
		return nil
	})
}

// OnClickItem emits a one-shot click event on the channel matching origin
func (c *ThumbnailController) OnClickItem(origin Origin, item domain.Thumbnail) {
	var ch *observable.EventChannel[domain.Thumbnail]
	switch origin {
	case OriginSearchResult:
		ch = c.searchClicked
	case OriginLocker:
		ch = c.lockerClicked
	default:
		c.logger.Warn("click from unknown origin ignored", "origin", origin.String())
		return
	}

	if !c.post(func() { ch.Emit(item) }) {
		c.logger.Debug("click ignored after teardown", "origin", origin.String())
	}
}

// Teardown cancels all in-flight work and stops publishing. It blocks until
// the owner loop has exited and is safe to call more than once.
func (c *ThumbnailController) Teardown() {
	c.teardownOnce.Do(func() {
		abandoned := c.tasks.cancelAll()
		c.cancel()
		<-c.loopDone
		c.logger.Debug("controller torn down", "abandoned", abandoned)
	})
}

// InFlight returns the number of use-case calls still running
func (c *ThumbnailController) InFlight() int {
	return c.tasks.inFlight()
}

// Wait blocks until every started call has finished and its completion has
// been applied or dropped.
func (c *ThumbnailController) Wait() {
	c.tasks.wait()
}

// === Internals ===

// spawn runs call as a task. call returns the closure to apply on the owner
// loop, or nil when there is nothing to publish.
func (c *ThumbnailController) spawn(name string, call func(ctx context.Context) func()) {
	started := c.tasks.Go(func(ctx context.Context) {
		publish := call(ctx)
		if publish == nil {
			return
		}
		if !c.apply(publish) {
			c.logger.Debug("completion dropped after teardown", "op", name)
		}
	})
	if !started {
		c.logger.Debug("command ignored after teardown", "op", name)
	}
}

// failed logs f and returns the closure that surfaces it, if its kind is
// surfaced. Cancellation caused by Teardown is not a failure.
func (c *ThumbnailController) failed(ctx context.Context, f Failure) func() {
	if c.ctx.Err() != nil {
		c.logger.Debug("operation cancelled by teardown", "op", f.Kind.String())
		return nil
	}

	attrs := []any{"op", f.Kind.String(), "error", f.Err}
	if f.Query != "" {
		attrs = append(attrs, "query", f.Query)
	}
	if f.Item != (domain.Thumbnail{}) {
		attrs = append(attrs, "title", f.Item.Title)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		attrs = append(attrs, "timeout", c.timeout)
	}
	c.logger.Error("operation failed", attrs...)

	if !c.surfaced[f.Kind] {
		return nil
	}
	return func() {
		c.fetchError.Emit(true)
		c.failures.Emit(f)
	}
}
