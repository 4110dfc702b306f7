package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/locker/internal/controller"
	"github.com/mmcdole/locker/internal/domain"
)

var (
	catImage = domain.Thumbnail{Title: "Cat Blog", MediaURL: "https://i/cat.jpg", Source: domain.SourceImage, DateTime: "2024-01-01T00:00:00.000+09:00"}
	catVideo = domain.Thumbnail{Title: "Cat video", MediaURL: "https://v/cat", Source: domain.SourceVideo, DateTime: "2025-01-01T00:00:00.000+09:00"}
	dogImage = domain.Thumbnail{Title: "Dog Park", MediaURL: "https://i/dog.jpg", Source: domain.SourceImage, DateTime: "2023-01-01T00:00:00.000+09:00"}
)

type fakeOpener struct {
	mu     sync.Mutex
	opened []domain.Thumbnail
	err    error
}

func (f *fakeOpener) Open(item domain.Thumbnail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, item)
	return f.err
}

type harness struct {
	ctrl   *controller.ThumbnailController
	bridge *Bridge
	opener *fakeOpener
	saves  atomic.Int32
	model  Model
}

func newHarness(t *testing.T, searchErr error) *harness {
	t.Helper()
	h := &harness{opener: &fakeOpener{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h.ctrl = controller.New(controller.UseCases{
		Search: domain.SearchFunc(func(ctx context.Context, q string) ([]domain.Thumbnail, error) {
			if searchErr != nil {
				return nil, searchErr
			}
			return []domain.Thumbnail{catImage, dogImage, catVideo}, nil
		}),
		LoadAll: domain.LoadAllFunc(func(ctx context.Context) ([]domain.Thumbnail, error) {
			return []domain.Thumbnail{catImage}, nil
		}),
		Save: domain.SaveFunc(func(ctx context.Context, item domain.Thumbnail) error {
			h.saves.Add(1)
			return nil
		}),
		Delete: domain.DeleteFunc(func(ctx context.Context, item domain.Thumbnail) error {
			return nil
		}),
	}, controller.WithLogger(logger))
	h.bridge = NewBridge(h.ctrl)
	t.Cleanup(func() {
		h.bridge.Close()
		h.ctrl.Teardown()
	})

	h.model = NewModel(context.Background(), Options{
		Controller: h.ctrl,
		Bridge:     h.bridge,
		Opener:     h.opener,
		Logger:     logger,
	})
	h.update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return h
}

func (h *harness) update(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) typeText(s string) {
	h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) press(k string) tea.Cmd {
	switch k {
	case "enter":
		return h.update(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.update(tea.KeyMsg{Type: tea.KeyEsc})
	case "tab":
		return h.update(tea.KeyMsg{Type: tea.KeyTab})
	}
	return h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

// next reads the next bridged controller message
func (h *harness) next(t *testing.T) tea.Msg {
	t.Helper()
	select {
	case msg := <-h.bridge.Messages():
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for controller message")
		return nil
	}
}

func (h *harness) search(t *testing.T, query string) {
	t.Helper()
	h.typeText(query)
	if cmd := h.press("enter"); cmd == nil {
		t.Fatal("expected a search command")
	}
	SearchCmd(h.ctrl, query)()
	h.update(h.next(t))
}

func TestSearchFlow(t *testing.T) {
	h := newHarness(t, nil)

	h.search(t, "cats")

	if h.model.Searching {
		t.Error("spinner should stop once results arrive")
	}
	if h.model.Mode != ModeBrowse || h.model.Focus != PaneResults {
		t.Errorf("expected browse mode on results, got mode=%v focus=%v", h.model.Mode, h.model.Focus)
	}
	got := h.model.Results
	if len(got) != 3 || got[0] != catVideo || got[2] != dogImage {
		t.Errorf("expected results newest first, got %+v", got)
	}
	if !strings.Contains(h.model.StatusMsg, "3 results") {
		t.Errorf("status = %q", h.model.StatusMsg)
	}
}

func TestEmptyQueryIsRejected(t *testing.T) {
	h := newHarness(t, nil)

	if cmd := h.press("enter"); cmd != nil {
		t.Error("empty query must not start a search")
	}
	if !h.model.StatusIsErr {
		t.Error("expected an error status")
	}
}

func TestSearchFailureShowsError(t *testing.T) {
	h := newHarness(t, domain.ErrAuthFailed)

	h.search(t, "cats")
	h.update(h.next(t))

	if !h.model.StatusIsErr || !strings.Contains(h.model.StatusMsg, "setup") {
		t.Errorf("expected auth error status, got %q", h.model.StatusMsg)
	}
	if h.model.Searching {
		t.Error("spinner should stop on failure")
	}
}

func TestClickOpensItemOnce(t *testing.T) {
	h := newHarness(t, nil)
	h.search(t, "cats")

	cmd := h.press("enter")
	if cmd == nil {
		t.Fatal("expected a click command")
	}
	cmd()

	msg, ok := h.next(t).(ItemClickedMsg)
	if !ok {
		t.Fatalf("expected ItemClickedMsg")
	}
	if msg.Item != catVideo || msg.Origin != controller.OriginSearchResult {
		t.Errorf("unexpected click %+v", msg)
	}
	if h.ctrl.SearchItemClicked().Pending() {
		t.Error("the bridge must consume the click event")
	}

	opened := OpenCmd(h.opener, msg.Item)()
	if _, ok := opened.(OpenedMsg); !ok {
		t.Errorf("expected OpenedMsg, got %T", opened)
	}
	if len(h.opener.opened) != 1 || h.opener.opened[0] != catVideo {
		t.Errorf("opener got %+v", h.opener.opened)
	}
}

func TestOpenFailureBecomesErrMsg(t *testing.T) {
	opener := &fakeOpener{err: errors.New("no browser")}
	msg := OpenCmd(opener, catImage)()
	if _, ok := msg.(ErrMsg); !ok {
		t.Errorf("expected ErrMsg, got %T", msg)
	}
}

func TestSaveAndRemoveKeys(t *testing.T) {
	h := newHarness(t, nil)
	ReloadCmd(h.ctrl)()
	h.update(h.next(t))
	h.search(t, "cats")

	// Cursor is on catVideo, which is not saved yet
	cmd := h.press("s")
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	cmd()
	h.ctrl.Wait()
	if h.saves.Load() != 1 {
		t.Errorf("expected 1 save, got %d", h.saves.Load())
	}

	// catImage is already in the locker
	h.press("j")
	if item, _ := h.model.Selected(); item != catImage {
		t.Fatalf("expected cursor on catImage, got %+v", item)
	}
	if cmd := h.press("s"); cmd != nil {
		t.Error("saving an item already in the locker is a no-op")
	}
	if cmd := h.press("d"); cmd == nil {
		t.Error("expected a remove command for a saved item")
	}
}

func TestFilterNarrowsSelection(t *testing.T) {
	h := newHarness(t, nil)
	h.search(t, "cats")

	h.press("/")
	if h.model.Mode != ModeFilter {
		t.Fatalf("expected filter mode, got %v", h.model.Mode)
	}
	h.typeText("dog")
	h.press("enter")

	item, ok := h.model.Selected()
	if !ok || item != dogImage {
		t.Errorf("expected dogImage selected, got %+v", item)
	}
	if len(h.model.Results) != 3 {
		t.Error("filtering must not change the results")
	}

	h.press("esc")
	if h.model.Filter.Value() != "" {
		t.Error("esc should clear the filter")
	}
}

func TestSwitchPane(t *testing.T) {
	h := newHarness(t, nil)
	h.press("esc") // leave query mode

	h.press("tab")
	if h.model.Focus != PaneLocker {
		t.Errorf("expected locker focus, got %v", h.model.Focus)
	}
	if h.model.Focus.Origin() != controller.OriginLocker {
		t.Error("locker pane must click with the locker origin")
	}
}

func TestLockerChangedReloads(t *testing.T) {
	h := newHarness(t, nil)
	if cmd := h.update(LockerChangedMsg{}); cmd == nil {
		t.Error("a store change should trigger a reload")
	}
}

func TestView(t *testing.T) {
	h := newHarness(t, nil)
	ReloadCmd(h.ctrl)()
	h.update(h.next(t))
	h.search(t, "cats")

	view := h.model.View()
	for _, want := range []string{"Results", "Locker", "Cat Blog", "Dog Park", "2025-01-01"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFailureStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrAuthFailed, "setup"},
		{domain.ErrNotConfigured, "setup"},
		{domain.ErrRateLimited, "rate limited"},
		{domain.ErrServerOffline, "unreachable"},
		{context.DeadlineExceeded, "timed out"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		got := failureStatus(controller.Failure{Kind: controller.FailureSearch, Err: tt.err})
		if !strings.Contains(got, tt.want) {
			t.Errorf("failureStatus(%v) = %q, want it to mention %q", tt.err, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Errorf("got %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Errorf("got %q", got)
	}
}
