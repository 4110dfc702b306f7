package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/locker/internal/controller"
	"github.com/mmcdole/locker/internal/domain"
)

// Command factories. Controller commands may wait on the owner loop, which
// in turn may be waiting on the bridge, so they never run inside Update.

// Opener hands a clicked thumbnail to an external application
type Opener interface {
	Open(item domain.Thumbnail) error
}

// SearchCmd starts a search
func SearchCmd(ctrl *controller.ThumbnailController, query string) tea.Cmd {
	return func() tea.Msg {
		ctrl.FetchThumbnails(query)
		return nil
	}
}

// ReloadCmd reloads the locker
func ReloadCmd(ctrl *controller.ThumbnailController) tea.Cmd {
	return func() tea.Msg {
		ctrl.FetchSavedThumbnails()
		return nil
	}
}

// SaveCmd saves item into the locker
func SaveCmd(ctrl *controller.ThumbnailController, item domain.Thumbnail) tea.Cmd {
	return func() tea.Msg {
		ctrl.SaveThumbnail(item)
		return nil
	}
}

// RemoveCmd removes item from the locker
func RemoveCmd(ctrl *controller.ThumbnailController, item domain.Thumbnail) tea.Cmd {
	return func() tea.Msg {
		ctrl.RemoveThumbnail(item)
		return nil
	}
}

// ClickCmd reports a click to the controller
func ClickCmd(ctrl *controller.ThumbnailController, origin controller.Origin, item domain.Thumbnail) tea.Cmd {
	return func() tea.Msg {
		ctrl.OnClickItem(origin, item)
		return nil
	}
}

// OpenCmd launches item outside the terminal
func OpenCmd(opener Opener, item domain.Thumbnail) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Open(item); err != nil {
			return ErrMsg{Err: err, Context: "opening " + item.Title}
		}
		return OpenedMsg{Item: item}
	}
}

// WaitForBridgeCmd delivers the next controller message
func WaitForBridgeCmd(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// WaitForLockerCmd delivers the next store change. It returns nil once
// the watch ends.
func WaitForLockerCmd(ctx context.Context, watch <-chan []domain.Thumbnail) tea.Cmd {
	if watch == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case _, ok := <-watch:
			if !ok {
				return nil
			}
			return LockerChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}
