// Package tui is the terminal front end: a search pane and a locker pane
// that mirror the controller's observable state.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/locker/internal/controller"
	"github.com/mmcdole/locker/internal/domain"
	"github.com/mmcdole/locker/internal/filter"
	"github.com/mmcdole/locker/internal/tui/styles"
)

// Pane identifies one of the two lists
type Pane int

const (
	PaneResults Pane = iota
	PaneLocker
)

// Origin maps the pane to the controller's click origin
func (p Pane) Origin() controller.Origin {
	if p == PaneLocker {
		return controller.OriginLocker
	}
	return controller.OriginSearchResult
}

// InputMode tells which text input, if any, receives keystrokes
type InputMode int

const (
	ModeBrowse InputMode = iota
	ModeQuery
	ModeFilter
)

// ChromeHeight is the number of lines outside the panes: query line, status and help
const ChromeHeight = 3

// Options wires the model to the rest of the application
type Options struct {
	Controller *controller.ThumbnailController
	Bridge     *Bridge
	Opener     Opener
	// Watch reloads the locker after every store change. Without it the
	// locker only refreshes on the reload key.
	Watch  <-chan []domain.Thumbnail
	Logger *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	ctrl   *controller.ThumbnailController
	bridge *Bridge
	opener Opener
	watch  <-chan []domain.Thumbnail
	ctx    context.Context
	logger *slog.Logger

	// UI Components
	Query   textinput.Model
	Filter  textinput.Model
	Spinner spinner.Model

	// Data mirrored from the controller
	Results []domain.Thumbnail
	Saved   []domain.Thumbnail

	// UI state
	Mode        InputMode
	Focus       Pane
	Cursor      [2]int
	Searching   bool
	StatusMsg   string
	StatusIsErr bool
	LastQuery   string

	// Dimensions
	Width  int
	Height int
}

// NewModel creates a new application model. ctx bounds the locker watch.
func NewModel(ctx context.Context, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	query := textinput.New()
	query.Placeholder = "search images and videos"
	query.Prompt = "search: "
	query.CharLimit = 200
	query.Focus()

	filterInput := textinput.New()
	filterInput.Prompt = "/"
	filterInput.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentStyle

	return Model{
		ctrl:    opts.Controller,
		bridge:  opts.Bridge,
		opener:  opts.Opener,
		watch:   opts.Watch,
		ctx:     ctx,
		logger:  opts.Logger,
		Query:   query,
		Filter:  filterInput,
		Spinner: sp,
		Mode:    ModeQuery,
	}
}

// Init loads the locker and starts listening to the controller
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		WaitForBridgeCmd(m.bridge.Messages()),
		WaitForLockerCmd(m.ctx, m.watch),
	}
	// The watch's first snapshot triggers the initial load on its own
	if m.watch == nil {
		cmds = append(cmds, ReloadCmd(m.ctrl))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Query.Width = max(msg.Width-len(m.Query.Prompt)-4, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !m.Searching {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case SearchResultsMsg:
		m.Results = msg.Items
		m.Searching = false
		m.clampCursor(PaneResults)
		m.setStatus(resultStatus(len(msg.Items), m.LastQuery), false)
		return m, WaitForBridgeCmd(m.bridge.Messages())

	case SavedThumbnailsMsg:
		m.Saved = msg.Items
		m.clampCursor(PaneLocker)
		return m, WaitForBridgeCmd(m.bridge.Messages())

	case ItemClickedMsg:
		if m.opener == nil {
			return m, WaitForBridgeCmd(m.bridge.Messages())
		}
		return m, tea.Batch(
			OpenCmd(m.opener, msg.Item),
			WaitForBridgeCmd(m.bridge.Messages()),
		)

	case FetchErrorMsg:
		m.Searching = false
		m.setStatus("request failed", true)
		return m, WaitForBridgeCmd(m.bridge.Messages())

	case FailureMsg:
		m.Searching = false
		m.setStatus(failureStatus(msg.Failure), true)
		return m, WaitForBridgeCmd(m.bridge.Messages())

	case LockerChangedMsg:
		return m, tea.Batch(
			ReloadCmd(m.ctrl),
			WaitForLockerCmd(m.ctx, m.watch),
		)

	case OpenedMsg:
		m.setStatus("opened "+msg.Item.Title, false)
		return m, nil

	case ErrMsg:
		m.logger.Error("tui error", "error", msg.Err, "context", msg.Context)
		m.setStatus(msg.Error(), true)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.Mode {
	case ModeQuery:
		return m.handleQueryKeys(msg)
	case ModeFilter:
		return m.handleFilterKeys(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Search):
		m.Mode = ModeQuery
		return m, m.Query.Focus()

	case key.Matches(msg, Keys.Filter):
		m.Mode = ModeFilter
		return m, m.Filter.Focus()

	case key.Matches(msg, Keys.Escape):
		m.Filter.SetValue("")
		m.Cursor = [2]int{}
		return m, nil

	case key.Matches(msg, Keys.SwitchPane):
		if m.Focus == PaneResults {
			m.Focus = PaneLocker
		} else {
			m.Focus = PaneResults
		}
		return m, nil

	case key.Matches(msg, Keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, Keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, Keys.Home):
		m.Cursor[m.Focus] = 0
		return m, nil

	case key.Matches(msg, Keys.End):
		m.Cursor[m.Focus] = max(len(m.visible(m.Focus))-1, 0)
		return m, nil

	case key.Matches(msg, Keys.Open):
		if item, ok := m.Selected(); ok {
			return m, ClickCmd(m.ctrl, m.Focus.Origin(), item)
		}
		return m, nil

	case key.Matches(msg, Keys.Save):
		item, ok := m.Selected()
		if !ok {
			return m, nil
		}
		if m.ctrl.ContainsSaved(item) {
			m.setStatus("already in locker", false)
			return m, nil
		}
		m.setStatus("saving "+item.Title, false)
		return m, SaveCmd(m.ctrl, item)

	case key.Matches(msg, Keys.Remove):
		item, ok := m.Selected()
		if !ok {
			return m, nil
		}
		if !m.ctrl.ContainsSaved(item) {
			m.setStatus("not in locker", false)
			return m, nil
		}
		m.setStatus("removing "+item.Title, false)
		return m, RemoveCmd(m.ctrl, item)

	case key.Matches(msg, Keys.Reload):
		return m, ReloadCmd(m.ctrl)
	}

	return m, nil
}

func (m Model) handleQueryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		query := strings.TrimSpace(m.Query.Value())
		if query == "" {
			m.setStatus(domain.ErrEmptyQuery.Error(), true)
			return m, nil
		}
		m.LastQuery = query
		m.Searching = true
		m.Mode = ModeBrowse
		m.Focus = PaneResults
		m.Query.Blur()
		m.setStatus("searching "+query, false)
		return m, tea.Batch(SearchCmd(m.ctrl, query), m.Spinner.Tick)

	case tea.KeyEsc:
		m.Mode = ModeBrowse
		m.Query.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.Query, cmd = m.Query.Update(msg)
	return m, cmd
}

func (m Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.Mode = ModeBrowse
		m.Filter.Blur()
		return m, nil

	case tea.KeyEsc:
		m.Mode = ModeBrowse
		m.Filter.Blur()
		m.Filter.SetValue("")
		m.Cursor = [2]int{}
		return m, nil
	}

	var cmd tea.Cmd
	m.Filter, cmd = m.Filter.Update(msg)
	m.Cursor = [2]int{}
	return m, cmd
}

// visible returns the filtered view of a pane
func (m Model) visible(p Pane) []filter.Match {
	items := m.Results
	if p == PaneLocker {
		items = m.Saved
	}
	return filter.Fuzzy(m.Filter.Value(), items)
}

// Selected returns the thumbnail under the cursor in the focused pane
func (m Model) Selected() (domain.Thumbnail, bool) {
	matches := m.visible(m.Focus)
	c := m.Cursor[m.Focus]
	if c < 0 || c >= len(matches) {
		return domain.Thumbnail{}, false
	}
	return matches[c].Item, true
}

func (m *Model) moveCursor(delta int) {
	n := len(m.visible(m.Focus))
	if n == 0 {
		m.Cursor[m.Focus] = 0
		return
	}
	m.Cursor[m.Focus] = min(max(m.Cursor[m.Focus]+delta, 0), n-1)
}

func (m *Model) clampCursor(p Pane) {
	n := len(m.visible(p))
	if m.Cursor[p] >= n {
		m.Cursor[p] = max(n-1, 0)
	}
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
}

func resultStatus(n int, query string) string {
	switch n {
	case 0:
		return "no results for " + query
	case 1:
		return "1 result for " + query
	default:
		return strconv.Itoa(n) + " results for " + query
	}
}

func failureStatus(f controller.Failure) string {
	switch {
	case errors.Is(f, domain.ErrAuthFailed):
		return "API key rejected, run locker setup"
	case errors.Is(f, domain.ErrNotConfigured):
		return "no API key configured, run locker setup"
	case errors.Is(f, domain.ErrRateLimited):
		return "rate limited, try again later"
	case errors.Is(f, domain.ErrServerOffline):
		return "search API unreachable"
	case errors.Is(f, context.DeadlineExceeded):
		return f.Kind.String() + " timed out"
	default:
		return f.Error()
	}
}
