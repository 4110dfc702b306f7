package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/locker/internal/filter"
	"github.com/mmcdole/locker/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if m.Width == 0 {
		return "loading..."
	}

	paneWidth := max((m.Width-4)/2, 20)
	paneHeight := max(m.Height-ChromeHeight-2, 3)

	results := m.renderPane(PaneResults, "Results", paneWidth, paneHeight)
	locker := m.renderPane(PaneLocker, "Locker", paneWidth, paneHeight)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderInputLine(),
		lipgloss.JoinHorizontal(lipgloss.Top, results, locker),
		m.renderStatus(),
		m.renderHelp(),
	)
}

func (m Model) renderInputLine() string {
	if m.Mode == ModeFilter || m.Filter.Value() != "" {
		return m.Filter.View()
	}
	return m.Query.View()
}

func (m Model) renderPane(p Pane, title string, width, height int) string {
	matches := m.visible(p)

	header := styles.TitleStyle.Render(title) + styles.DimStyle.Render(" "+countLabel(len(matches), m.paneLen(p)))
	lines := []string{header}

	rows := height - 1
	offset := 0
	if c := m.Cursor[p]; c >= rows {
		offset = c - rows + 1
	}

	for i := offset; i < len(matches) && i < offset+rows; i++ {
		selected := i == m.Cursor[p] && m.Focus == p && m.Mode != ModeQuery
		lines = append(lines, m.renderRow(matches[i], selected, width-2))
	}
	if len(matches) == 0 {
		lines = append(lines, styles.DimStyle.Render(m.emptyText(p)))
	}

	border := styles.InactiveBorder
	if m.Focus == p {
		border = styles.ActiveBorder
	}
	return border.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) paneLen(p Pane) int {
	if p == PaneLocker {
		return len(m.Saved)
	}
	return len(m.Results)
}

func (m Model) emptyText(p Pane) string {
	switch {
	case p == PaneResults && m.Searching:
		return m.Spinner.View() + " searching"
	case p == PaneResults:
		return "press i to search"
	default:
		return "nothing saved yet"
	}
}

func (m Model) renderRow(match filter.Match, selected bool, width int) string {
	item := match.Item

	icon := styles.ImageIcon
	if item.IsVideo() {
		icon = styles.VideoIcon
	}
	mark := " "
	if m.ctrl.ContainsSaved(item) {
		mark = styles.SavedMark
	}
	cursor := " "
	if selected {
		cursor = styles.AccentStyle.Render(styles.CursorChar)
	}

	date := dateLabel(item.DateTime)
	titleWidth := max(width-len(date)-6, 4)
	title := highlight(truncate(item.Title, titleWidth), match.MatchedIndexes)

	row := cursor + icon + mark + " " + title
	pad := max(width-lipgloss.Width(row)-len(date), 1)
	row += strings.Repeat(" ", pad) + styles.DimStyle.Render(date)

	if selected {
		return styles.SelectedItemStyle.Render(row)
	}
	return styles.NormalItemStyle.Render(row)
}

func (m Model) renderStatus() string {
	if m.Searching {
		return m.Spinner.View() + " " + m.StatusMsg
	}
	if m.StatusIsErr {
		return styles.ErrorStyle.Render(m.StatusMsg)
	}
	return styles.DimStyle.Render(m.StatusMsg)
}

func (m Model) renderHelp() string {
	parts := make([]string, 0, len(Keys.ShortHelp()))
	for _, b := range Keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

// highlight styles the matched rune positions of s
func highlight(s string, matched []int) string {
	if len(matched) == 0 {
		return s
	}
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}

	var b strings.Builder
	for i, r := range []rune(s) {
		if set[i] {
			b.WriteString(styles.MatchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// truncate shortens s to width runes, ending with an ellipsis
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

// dateLabel keeps the date part of an ISO-8601 timestamp
func dateLabel(dt string) string {
	if i := strings.IndexByte(dt, 'T'); i > 0 {
		return dt[:i]
	}
	return dt
}

func countLabel(shown, total int) string {
	if shown == total {
		return "(" + strconv.Itoa(total) + ")"
	}
	return "(" + strconv.Itoa(shown) + "/" + strconv.Itoa(total) + ")"
}
