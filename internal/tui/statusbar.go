package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/flexigo/internal/catalog"
)

func statusHints(m mode) string {
	switch m {
	case modeSearch:
		return " esc clear  enter done "
	case modeRate:
		return " 1-5 stars  enter next  esc cancel "
	case modeComment:
		return " enter submit  esc cancel "
	}
	return " / search  f favs  s sort  r rate  ? help  q quit "
}

func renderStatusBar(count, total int, state catalog.QueryState, width int, m mode) string {
	left := fmt.Sprintf(" %d/%d services · %s", count, total, state.Sort.Label())
	if state.Search != "" {
		left += fmt.Sprintf(" · %q", state.Search)
	}
	if state.FavoritesOnly {
		left += " · " + favoriteTagStyle.Render("♥")
	}

	right := statusHints(m)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
