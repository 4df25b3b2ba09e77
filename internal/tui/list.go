package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheuskafuri/flexigo/internal/catalog"
)

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func starsLabel(r ratingSummary) string {
	if r.count == 0 {
		return ""
	}
	return fmt.Sprintf("★ %.1f (%d)", r.avg, r.count)
}

func renderListItem(it catalog.Item, rating ratingSummary, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	name := it.Name
	if it.Favorite {
		name += " ♥"
	}

	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(name, width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(name, width-4))
	}

	meta := "  " + itemCategoryStyle.Render(it.Category.Label())
	if it.Promo {
		meta += " " + itemMetaStyle.Render("· promo")
	}
	if s := starsLabel(rating); s != "" {
		meta += " " + starStyle.Render("· "+s)
	}

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func renderList(items []catalog.Item, ratings map[int]ratingSummary, cursor int, height int, width int) string {
	if len(items) == 0 {
		return lipglossCenter("No services found", width, height)
	}

	// Each item is 2 lines + 1 blank line = 3 lines
	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(items) {
		end = len(items)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(items[i], ratings[items[i].ID], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
