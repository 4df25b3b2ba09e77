package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/flexigo/internal/catalog"
)

// categoryBar is the single-select tab row above the list.
type categoryBar struct {
	categories []catalog.Category
	active     int
}

func newCategoryBar(selected catalog.Category) categoryBar {
	b := categoryBar{categories: catalog.Categories()}
	b.selectCategory(selected)
	return b
}

func (b *categoryBar) current() catalog.Category {
	return b.categories[b.active]
}

func (b *categoryBar) next() catalog.Category {
	b.active = (b.active + 1) % len(b.categories)
	return b.current()
}

func (b *categoryBar) prev() catalog.Category {
	b.active = (b.active - 1 + len(b.categories)) % len(b.categories)
	return b.current()
}

// pick selects by 1-based position; out-of-range leaves the bar unchanged.
func (b *categoryBar) pick(n int) catalog.Category {
	if n >= 1 && n <= len(b.categories) {
		b.active = n - 1
	}
	return b.current()
}

func (b *categoryBar) selectCategory(c catalog.Category) {
	for i, cat := range b.categories {
		if cat == c {
			b.active = i
			return
		}
	}
	b.active = 0
}

func (b *categoryBar) render(width int, favoritesOnly bool) string {
	sep := tabSeparatorStyle.Render(" · ")

	var parts []string
	for i, c := range b.categories {
		style := tabInactiveStyle
		if i == b.active {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%d %s", i+1, c.Label())))
	}
	if favoritesOnly {
		parts = append(parts, favoriteTagStyle.Render("♥ favorites"))
	}

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
