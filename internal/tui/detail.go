package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/flexigo/internal/catalog"
)

const (
	promoHeadline = "50% OFF"
	promoBody     = "On all rides today!"
)

// renderDetail draws the right-hand pane for the selected service. panel is
// the rating form when one is open, otherwise empty.
func renderDetail(it *catalog.Item, rating ratingSummary, panel string, width, height int) string {
	if it == nil {
		return lipglossCenter("Select a service", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	name := it.Name
	if it.Favorite {
		name += " " + favoriteTagStyle.Render("♥")
	}
	title := detailTitleStyle.Width(contentWidth).Render(name)
	category := detailCategoryStyle.Render(fmt.Sprintf("%s · #%d", it.Category.Label(), it.ID))

	var body []string
	if it.Promo {
		banner := promoBannerStyle.Render(promoHeadline + "\n" + promoBody)
		body = append(body, banner, "", detailBodyStyle.Render("enter  claim offer"))
	} else {
		body = append(body, detailBodyStyle.Width(contentWidth).Render(wrapText(
			fmt.Sprintf("Book %s now or schedule it for later.", it.Name), contentWidth)))
		body = append(body, "", detailBodyStyle.Render("enter  schedule"))
	}

	ratingLine := "No ratings yet"
	if rating.count > 0 {
		ratingLine = starStyle.Render(starsLabel(rating)) + itemMetaStyle.Render(" · last "+relativeTime(rating.last))
	}
	body = append(body, "", ratingLine)

	if panel != "" {
		body = append(body, "", panel)
	}

	parts := append([]string{title, category, ""}, body...)
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	lines := strings.Split(content, "\n")
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
