package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/flexigo/internal/cache"
	"github.com/matheuskafuri/flexigo/internal/catalog"
	"github.com/matheuskafuri/flexigo/internal/logging"
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeHelp
	modeRate
	modeComment
)

const (
	thanksNotice   = "Thank you for your feedback!"
	recommendCount = 3
)

// feedbackStore is the part of the cache the UI writes ratings to.
type feedbackStore interface {
	AddFeedback(ctx context.Context, fb cache.Feedback) (cache.Feedback, error)
	GetFeedback(ctx context.Context, q cache.FeedbackQuery) ([]cache.Feedback, error)
	AverageRating(ctx context.Context, serviceID int) (float64, int, error)
}

type App struct {
	catalog *catalog.Catalog
	store   feedbackStore
	log     logging.Logger
	keys    keyMap

	state   catalog.QueryState
	visible []catalog.Item
	cursor  int
	mode    mode

	width  int
	height int

	// Sub-components
	categoryBar  categoryBar
	searchInput  textinput.Model
	commentInput textinput.Model

	rng         *rand.Rand
	recommended []catalog.Item

	ratings     map[int]ratingSummary
	stars       int
	notice      string
	err         error
	currentDate string
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Catalog *catalog.Catalog
	Store   feedbackStore // optional; rating is disabled without it
	Logger  logging.Logger
	Query   catalog.QueryState
	Rand    *rand.Rand // optional; seeds the recommendations
}

func NewApp(opts RunOpts) *App {
	si := textinput.New()
	si.Placeholder = "Search services..."
	si.Prompt = searchPromptStyle.Render("/ ")
	si.CharLimit = 100

	ci := textinput.New()
	ci.Placeholder = "Leave a comment..."
	ci.CharLimit = 280

	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	a := &App{
		catalog:      opts.Catalog,
		store:        opts.Store,
		log:          log.With("component", "tui"),
		keys:         defaultKeyMap(),
		state:        opts.Query,
		categoryBar:  newCategoryBar(opts.Query.Category),
		searchInput:  si,
		commentInput: ci,
		rng:          rng,
		ratings:      make(map[int]ratingSummary),
		currentDate:  time.Now().Format("Jan 2"),
	}
	a.recommended = catalog.Recommend(a.catalog.Items(), recommendCount, a.rng)
	a.searchInput.SetValue(opts.Query.Search)
	a.requery()
	return a
}

func (a *App) Init() tea.Cmd {
	if a.store == nil {
		return nil
	}
	items := a.catalog.Items()
	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return loadRatingsCmd(a.store, ids)
}

// setState replaces the query state and recomputes the visible list.
func (a *App) setState(next catalog.QueryState) {
	a.state = next
	a.requery()
}

// requery rebuilds the visible list from scratch, keeping the selected
// service under the cursor when it survives the new filter.
func (a *App) requery() {
	selectedID := -1
	if it := a.selected(); it != nil {
		selectedID = it.ID
	}

	a.visible = a.catalog.Query(a.state)

	a.cursor = 0
	for i, it := range a.visible {
		if it.ID == selectedID {
			a.cursor = i
			break
		}
	}

	a.log.Debug(context.Background(), "query",
		"category", a.state.Category,
		"search", a.state.Search,
		"favorites_only", a.state.FavoritesOnly,
		"sort", a.state.Sort.String(),
		"results", len(a.visible),
	)
}

func (a *App) selected() *catalog.Item {
	if a.cursor < 0 || a.cursor >= len(a.visible) {
		return nil
	}
	return &a.visible[a.cursor]
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky messages on any keypress
		a.err = nil
		a.notice = ""
		return a.handleKey(msg)

	case ratingsLoadedMsg:
		for id, r := range msg.ratings {
			a.ratings[id] = r
		}
		return a, nil

	case feedbackSavedMsg:
		a.ratings[msg.feedback.ServiceID] = msg.summary
		a.notice = thanksNotice
		a.log.Info(context.Background(), "feedback saved",
			"service", msg.feedback.ServiceName,
			"rating", msg.feedback.Rating,
		)
		return a, nil

	case errMsg:
		a.err = msg.err
		a.log.Error(context.Background(), "ui error", "err", msg.err)
		return a, nil
	}

	// Cursor blink and other input-internal messages.
	var cmd tea.Cmd
	switch a.mode {
	case modeSearch:
		a.searchInput, cmd = a.searchInput.Update(msg)
	case modeComment:
		a.commentInput, cmd = a.commentInput.Update(msg)
	}
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeRate:
		return a.handleRateKey(msg)
	case modeComment:
		return a.handleCommentKey(msg)
	case modeHelp:
		switch msg.String() {
		case "?", "esc", "q":
			a.mode = modeNormal
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.visible)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.NextCategory):
		a.setState(a.state.WithCategory(a.categoryBar.next()))

	case key.Matches(msg, a.keys.PrevCategory):
		a.setState(a.state.WithCategory(a.categoryBar.prev()))

	case key.Matches(msg, a.keys.PickCategory):
		n := int(msg.String()[0] - '0')
		a.setState(a.state.WithCategory(a.categoryBar.pick(n)))

	case key.Matches(msg, a.keys.Search):
		a.mode = modeSearch
		a.searchInput.Focus()
		return a, textinput.Blink

	case key.Matches(msg, a.keys.Favorites):
		a.setState(a.state.ToggleFavoritesOnly())

	case key.Matches(msg, a.keys.Favorite):
		return a, a.toggleFavorite()

	case key.Matches(msg, a.keys.Sort):
		a.setState(a.state.WithSort(a.state.Sort.Next()))
		a.notice = "Sorted by " + a.state.Sort.Label()

	case key.Matches(msg, a.keys.Select):
		if it := a.selected(); it != nil {
			if it.Promo {
				a.notice = fmt.Sprintf("%s claimed: %s", promoHeadline, strings.ToLower(promoBody))
			} else {
				a.notice = fmt.Sprintf("Scheduling %s...", it.Name)
			}
		}

	case key.Matches(msg, a.keys.Rate):
		if a.selected() == nil {
			return a, nil
		}
		if a.store == nil {
			a.err = fmt.Errorf("ratings are unavailable: no feedback store")
			return a, nil
		}
		a.mode = modeRate
		a.stars = 0

	case key.Matches(msg, a.keys.Refresh):
		a.recommended = catalog.Recommend(a.catalog.Items(), recommendCount, a.rng)
		a.notice = "Recommendations refreshed"

	case key.Matches(msg, a.keys.Reset):
		a.searchInput.SetValue("")
		a.categoryBar.selectCategory(catalog.All)
		a.setState(catalog.DefaultQueryState().WithSort(a.state.Sort))

	case key.Matches(msg, a.keys.Help):
		a.mode = modeHelp
	}

	return a, nil
}

func (a *App) toggleFavorite() tea.Cmd {
	it := a.selected()
	if it == nil {
		return nil
	}
	id, name := it.ID, it.Name
	on, err := a.catalog.ToggleFavorite(id)
	if err != nil {
		return func() tea.Msg { return errMsg{err: err} }
	}
	a.requery()
	if on {
		a.notice = name + " added to favorites"
	} else {
		a.notice = name + " removed from favorites"
	}
	return nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		a.setState(a.state.WithSearch(""))
		return a, nil
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	// Only re-query on actual value changes, not cursor moves etc.
	if v := a.searchInput.Value(); v != a.state.Search {
		a.setState(a.state.WithSearch(v))
	}
	return a, cmd
}

func (a *App) handleRateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch s := msg.String(); s {
	case "1", "2", "3", "4", "5":
		a.stars = int(s[0] - '0')
	case "enter":
		if a.stars == 0 {
			return a, nil
		}
		a.mode = modeComment
		a.commentInput.SetValue("")
		a.commentInput.Focus()
		return a, textinput.Blink
	case "esc", "q":
		a.mode = modeNormal
		a.stars = 0
	}
	return a, nil
}

func (a *App) handleCommentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.stars = 0
		a.commentInput.Blur()
		return a, nil
	case "enter":
		it := a.selected()
		a.mode = modeNormal
		a.commentInput.Blur()
		if it == nil {
			return a, nil
		}
		fb := cache.Feedback{
			ServiceID:   it.ID,
			ServiceName: it.Name,
			Rating:      a.stars,
			Comment:     a.commentInput.Value(),
		}
		a.stars = 0
		return a, saveFeedbackCmd(a.store, fb)
	}

	var cmd tea.Cmd
	a.commentInput, cmd = a.commentInput.Update(msg)
	return a, cmd
}

func saveFeedbackCmd(store feedbackStore, fb cache.Feedback) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		saved, err := store.AddFeedback(ctx, fb)
		if err != nil {
			return errMsg{err: err}
		}
		summary, err := loadSummary(ctx, store, fb.ServiceID)
		if err != nil {
			return errMsg{err: err}
		}
		return feedbackSavedMsg{feedback: saved, summary: summary}
	}
}

func loadRatingsCmd(store feedbackStore, ids []int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ratings := make(map[int]ratingSummary, len(ids))
		for _, id := range ids {
			r, err := loadSummary(ctx, store, id)
			if err != nil {
				return errMsg{err: err}
			}
			if r.count > 0 {
				ratings[id] = r
			}
		}
		return ratingsLoadedMsg{ratings: ratings}
	}
}

func loadSummary(ctx context.Context, store feedbackStore, serviceID int) (ratingSummary, error) {
	avg, n, err := store.AverageRating(ctx, serviceID)
	if err != nil {
		return ratingSummary{}, err
	}
	r := ratingSummary{avg: avg, count: n}
	if n > 0 {
		latest, err := store.GetFeedback(ctx, cache.FeedbackQuery{ServiceID: serviceID, Limit: 1})
		if err != nil {
			return ratingSummary{}, err
		}
		if len(latest) > 0 {
			r.last = latest[0].CreatedAt
		}
	}
	return r, nil
}

func (a *App) ratingPanel() string {
	switch a.mode {
	case modeRate:
		return detailTitleStyle.Render("Rate Our Services") + "\n" +
			starStyle.Render(cache.Stars(a.stars)) + helpDimStyle.Render("  press 1-5")
	case modeComment:
		return detailTitleStyle.Render("Rate Our Services") + "\n" +
			starStyle.Render(cache.Stars(a.stars)) + "\n" + a.commentInput.View()
	}
	return ""
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  flexigo")
	}

	if a.mode == modeHelp {
		return a.renderHelp()
	}

	// Layout calculations
	headerHeight := 1
	filterHeight := 1
	statusHeight := 1
	noticeHeight := 1
	recommendHeight := 1
	contentHeight := a.height - headerHeight - filterHeight - recommendHeight - statusHeight - noticeHeight - 2 // borders

	listWidth := int(float64(a.width) * 0.4)
	detailWidth := a.width - listWidth - 1 // gap

	if contentHeight < 3 {
		contentHeight = 3
	}

	// Header
	headerLeft := headerStyle.Render("flexigo")
	headerRight := headerDateStyle.Render(a.currentDate)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	filter := a.categoryBar.render(a.width, a.state.FavoritesOnly)
	if a.mode == modeSearch {
		filter = a.searchInput.View()
	}

	innerListW := listWidth - 4 // border + padding
	listContent := renderList(a.visible, a.ratings, a.cursor, contentHeight, innerListW)
	listPane := listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)

	innerDetailW := detailWidth - 4
	var rating ratingSummary
	if it := a.selected(); it != nil {
		rating = a.ratings[it.ID]
	}
	detailContent := renderDetail(a.selected(), rating, a.ratingPanel(), innerDetailW, contentHeight)
	detailPane := detailPaneStyle.Width(detailWidth - 2).Height(contentHeight).Render(detailContent)

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, " ", detailPane)

	status := renderStatusBar(len(a.visible), a.catalog.Len(), a.state, a.width, a.mode)

	notice := ""
	switch {
	case a.err != nil:
		notice = errorStyle.Render(" " + a.err.Error())
	case a.notice != "":
		notice = noticeStyle.Render(" " + a.notice)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, filter, a.renderRecommendations(), content, status, notice)
}

func (a *App) renderRecommendations() string {
	names := make([]string, len(a.recommended))
	for i, it := range a.recommended {
		names[i] = it.Name
	}
	label := "Recommended for You"
	list := truncateStr(strings.Join(names, " · "), a.width-len(label)-3)
	return " " + recommendLabelStyle.Render(label) + "  " + recommendItemStyle.Render(list)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("flexigo")
	dim := helpDimStyle

	help := title + dim.Render(" · Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓      Move through services\n" +
		"  h/l, ←/→      Previous / next category\n" +
		"  1-4           Jump to category\n\n" +
		dim.Render("Query") + "\n" +
		"  /             Search by name\n" +
		"  f             Favorites only\n" +
		"  s             Cycle sort order\n" +
		"  x, esc        Reset filters\n\n" +
		dim.Render("Actions") + "\n" +
		"  space         Toggle favorite\n" +
		"  enter         Claim promo / schedule\n" +
		"  r             Rate the selected service\n" +
		"  R             New recommendations\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c     Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
