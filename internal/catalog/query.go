package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// SortOption selects the ordering of a query result.
type SortOption int

const (
	NameAsc SortOption = iota
	NameDesc
	CategoryAsc
	CategoryDesc
)

// SortOptions returns all sort options in the order the UI cycles through them.
func SortOptions() []SortOption {
	return []SortOption{NameAsc, NameDesc, CategoryAsc, CategoryDesc}
}

var sortNames = map[SortOption]string{
	NameAsc:      "name",
	NameDesc:     "name-desc",
	CategoryAsc:  "category",
	CategoryDesc: "category-desc",
}

var sortAliases = map[string]SortOption{
	"name":          NameAsc,
	"name-asc":      NameAsc,
	"a-z":           NameAsc,
	"name-desc":     NameDesc,
	"z-a":           NameDesc,
	"category":      CategoryAsc,
	"category-asc":  CategoryAsc,
	"category-desc": CategoryDesc,
}

func (o SortOption) String() string {
	if s, ok := sortNames[o]; ok {
		return s
	}
	return fmt.Sprintf("SortOption(%d)", int(o))
}

// Label is the human-readable name shown in the sort picker.
func (o SortOption) Label() string {
	switch o {
	case NameAsc:
		return "Name (A-Z)"
	case NameDesc:
		return "Name (Z-A)"
	case CategoryAsc:
		return "Category (A-Z)"
	case CategoryDesc:
		return "Category (Z-A)"
	}
	return o.String()
}

// Next returns the option after o, wrapping around.
func (o SortOption) Next() SortOption {
	opts := SortOptions()
	for i, s := range opts {
		if s == o {
			return opts[(i+1)%len(opts)]
		}
	}
	return NameAsc
}

// ParseSortOption maps a flag or config value to a SortOption.
func ParseSortOption(s string) (SortOption, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return NameAsc, nil
	}
	if o, ok := sortAliases[s]; ok {
		return o, nil
	}
	valid := make([]string, 0, len(sortNames))
	for _, o := range SortOptions() {
		valid = append(valid, sortNames[o])
	}
	return NameAsc, fmt.Errorf("unknown sort %q (valid: %s)", s, strings.Join(valid, ", "))
}

// less returns the comparator for o. Equal keys compare as not-less so a
// stable sort keeps input order. It panics on a value outside SortOptions.
func (o SortOption) less() func(a, b Item) bool {
	switch o {
	case NameAsc:
		return func(a, b Item) bool { return a.Name < b.Name }
	case NameDesc:
		return func(a, b Item) bool { return a.Name > b.Name }
	case CategoryAsc:
		return func(a, b Item) bool { return a.Category.Label() < b.Category.Label() }
	case CategoryDesc:
		return func(a, b Item) bool { return a.Category.Label() > b.Category.Label() }
	}
	panic(fmt.Sprintf("catalog: unhandled sort option %d", int(o)))
}

// QueryState is the filter, search and sort selection the user has made.
// It is a value: the With* methods return a modified copy.
type QueryState struct {
	Category      Category
	Search        string
	FavoritesOnly bool
	Sort          SortOption
}

// DefaultQueryState shows every item sorted by name.
func DefaultQueryState() QueryState {
	return QueryState{Category: All, Sort: NameAsc}
}

func (s QueryState) WithCategory(c Category) QueryState {
	s.Category = c
	return s
}

func (s QueryState) WithSearch(text string) QueryState {
	s.Search = text
	return s
}

func (s QueryState) WithFavoritesOnly(on bool) QueryState {
	s.FavoritesOnly = on
	return s
}

func (s QueryState) ToggleFavoritesOnly() QueryState {
	s.FavoritesOnly = !s.FavoritesOnly
	return s
}

func (s QueryState) WithSort(o SortOption) QueryState {
	s.Sort = o
	return s
}

// IsDefault reports whether the state filters nothing out.
func (s QueryState) IsDefault() bool {
	return (s.Category == All || s.Category == "") && s.Search == "" && !s.FavoritesOnly
}

func (s QueryState) matches(it Item, needle string) bool {
	if s.Category != All && s.Category != "" && it.Category != s.Category {
		return false
	}
	if needle != "" && !strings.Contains(strings.ToLower(it.Name), needle) {
		return false
	}
	if s.FavoritesOnly && !it.Favorite {
		return false
	}
	return true
}

// Query filters items by state and returns them in the order state.Sort
// selects. The input slice is left untouched; the result is never nil.
func Query(items []Item, state QueryState) []Item {
	needle := strings.ToLower(state.Search)
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if state.matches(it, needle) {
			out = append(out, it)
		}
	}

	less := state.Sort.less()
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}
