package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrItemNotFound = errors.New("item not found")

// Catalog owns the in-memory item collection for the lifetime of the process.
// It is not safe for concurrent use; the UI mutates it between queries.
type Catalog struct {
	items []Item
}

func New(items []Item) *Catalog {
	c := &Catalog{items: make([]Item, len(items))}
	copy(c.items, items)
	return c
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns a copy of the collection in load order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Get(id int) (Item, error) {
	i := c.index(id)
	if i < 0 {
		return Item{}, fmt.Errorf("item %d: %w", id, ErrItemNotFound)
	}
	return c.items[i], nil
}

// Lookup resolves a numeric ID or a case-insensitive exact name.
func (c *Catalog) Lookup(ref string) (Item, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		return c.Get(id)
	}
	for _, it := range c.items {
		if strings.EqualFold(it.Name, ref) {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("item %q: %w", ref, ErrItemNotFound)
}

// ToggleFavorite flips the favorite flag of the item and returns the new value.
func (c *Catalog) ToggleFavorite(id int) (bool, error) {
	i := c.index(id)
	if i < 0 {
		return false, fmt.Errorf("item %d: %w", id, ErrItemNotFound)
	}
	c.items[i].Favorite = !c.items[i].Favorite
	return c.items[i].Favorite, nil
}

func (c *Catalog) Favorites() int {
	n := 0
	for _, it := range c.items {
		if it.Favorite {
			n++
		}
	}
	return n
}

func (c *Catalog) Query(state QueryState) []Item {
	return Query(c.items, state)
}

func (c *Catalog) index(id int) int {
	for i, it := range c.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
