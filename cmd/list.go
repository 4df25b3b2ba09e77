package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/matheuskafuri/flexigo/internal/catalog"
	"github.com/matheuskafuri/flexigo/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagListCategory  string
	flagListSearch    string
	flagListFavorites bool
	flagListSort      string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print services matching a query",
	Long: `Run one query over the configured services and print the result, one
service per line, tab-separated: id, name, category, flags.

Unset flags fall back to the defaults in config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		state, err := listQuery(cmd, cfg.DefaultQuery())
		if err != nil {
			return err
		}

		return writeItems(cmd.OutOrStdout(), catalog.Query(cfg.Items(), state))
	},
}

func init() {
	listCmd.Flags().StringVarP(&flagListCategory, "category", "c", "", "category: all, transport, shopping, food")
	listCmd.Flags().StringVarP(&flagListSearch, "search", "s", "", "case-insensitive name filter")
	listCmd.Flags().BoolVarP(&flagListFavorites, "favorites", "f", false, "only show favorites")
	listCmd.Flags().StringVar(&flagListSort, "sort", "", "name, name-desc, category, category-desc")
}

// listQuery layers the flags the user actually set on top of base.
func listQuery(cmd *cobra.Command, base catalog.QueryState) (catalog.QueryState, error) {
	state := base
	flags := cmd.Flags()

	if flags.Changed("category") {
		c, err := catalog.ParseCategory(flagListCategory)
		if err != nil {
			return state, fmt.Errorf("invalid --category: %w", err)
		}
		state = state.WithCategory(c)
	}
	if flags.Changed("search") {
		state = state.WithSearch(flagListSearch)
	}
	if flags.Changed("favorites") {
		state = state.WithFavoritesOnly(flagListFavorites)
	}
	if flags.Changed("sort") {
		o, err := catalog.ParseSortOption(flagListSort)
		if err != nil {
			return state, fmt.Errorf("invalid --sort: %w", err)
		}
		state = state.WithSort(o)
	}
	return state, nil
}

func writeItems(w io.Writer, items []catalog.Item) error {
	for _, it := range items {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", it.ID, it.Name, it.Category.Label(), itemFlags(it)); err != nil {
			return err
		}
	}
	return nil
}

func itemFlags(it catalog.Item) string {
	var flags []string
	if it.Favorite {
		flags = append(flags, "favorite")
	}
	if it.Promo {
		flags = append(flags, "promo")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}
