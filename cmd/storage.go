package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/matheuskafuri/flexigo/internal/cache"
	"github.com/matheuskafuri/flexigo/internal/catalog"
	"github.com/matheuskafuri/flexigo/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagPruneOlderThan    string
	flagFeedbackFor       string
	flagFeedbackSince     string
	flagFeedbackSearch    string
	flagFeedbackMinRating int
	flagFeedbackLimit     int
)

var rateCmd = &cobra.Command{
	Use:   "rate <service> <1-5> [comment...]",
	Short: "Rate a service",
	Long: `Record a 1-5 star rating for a service, with an optional comment.

The service is given by ID or by name (case-insensitive).`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		it, err := catalog.New(cfg.Items()).Lookup(args[0])
		if err != nil {
			return err
		}
		rating, err := parseRating(args[1])
		if err != nil {
			return err
		}

		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		fb, err := db.AddFeedback(cmd.Context(), cache.Feedback{
			ServiceID:   it.ID,
			ServiceName: it.Name,
			Rating:      rating,
			Comment:     strings.Join(args[2:], " "),
		})
		if err != nil {
			return fmt.Errorf("saving feedback: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\nThank you for your feedback!\n", fb.ServiceName, cache.Stars(fb.Rating))
		return nil
	},
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "List stored feedback, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		q, err := feedbackQuery(catalog.New(cfg.Items()), time.Now())
		if err != nil {
			return err
		}

		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		list, err := db.GetFeedback(cmd.Context(), q)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No feedback yet.")
			return nil
		}
		return writeFeedback(cmd.OutOrStdout(), list)
	},
}

// feedbackQuery builds the cache query from the feedback flags.
func feedbackQuery(cat *catalog.Catalog, now time.Time) (cache.FeedbackQuery, error) {
	q := cache.FeedbackQuery{
		Search: strings.TrimSpace(flagFeedbackSearch),
		Limit:  flagFeedbackLimit,
	}

	if flagFeedbackFor != "" {
		it, err := cat.Lookup(flagFeedbackFor)
		if err != nil {
			return q, err
		}
		q.ServiceID = it.ID
	}
	if flagFeedbackSince != "" {
		d, err := config.ParseDuration(flagFeedbackSince)
		if err != nil {
			return q, fmt.Errorf("invalid --since value: %w", err)
		}
		q.Since = now.Add(-d)
	}
	if flagFeedbackMinRating != 0 {
		if flagFeedbackMinRating < 1 || flagFeedbackMinRating > 5 {
			return q, fmt.Errorf("invalid --min-rating value %d: %w", flagFeedbackMinRating, cache.ErrInvalidRating)
		}
		q.MinRating = flagFeedbackMinRating
	}
	return q, nil
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old feedback from the local cache",
	Long: `Delete stored feedback older than the retention period.

Uses the retention value from config (default: 90d) unless overridden with --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		retention := cfg.RetentionDuration()
		if flagPruneOlderThan != "" {
			d, err := config.ParseDuration(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			retention = d
		}

		deleted, err := db.Prune(cmd.Context(), retention)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		out := cmd.OutOrStdout()
		if deleted == 0 {
			fmt.Fprintln(out, "Nothing to prune.")
		} else {
			fmt.Fprintf(out, "Pruned %d feedback entr%s older than %s.\n", deleted, plural(deleted, "y", "ies"), formatDuration(retention))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.CachePath()
		db, err := cache.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		count, size, err := db.Stats(cmd.Context(), dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Cache: %s\n", dbPath)
		fmt.Fprintf(out, "Feedback: %d\n", count)
		fmt.Fprintf(out, "Size: %s\n", formatBytes(size))
		if last, err := db.GetLastOpened(cmd.Context()); err == nil {
			fmt.Fprintf(out, "Last opened: %s\n", last.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 30d, 720h)")

	feedbackCmd.Flags().StringVar(&flagFeedbackFor, "service", "", "only this service (ID or name)")
	feedbackCmd.Flags().StringVar(&flagFeedbackSince, "since", "", "only feedback from the last duration (e.g., 7d, 24h)")
	feedbackCmd.Flags().StringVar(&flagFeedbackSearch, "search", "", "only feedback whose comment or service name contains this text")
	feedbackCmd.Flags().IntVar(&flagFeedbackMinRating, "min-rating", 0, "only ratings of at least this many stars (1-5)")
	feedbackCmd.Flags().IntVarP(&flagFeedbackLimit, "limit", "n", 20, "maximum entries to show")
}

func parseRating(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("rating %q is not a number", s)
	}
	if n < 1 || n > 5 {
		return 0, fmt.Errorf("rating %d: %w", n, cache.ErrInvalidRating)
	}
	return n, nil
}

func writeFeedback(w io.Writer, list []cache.Feedback) error {
	for _, fb := range list {
		comment := fb.Comment
		if comment == "" {
			comment = "-"
		}
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			fb.CreatedAt.Local().Format("2006-01-02 15:04"), fb.ServiceName, cache.Stars(fb.Rating), comment)
		if err != nil {
			return err
		}
	}
	return nil
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
