package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matheuskafuri/flexigo/internal/cache"
	"github.com/matheuskafuri/flexigo/internal/catalog"
	"github.com/matheuskafuri/flexigo/internal/config"
	"github.com/matheuskafuri/flexigo/internal/logging"
	"github.com/matheuskafuri/flexigo/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cat := catalog.New(cfg.Items())

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return writeItems(cmd.OutOrStdout(), cat.Query(cfg.DefaultQuery()))
	}

	log, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	db, err := cache.Open(config.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if last, err := db.GetLastOpened(ctx); err == nil && !last.IsZero() {
		log.Info(ctx, "starting", "last_opened", last.Format(time.RFC3339))
	}
	if err := db.SetLastOpened(ctx); err != nil {
		log.Warn(ctx, "recording last opened", "err", err)
	}

	// Old feedback is pruned on launch, the same retention `prune` uses.
	if n, err := db.Prune(ctx, cfg.RetentionDuration()); err != nil {
		log.Warn(ctx, "auto-prune failed", "err", err)
	} else if n > 0 {
		log.Info(ctx, "pruned feedback", "count", n)
	}

	return tui.Run(tui.RunOpts{
		Catalog: cat,
		Store:   db,
		Logger:  log,
		Query:   cfg.DefaultQuery(),
	})
}

func openLogger(cfg *config.Config) (logging.Logger, io.Closer, error) {
	log, closer, err := logging.OpenFile(config.LogPath(), cfg.SlogLevel())
	if err != nil {
		return nil, nil, fmt.Errorf("opening log: %w", err)
	}
	return log, closer, nil
}
