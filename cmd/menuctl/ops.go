package main

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/square-menu/internal/seed"
	"github.com/Sternrassler/square-menu/pkg/cache"
	"github.com/Sternrassler/square-menu/pkg/square"
)

const invalidateLong = `Evict cached views the same way a catalog.version.updated webhook does.
With --all the cached location list is evicted as well.`

const seedLong = `Upsert four categories and twelve items into the configured Square account.
With --clean every ITEM, CATEGORY and IMAGE is deleted first. Intended for
sandbox accounts.`

func (a *app) invalidateCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Evict cached menus and category counts",
		Long:  invalidateLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := a.cacheManager()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, 30*time.Second)
			defer cancel()

			if err := manager.Ping(ctx); err != nil {
				return errors.Wrapf(err, "redis unreachable at %s", a.cfg.RedisURL)
			}

			patterns := []string{cache.CatalogKey("").Pattern(), cache.CategoriesKey("").Pattern()}
			if all {
				patterns = append(patterns, cache.LocationsKey().String())
			}
			for _, pattern := range patterns {
				n := manager.Invalidate(ctx, pattern)
				fmt.Fprintf(out(cmd), "%-14s %d keys\n", pattern, n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Also evict the location list")
	return cmd
}

func (a *app) seedCmd() *cobra.Command {
	var clean bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a sample café menu into the Square catalog",
		Long:  seedLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clean && a.cfg.SquareEnvironment == "production" && a.cfg.SquareBaseURL == "" {
				return errors.New("refusing to clean a production catalog")
			}

			client, err := a.squareClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, 5*time.Minute)
			defer cancel()

			res, err := seed.New(client, square.DefaultRetryConfig()).Run(ctx, clean)
			if err != nil {
				return err
			}

			if clean {
				fmt.Fprintf(out(cmd), "Deleted %d objects.\n", res.Deleted)
			}
			fmt.Fprintf(out(cmd), "Created %d catalog objects.\n", res.Created)
			return nil
		},
	}
	cmd.Flags().BoolVar(&clean, "clean", false, "Delete existing catalog objects first")
	return cmd
}
