package main

import (
	"context"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/square-menu/internal/config"
	"github.com/Sternrassler/square-menu/pkg/cache"
	"github.com/Sternrassler/square-menu/pkg/catalog"
	"github.com/Sternrassler/square-menu/pkg/logging"
	"github.com/Sternrassler/square-menu/pkg/square"
)

// app holds the dependencies shared by subcommands. They are built lazily so
// that commands which do not need Redis never dial it.
type app struct {
	envFiles []string
	verbose  bool

	cfg   *config.Config
	redis *redis.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "menuctl",
		Short:         "Operate the Square menu backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelWarn
			if a.verbose {
				level = logging.LevelDebug
			}
			logging.Setup(logging.Config{Level: level, Pretty: true, Output: cmd.ErrOrStderr()})

			cfg, err := config.Load(a.envFiles...)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.redis != nil {
				a.redis.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "Env files to load (default .env.local, .env)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(a.locationsCmd())
	rootCmd.AddCommand(a.menuCmd())
	rootCmd.AddCommand(a.categoriesCmd())
	rootCmd.AddCommand(a.invalidateCmd())
	rootCmd.AddCommand(a.seedCmd())

	return rootCmd
}

func (a *app) squareClient() (*square.Client, error) {
	return square.New(a.cfg.Square())
}

func (a *app) cacheManager() (*cache.Manager, error) {
	if a.redis == nil {
		client, err := cache.Connect(a.cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.redis = client
	}
	return cache.NewManager(a.redis), nil
}

// catalogService builds the catalog service. With fresh set the cache is
// neither read nor written.
func (a *app) catalogService(fresh bool) (*catalog.Service, error) {
	client, err := a.squareClient()
	if err != nil {
		return nil, err
	}

	var store catalog.Store = noCache{}
	if !fresh {
		manager, err := a.cacheManager()
		if err != nil {
			return nil, err
		}
		store = manager
	}

	cfg := catalog.DefaultConfig()
	cfg.TTL = a.cfg.CacheTTL
	return catalog.New(client, store, cfg), nil
}

// noCache is a Store that never hits.
type noCache struct{}

func (noCache) Get(ctx context.Context, key cache.Key, dst any) bool {
	return false
}

func (noCache) Set(ctx context.Context, key cache.Key, value any, ttl time.Duration) {}

func commandContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
