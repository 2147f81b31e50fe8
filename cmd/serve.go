package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stsysd/niwa/api"
	"github.com/stsysd/niwa/catalog"
	"github.com/stsysd/niwa/config"
	"github.com/stsysd/niwa/db"
	"github.com/stsysd/niwa/frost"
	"github.com/stsysd/niwa/garden"
	"github.com/stsysd/niwa/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "port to listen on")
	serveCmd.Flags().Bool("no-frost-lookup", false, "do not query external frost services")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

// newResolver builds the frost resolver chain from configuration.
func newResolver(cfg *config.Config) frost.Resolver {
	if !cfg.Frost.Enabled {
		return frost.Static{Day: cfg.DefaultFrostDay}
	}
	climate := frost.NewClimateResolver(
		frost.NewZipLocator(cfg.Frost.ZipBaseURL),
		frost.NewClimateHistory(cfg.Frost.ClimateBaseURL, cfg.Frost.HistoryYears),
	)
	return frost.NewCached(frost.NewRateLimited(climate, cfg.Frost.RPS, cfg.Frost.Burst), cfg.Frost.CacheTTL)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}
	if off, _ := cmd.Flags().GetBool("no-frost-lookup"); off {
		cfg.Frost.Enabled = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SQLiteストアの初期化（マイグレーション関数を渡す）
	sqliteStore, err := store.NewSQLiteStore(cfg.DataDir, db.Migrate)
	if err != nil {
		return fmt.Errorf("failed to initialize SQLite store: %w", err)
	}
	defer sqliteStore.Close()

	c, err := catalog.New(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("catalog loaded",
		zap.String("path", c.Path()),
		zap.Int("species", len(c.Species())),
	)

	resolver := newResolver(cfg)
	svc := garden.NewService(sqliteStore, c, garden.Config{
		Resolver:        resolver,
		DefaultFrostDay: cfg.DefaultFrostDay,
		Logger:          logger,
	})
	stats, err := svc.Load(ctx)
	if err != nil {
		return err
	}
	logger.Info("state loaded",
		zap.Int("frostDay", svc.FrostDay()),
		zap.Int("checked", stats.Checked),
		zap.Int("replaced", stats.Replaced),
	)

	server := api.NewServer(svc, cfg, logger)
	httpServer := server.NewHTTPServer(":" + cfg.Port)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", zap.String("addr", httpServer.Addr), zap.String("resolver", resolver.Name()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.WatchCatalog && c.Path() != "" {
		watcher, err := catalog.NewWatcher(c, logger)
		if err != nil {
			return fmt.Errorf("failed to create catalog watcher: %w", err)
		}
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("failed to watch catalog: %w", err)
		}
		g.Go(func() error {
			return watchCatalog(ctx, watcher, svc)
		})
	}

	return g.Wait()
}

// watchCatalog re-derives plant snapshots for every catalog reload until
// ctx is done.
func watchCatalog(ctx context.Context, watcher *catalog.Watcher, svc *garden.Service) error {
	defer watcher.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case version, ok := <-watcher.Changes:
			if !ok {
				return nil
			}
			if _, err := svc.OnCatalogReload(ctx, version); err != nil {
				logger.Error("failed to reconcile after catalog reload", zap.Int("version", version), zap.Error(err))
			}
		}
	}
}
