package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fkoidl/heimdeck/internal/coffee"
	"github.com/fkoidl/heimdeck/internal/config"
	"github.com/fkoidl/heimdeck/internal/feed"
	"github.com/fkoidl/heimdeck/internal/logger"
	"github.com/fkoidl/heimdeck/internal/rugby"
	"github.com/fkoidl/heimdeck/internal/server"
	"github.com/fkoidl/heimdeck/internal/snapshot"
	"github.com/fkoidl/heimdeck/internal/todo"
	"github.com/fkoidl/heimdeck/internal/weather"
	"github.com/fkoidl/heimdeck/pkg/httpclient"
	"github.com/fkoidl/heimdeck/pkg/notify"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := httpclient.NewRestyClient(cfg.FetchTimeout)

	pipelineOpts := []feed.PipelineOption{
		feed.WithProxies(cfg.PrimaryProxyBase, cfg.BackupProxyBase),
	}
	if cfg.SnapshotPath != "" {
		store, err := snapshot.Open(cfg.SnapshotPath)
		if err != nil {
			return fmt.Errorf("opening snapshot store: %w", err)
		}
		defer store.Close()
		pipelineOpts = append(pipelineOpts, feed.WithSnapshots(store))
	}

	catalog := feed.DefaultCatalog()
	if cfg.SourcesFile != "" {
		if err := catalog.ApplyOverrides(cfg.SourcesFile); err != nil {
			return fmt.Errorf("applying source overrides: %w", err)
		}
	}

	pipeline := feed.NewPipeline(feed.NewResolver(client, log), log, pipelineOpts...)

	var dispatcher *notify.Dispatcher
	if cfg.NotifiersFile != "" {
		sinkCfgs, err := notify.LoadConfig(cfg.NotifiersFile)
		if err != nil {
			return fmt.Errorf("loading notifiers: %w", err)
		}
		sinks, err := notify.Build(ctx, sinkCfgs, log)
		if err != nil {
			return fmt.Errorf("building notifier sinks: %w", err)
		}
		dispatcher = notify.NewDispatcher(sinks, log)
		log.InfoObj("notifier sinks ready", "startup", map[string]any{
			"sinks": len(sinks),
		})
	}

	todos := todo.NewStore()
	go func() {
		changes := todos.Subscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				log.DebugObj("todo store changed", "todo_change", map[string]any{
					"total": todos.Stats().Total,
				})
			}
		}
	}()

	coffees := coffee.NewStore()
	var syncer *coffee.Syncer
	if cfg.CoffeeSyncEnabled {
		syncer = coffee.NewSyncer(client, log, cfg.CoffeeBinID, cfg.CoffeeMasterKey)
	} else {
		syncer = coffee.NewSyncer(client, log, "", "")
	}

	srv := server.New(
		pipeline,
		catalog,
		weather.NewService(client, log, cfg.Latitude, cfg.Longitude),
		rugby.NewCalendar(client, log, cfg.FixturesAPIBase, cfg.FixturesAPIKey),
		todos,
		coffees,
		syncer,
		dispatcher,
		log,
	)

	errCh := make(chan error, 1)
	go func() {
		log.InfoObj("http server listening", "startup", map[string]any{
			"addr": cfg.HTTPAddr,
		})
		errCh <- srv.Start(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
