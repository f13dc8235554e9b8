package app

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"ge-lookup/internal/aggregator"
	"ge-lookup/internal/alerting"
	"ge-lookup/internal/catalog"
	"ge-lookup/internal/config"
	"ge-lookup/internal/health"
	"ge-lookup/internal/provider"
	"ge-lookup/internal/scheduler"
	"ge-lookup/internal/search"
	"ge-lookup/internal/server"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newProviders() (*provider.Mapping, *provider.Prices, *provider.Attributes) {
	p := a.Config.Providers

	mapping := provider.NewMapping(provider.MappingOptions{
		BaseURL:   p.Mapping.BaseURL,
		Timeout:   p.Mapping.RequestTimeout,
		UserAgent: p.UserAgent,
	}, a.Logger)

	prices := provider.NewPrices(provider.PricesOptions{
		BaseURL:   p.Prices.BaseURL,
		Timeout:   p.Prices.RequestTimeout,
		UserAgent: p.UserAgent,
	}, a.Logger)

	attributes := provider.NewAttributes(provider.AttributesOptions{
		BaseURL:   p.Attributes.BaseURL,
		Timeout:   p.Attributes.RequestTimeout,
		UserAgent: p.UserAgent,
	}, a.Logger)

	return mapping, prices, attributes
}

func (a *App) newEngine() *search.Engine {
	return search.New(search.Options{
		MaxResults: a.Config.Search.MaxResults,
		ScanCap:    a.Config.Search.ScanCap,
	})
}

func (a *App) newTracker() *health.Tracker {
	tracker := health.NewTracker(a.Logger)

	if a.Config.Alerting.Enabled && a.Config.Alerting.Telegram.Enabled {
		tg := a.Config.Alerting.Telegram
		notifier := alerting.NewTelegramNotifier(tg.BotToken, tg.ChatID, tg.APIBase, 10*time.Second, a.Logger)
		status := alerting.NewStatusNotifier(notifier, a.Config.Alerting.Cooldown, a.Logger)
		tracker.OnTransition(status.OnTransition)
	}

	return tracker
}

// deps bundles everything the serve path and the one-shot commands share.
type deps struct {
	index   *catalog.Index
	tracker *health.Tracker
	agg     *aggregator.Aggregator
	engine  *search.Engine
	probes  map[health.Source]provider.Prober
}

func (a *App) buildDeps() deps {
	mapping, prices, attributes := a.newProviders()

	index := catalog.NewIndex()
	tracker := a.newTracker()
	agg := aggregator.New(mapping, prices, attributes, index, tracker, a.Logger)

	return deps{
		index:   index,
		tracker: tracker,
		agg:     agg,
		engine:  a.newEngine(),
		probes: map[health.Source]provider.Prober{
			health.SourceCatalog:    mapping,
			health.SourcePrices:     prices,
			health.SourceAttributes: attributes,
		},
	}
}

// Run executes the long-running lookup service: initial load, HTTP API,
// background prober, and the optional snapshot refresher.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d := a.buildDeps()

	// The catalog is required; a failed initial load is a blocking,
	// retryable error for the operator.
	if err := d.agg.Load(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("initial load failed")
		return err
	}

	var wg sync.WaitGroup

	prober := health.NewProber(d.tracker, d.probes, health.ProberOptions{
		Interval:     a.Config.Prober.Interval,
		ProbeTimeout: a.Config.Prober.ProbeTimeout,
	}, a.Logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := prober.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.Logger.Error().Err(err).Msg("prober terminated with error")
		}
	}()

	if a.Config.Refresh.Enabled {
		refresher := scheduler.New(scheduler.Options{Interval: a.Config.Refresh.Interval}, a.Logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := refresher.Run(ctx, func(ctx context.Context, at time.Time) error {
				return d.agg.Load(ctx)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				a.Logger.Error().Err(err).Msg("refresher terminated with error")
			}
		}()
	}

	srv := server.New(server.Options{
		Addr:            a.Config.Server.Addr,
		ShutdownTimeout: a.Config.Server.ShutdownTimeout,
	}, d.engine, d.index, d.agg, d.tracker, a.Logger)

	a.Logger.Info().Msg("starting lookup service")
	err := srv.Run(ctx)
	cancel()
	wg.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("lookup service stopped")
	return nil
}

// SearchOptions configure the one-shot search command.
type SearchOptions struct {
	Query string
}

// ShowOptions configure the show command.
type ShowOptions struct {
	ID int64
}

// ExportOptions hold parameters for exporting the current top margins.
type ExportOptions struct {
	CSVPath string
	PNGPath string
	TopN    int
}
