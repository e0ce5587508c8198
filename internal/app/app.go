package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"ShelterScanner/internal/api"
	"ShelterScanner/internal/config"
	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/infrastructure/mailer"
	"ShelterScanner/internal/infrastructure/notify"
	"ShelterScanner/internal/infrastructure/parser"
	"ShelterScanner/internal/infrastructure/scheduler"
	"ShelterScanner/internal/infrastructure/storage"
	"ShelterScanner/internal/infrastructure/telegram"
	"ShelterScanner/internal/logging"
	"ShelterScanner/internal/metrics"
	"ShelterScanner/internal/ports"
	"ShelterScanner/internal/scanner"
	"ShelterScanner/internal/triage"
	"ShelterScanner/internal/usecase"
	"ShelterScanner/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	log       *slog.Logger
	store     *storage.SQLiteRepository
	metrics   *metrics.Metrics
	pipeline  *usecase.Pipeline
	queries   *usecase.QueryEngine
	subs      *usecase.SubscriptionService
	scheduler *usecase.Scheduler
}

// New opens storage, registers scanners and builds every use case.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage %s: %w", cfg.Database.Path, err)
	}

	httpClient := &http.Client{Timeout: cfg.Ingestion.RequestTimeout}
	registry := scanner.NewRegistry()
	registry.Register(parser.NewShelterPageScanner(httpClient))
	registry.Register(parser.NewPetAPIScanner(resty.New().SetTimeout(cfg.Ingestion.RequestTimeout)))
	registry.Register(parser.NewFeedScanner(httpClient))

	adapters, err := parser.NewAdapters(registry, cfg.Sites, baseLogger.With("component", "source"))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build source adapters: %w", err)
	}

	m := metrics.New()
	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Adapters:    adapters,
		Normalizer:  triage.NewNormalizer(time.Now),
		Persister:   usecase.NewPersister(store, baseLogger),
		Alerts:      usecase.NewAlertMatcher(store),
		Notifier:    buildNotifier(cfg.Notifications, baseLogger),
		Metrics:     m,
		Logger:      baseLogger,
		Concurrency: cfg.Ingestion.Concurrency,
	})

	driver := scheduler.NewIntervalScheduler(cfg.Scheduler.Interval, cfg.Scheduler.Location())

	return &Application{
		cfg:       cfg,
		log:       baseLogger.With("component", "app"),
		store:     store,
		metrics:   m,
		pipeline:  pipeline,
		queries:   usecase.NewQueryEngine(store),
		subs:      usecase.NewSubscriptionService(store, time.Now),
		scheduler: usecase.NewScheduler(driver, pipeline, cfg.Ingestion.Locations, cfg.Ingestion.Species, baseLogger),
	}, nil
}

func buildNotifier(cfg config.NotificationConfig, log *slog.Logger) ports.Notifier {
	var channels notify.Multi
	if cfg.SMTP.Host != "" && cfg.SMTP.From != "" {
		channels = append(channels, mailer.NewNotifier(cfg.SMTP))
	}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		channels = append(channels, telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID))
	}
	if len(channels) == 0 {
		return notify.NewLogNotifier(log)
	}
	return channels
}

// Ingest performs one run over the configured locations and species.
func (a *Application) Ingest(ctx context.Context) (domain.BatchReport, error) {
	return a.pipeline.Run(ctx, a.cfg.Ingestion.Locations, a.cfg.Ingestion.Species)
}

// Subscribe registers an alert subscription.
func (a *Application) Subscribe(ctx context.Context, email string, regions, species []string) (domain.AlertSubscription, error) {
	return a.subs.Subscribe(ctx, email, regions, species)
}

// Handler builds the HTTP surface.
func (a *Application) Handler() http.Handler {
	h := api.NewHandler(a.queries, a.pipeline, a.subs, a.store, a.log)
	return api.NewServer(h, a.metrics.Handler(), a.log)
}

// Serve starts the scheduler and the HTTP listener and blocks until ctx is
// cancelled or the listener fails.
func (a *Application) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.cfg.HTTP.Addr,
		Handler:      a.Handler(),
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
		ErrorLog:     logger.New("http", a.log),
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http listening", "addr", a.cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("http shutdown", "error", err)
	}
	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.log.Error("scheduler stop", "error", err)
	}

	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}
	return nil
}

// Close releases storage.
func (a *Application) Close() error {
	return a.store.Close()
}
