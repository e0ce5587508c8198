package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/metrics"
	"ShelterScanner/internal/ports"
	"ShelterScanner/internal/triage"
)

// ErrAllSourcesUnavailable is returned when no adapter invocation of a run
// could reach its source.
var ErrAllSourcesUnavailable = errors.New("all sources unavailable")

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Adapters    []ports.SourceAdapter
	Normalizer  *triage.Normalizer
	Persister   *Persister
	Alerts      *AlertMatcher
	Notifier    ports.Notifier
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	Concurrency int
	Now         func() time.Time
}

// Pipeline implements the listing-ingestion workflow.
type Pipeline struct {
	adapters    []ports.SourceAdapter
	normalizer  *triage.Normalizer
	persister   *Persister
	alerts      *AlertMatcher
	notifier    ports.Notifier
	metrics     *metrics.Metrics
	log         *slog.Logger
	concurrency int
	now         func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	normalizer := deps.Normalizer
	if normalizer == nil {
		normalizer = triage.NewNormalizer(now)
	}
	concurrency := deps.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Pipeline{
		adapters:    deps.Adapters,
		normalizer:  normalizer,
		persister:   deps.Persister,
		alerts:      deps.Alerts,
		notifier:    deps.Notifier,
		metrics:     deps.Metrics,
		log:         log.With("component", "pipeline"),
		concurrency: concurrency,
		now:         now,
	}
}

type workItem struct {
	location string
	species  string
}

// Run ingests every (location, species) combination. Work items run with
// bounded concurrency; a failing source never stops the others. The report
// is always returned, together with ErrAllSourcesUnavailable when every
// adapter invocation of the run was unreachable.
func (p *Pipeline) Run(ctx context.Context, locations, speciesList []string) (domain.BatchReport, error) {
	started := p.now()
	report := domain.BatchReport{RunID: uuid.NewString(), StartedAt: started}
	log := p.log.With("run_id", report.RunID)

	items := expandWorkItems(locations, speciesList)
	log.Info("ingestion started", "work_items", len(items), "sources", len(p.adapters))

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(p.concurrency)

	for _, item := range items {
		g.Go(func() error {
			itemReport := p.runItem(ctx, log, item)
			mu.Lock()
			report.Add(itemReport)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	report.FinishedAt = p.now()

	var err error
	status := "ok"
	if report.SourcesTried > 0 && report.SourcesFailed == report.SourcesTried {
		err = ErrAllSourcesUnavailable
		status = "unavailable"
	}
	p.metrics.ObserveRun(status, report.FinishedAt.Sub(started), report.FinishedAt)

	log.Info("ingestion finished",
		"status", status,
		"fetched", report.Fetched,
		"persisted", report.Persisted,
		"duplicates", report.Duplicates,
		"discarded", report.Discarded,
		"failed", report.Failed,
		"sources_failed", report.SourcesFailed,
		"alerts", report.Alerts)

	return report, err
}

// RunOne ingests a single work item.
func (p *Pipeline) RunOne(ctx context.Context, location, species string) (domain.BatchReport, error) {
	return p.Run(ctx, []string{location}, []string{species})
}

func expandWorkItems(locations, speciesList []string) []workItem {
	if len(speciesList) == 0 {
		speciesList = []string{domain.AllSpecies}
	}
	items := make([]workItem, 0, len(locations)*len(speciesList))
	for _, location := range locations {
		for _, species := range speciesList {
			items = append(items, workItem{location: location, species: species})
		}
	}
	return items
}

func (p *Pipeline) runItem(ctx context.Context, log *slog.Logger, item workItem) domain.BatchReport {
	report := domain.BatchReport{WorkItems: 1}
	log = log.With("location", item.location, "species", item.species)

	log.Debug("batch state", "state", domain.StatePending)

	log.Debug("batch state", "state", domain.StateFetching, "sources", len(p.adapters))
	results := p.fetchAll(ctx, item)

	var listings []domain.RawListing
	for _, result := range results {
		report.SourcesTried++
		if !result.Reachable {
			report.SourcesFailed++
		}
		p.metrics.ObserveFetch(result.Source, result.Reachable)
		listings = append(listings, result.Listings...)
	}
	report.Fetched = len(listings)

	log.Debug("batch state", "state", domain.StateNormalizing, "listings", len(listings))
	records := make([]domain.PetRecord, 0, len(listings))
	for _, raw := range listings {
		record, ok := p.normalizer.Normalize(raw, item.location, item.species)
		if !ok {
			report.Discarded++
			log.Debug("listing discarded", "source", raw.SourceName, "url", raw.SourceURL)
			continue
		}
		records = append(records, record)
	}

	tiers := make(map[domain.UrgencyTier]int, 3)
	for _, record := range records {
		tiers[record.UrgencyTier]++
	}
	log.Debug("batch state", "state", domain.StateClassifying,
		"critical", tiers[domain.TierCritical],
		"moderate", tiers[domain.TierModerate],
		"low", tiers[domain.TierLow])

	var critical []domain.PetRecord
	if p.persister != nil {
		log.Debug("batch state", "state", domain.StatePersisting, "records", len(records))
		for _, record := range records {
			id, inserted, err := p.persister.Persist(ctx, record)
			switch {
			case err != nil:
				report.Failed++
			case !inserted:
				report.Duplicates++
			default:
				report.Persisted++
				record.ID = id
				if record.UrgencyTier == domain.TierCritical {
					critical = append(critical, record)
				}
			}
		}
	}

	p.metrics.ObserveListings("persisted", report.Persisted)
	p.metrics.ObserveListings("duplicate", report.Duplicates)
	p.metrics.ObserveListings("discarded", report.Discarded)
	p.metrics.ObserveListings("failed", report.Failed)

	if len(critical) > 0 {
		log.Debug("batch state", "state", domain.StateDispatchingAlerts, "critical", len(critical))
		report.Alerts = p.dispatchAlerts(ctx, log, critical)
		p.metrics.ObserveAlerts(report.Alerts)
	}

	log.Debug("batch state", "state", domain.StateDone,
		"fetched", report.Fetched,
		"persisted", report.Persisted)

	return report
}

// fetchAll invokes every adapter concurrently and waits for all of them.
func (p *Pipeline) fetchAll(ctx context.Context, item workItem) []domain.FetchResult {
	results := make([]domain.FetchResult, len(p.adapters))

	var g errgroup.Group
	for i, adapter := range p.adapters {
		g.Go(func() error {
			results[i] = adapter.FetchListings(ctx, item.location, item.species)
			if results[i].Source == "" {
				results[i].Source = adapter.Name()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (p *Pipeline) dispatchAlerts(ctx context.Context, log *slog.Logger, records []domain.PetRecord) int {
	if p.alerts == nil || p.notifier == nil {
		return 0
	}

	sent := 0
	for _, record := range records {
		emails, err := p.alerts.Match(ctx, record)
		if err != nil {
			log.Error("match subscriptions", "pet_id", record.ID, "error", err)
			continue
		}
		if len(emails) == 0 {
			continue
		}

		if err := p.notifier.Notify(ctx, emails, record); err != nil {
			log.Error("notify subscribers",
				"pet_id", record.ID,
				"recipients", len(emails),
				"error", err)
			continue
		}
		sent++
	}

	return sent
}
