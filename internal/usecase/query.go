package usecase

import (
	"context"
	"fmt"
	"strings"

	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/ports"
)

// QueryEngine serves filtered, urgency-ordered reads of active records.
type QueryEngine struct {
	repo ports.PetRepository
}

// NewQueryEngine wires the record store.
func NewQueryEngine(repo ports.PetRepository) *QueryEngine {
	return &QueryEngine{repo: repo}
}

// Search returns active records matching every supplied criterion, most
// urgent first. A zero limit selects the default page size.
func (q *QueryEngine) Search(ctx context.Context, filter domain.PetFilter, page domain.Page) ([]domain.PetRecord, error) {
	filter, page, err := normalizeQuery(filter, page)
	if err != nil {
		return nil, err
	}

	records, err := q.repo.QueryActive(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("query active pets: %w", err)
	}
	if records == nil {
		records = []domain.PetRecord{}
	}
	return records, nil
}

// Get loads one record by id.
func (q *QueryEngine) Get(ctx context.Context, id int64) (domain.PetRecord, error) {
	if id <= 0 {
		return domain.PetRecord{}, fmt.Errorf("pet %d: %w", id, domain.ErrNotFound)
	}
	return q.repo.GetByID(ctx, id)
}

// Archive hides a record from searches without deleting it.
func (q *QueryEngine) Archive(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("pet %d: %w", id, domain.ErrNotFound)
	}
	return q.repo.SetActive(ctx, id, false)
}

// Stats aggregates the active records.
func (q *QueryEngine) Stats(ctx context.Context) (domain.Stats, error) {
	stats, err := q.repo.Stats(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("pet stats: %w", err)
	}
	return stats, nil
}

func normalizeQuery(filter domain.PetFilter, page domain.Page) (domain.PetFilter, domain.Page, error) {
	if page.Limit < 0 || page.Offset < 0 {
		return filter, page, fmt.Errorf("negative limit or offset: %w", domain.ErrInvalidFilter)
	}
	if page.Limit == 0 {
		page.Limit = domain.DefaultPageLimit
	}
	if page.Limit > domain.MaxPageLimit {
		return filter, page, fmt.Errorf("limit %d exceeds %d: %w", page.Limit, domain.MaxPageLimit, domain.ErrInvalidFilter)
	}

	if filter.Region != "" {
		region := strings.ToUpper(strings.TrimSpace(filter.Region))
		if !isRegionCode(region) {
			return filter, page, fmt.Errorf("region %q: %w", filter.Region, domain.ErrInvalidFilter)
		}
		filter.Region = region
	}

	if filter.Species != "" {
		species, ok := domain.ParseSpecies(string(filter.Species))
		if !ok {
			return filter, page, fmt.Errorf("species %q: %w", filter.Species, domain.ErrInvalidFilter)
		}
		filter.Species = species
	}

	if filter.UrgencyTier != "" {
		tier, ok := domain.ParseUrgencyTier(string(filter.UrgencyTier))
		if !ok {
			return filter, page, fmt.Errorf("urgency tier %q: %w", filter.UrgencyTier, domain.ErrInvalidFilter)
		}
		filter.UrgencyTier = tier
	}

	// A negative deadline bound selects overdue animals and is valid.
	for _, bound := range []*int{filter.DaysInShelterMin, filter.DaysInShelterMax} {
		if bound != nil && *bound < 0 {
			return filter, page, fmt.Errorf("negative days in shelter bound: %w", domain.ErrInvalidFilter)
		}
	}
	if filter.DaysInShelterMin != nil && filter.DaysInShelterMax != nil && *filter.DaysInShelterMin > *filter.DaysInShelterMax {
		return filter, page, fmt.Errorf("days in shelter min > max: %w", domain.ErrInvalidFilter)
	}

	return filter, page, nil
}

func isRegionCode(value string) bool {
	if len(value) != 2 {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 'A' || value[i] > 'Z' {
			return false
		}
	}
	return true
}
