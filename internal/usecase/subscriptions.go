package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/ports"
)

// SubscriptionService registers who receives critical alerts.
type SubscriptionService struct {
	repo     ports.SubscriptionRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewSubscriptionService wires the subscription store; a nil clock falls
// back to time.Now.
func NewSubscriptionService(repo ports.SubscriptionRepository, now func() time.Time) *SubscriptionService {
	if now == nil {
		now = time.Now
	}
	return &SubscriptionService{repo: repo, validate: validator.New(), now: now}
}

// Subscribe creates or fully replaces the subscription for email. Empty
// regions or species (or the "all" keyword) mean no restriction.
func (s *SubscriptionService) Subscribe(ctx context.Context, email string, regions, species []string) (domain.AlertSubscription, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return domain.AlertSubscription{}, fmt.Errorf("email %q: %w", email, domain.ErrInvalidSubscription)
	}

	normRegions, err := canonicalRegions(regions)
	if err != nil {
		return domain.AlertSubscription{}, err
	}
	normSpecies, err := canonicalSpecies(species)
	if err != nil {
		return domain.AlertSubscription{}, err
	}

	now := s.now().UTC()
	sub, err := s.repo.UpsertSubscription(ctx, domain.AlertSubscription{
		Email:     email,
		Regions:   normRegions,
		Species:   normSpecies,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return domain.AlertSubscription{}, fmt.Errorf("save subscription: %w", err)
	}
	return sub, nil
}

// List returns every stored subscription.
func (s *SubscriptionService) List(ctx context.Context) ([]domain.AlertSubscription, error) {
	subs, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

func canonicalRegions(values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		region := strings.ToUpper(strings.TrimSpace(v))
		if region == "" {
			continue
		}
		if !isRegionCode(region) {
			return nil, fmt.Errorf("region %q: %w", v, domain.ErrInvalidSubscription)
		}
		out = append(out, region)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func canonicalSpecies(values []string) ([]domain.Species, error) {
	out := make([]domain.Species, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if strings.EqualFold(trimmed, domain.AllSpecies) {
			return []domain.Species{}, nil
		}
		species, ok := domain.ParseSpecies(trimmed)
		if !ok {
			return nil, fmt.Errorf("species %q: %w", v, domain.ErrInvalidSubscription)
		}
		out = append(out, species)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
