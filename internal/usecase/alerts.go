package usecase

import (
	"context"
	"fmt"
	"slices"

	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/ports"
)

// AlertMatcher resolves which subscribers should hear about a record.
type AlertMatcher struct {
	subs ports.SubscriptionRepository
}

// NewAlertMatcher wires the subscription store.
func NewAlertMatcher(subs ports.SubscriptionRepository) *AlertMatcher {
	return &AlertMatcher{subs: subs}
}

// Match returns the sorted, de-duplicated emails whose subscriptions admit
// the record.
func (m *AlertMatcher) Match(ctx context.Context, record domain.PetRecord) ([]string, error) {
	if m.subs == nil {
		return nil, nil
	}

	subs, err := m.subs.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	var emails []string
	for _, sub := range subs {
		if sub.Matches(record) {
			emails = append(emails, sub.Email)
		}
	}

	slices.Sort(emails)
	return slices.Compact(emails), nil
}
