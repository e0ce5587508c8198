package storage

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"ShelterScanner/internal/domain"
)

var subscriptionColumns = []string{"email", "regions", "species", "created_at", "updated_at"}

// ListSubscriptions returns every subscription ordered by email.
func (r *SQLiteRepository) ListSubscriptions(ctx context.Context) ([]domain.AlertSubscription, error) {
	query, args, err := r.builder.
		Select(subscriptionColumns...).
		From(subscriptionsTable).
		OrderBy("email").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}

	var result []domain.AlertSubscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		result = append(result, sub)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// UpsertSubscription creates or fully replaces the subscription for sub.Email.
func (r *SQLiteRepository) UpsertSubscription(ctx context.Context, sub domain.AlertSubscription) (domain.AlertSubscription, error) {
	regions, err := json.Marshal(nonNil(sub.Regions))
	if err != nil {
		return domain.AlertSubscription{}, fmt.Errorf("encode regions: %w", err)
	}
	species, err := json.Marshal(nonNil(sub.Species))
	if err != nil {
		return domain.AlertSubscription{}, fmt.Errorf("encode species: %w", err)
	}

	query, args, err := r.builder.
		Insert(subscriptionsTable).
		Columns(subscriptionColumns...).
		Values(sub.Email, string(regions), string(species), formatTime(sub.CreatedAt), formatTime(sub.UpdatedAt)).
		Suffix("ON CONFLICT (email) DO UPDATE SET regions = excluded.regions, species = excluded.species, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return domain.AlertSubscription{}, fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return domain.AlertSubscription{}, fmt.Errorf("upsert subscription: %w", err)
	}

	return r.getSubscription(ctx, sub.Email)
}

func (r *SQLiteRepository) getSubscription(ctx context.Context, email string) (domain.AlertSubscription, error) {
	query, args, err := r.builder.
		Select(subscriptionColumns...).
		From(subscriptionsTable).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return domain.AlertSubscription{}, fmt.Errorf("build query: %w", err)
	}
	return scanSubscription(r.db.QueryRowContext(ctx, query, args...))
}

func scanSubscription(row rowScanner) (domain.AlertSubscription, error) {
	var (
		sub                  domain.AlertSubscription
		regions, species     string
		createdAt, updatedAt string
	)
	if err := row.Scan(&sub.Email, &regions, &species, &createdAt, &updatedAt); err != nil {
		return domain.AlertSubscription{}, fmt.Errorf("scan subscription: %w", err)
	}

	if err := json.Unmarshal([]byte(regions), &sub.Regions); err != nil {
		return domain.AlertSubscription{}, fmt.Errorf("decode regions for %s: %w", sub.Email, err)
	}
	if err := json.Unmarshal([]byte(species), &sub.Species); err != nil {
		return domain.AlertSubscription{}, fmt.Errorf("decode species for %s: %w", sub.Email, err)
	}

	var err error
	if sub.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.AlertSubscription{}, fmt.Errorf("parse created_at: %w", err)
	}
	if sub.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.AlertSubscription{}, fmt.Errorf("parse updated_at: %w", err)
	}

	return sub, nil
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
