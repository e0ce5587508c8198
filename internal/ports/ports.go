package ports

import (
	"context"
	"time"

	"ShelterScanner/internal/domain"
)

// SourceAdapter pulls listings from one external source. It never fails:
// network and parse errors are logged by the adapter and reported as an
// unreachable, empty result.
type SourceAdapter interface {
	Name() string
	FetchListings(ctx context.Context, location, species string) domain.FetchResult
}

// PetRepository persists pet records and serves filtered reads.
type PetRepository interface {
	// InsertIfAbsent stores the record unless an identical row exists. The
	// boolean is false for an exact duplicate, in which case id is zero.
	InsertIfAbsent(ctx context.Context, record domain.PetRecord) (id int64, inserted bool, err error)
	QueryActive(ctx context.Context, filter domain.PetFilter, page domain.Page) ([]domain.PetRecord, error)
	GetByID(ctx context.Context, id int64) (domain.PetRecord, error)
	// SetActive flips the soft-delete flag; records are never hard-deleted.
	SetActive(ctx context.Context, id int64, active bool) error
	Stats(ctx context.Context) (domain.Stats, error)
}

// SubscriptionRepository stores alert subscriptions keyed by email.
type SubscriptionRepository interface {
	ListSubscriptions(ctx context.Context) ([]domain.AlertSubscription, error)
	UpsertSubscription(ctx context.Context, sub domain.AlertSubscription) (domain.AlertSubscription, error)
}

// Notifier delivers alerts for a record to the given recipients.
type Notifier interface {
	Notify(ctx context.Context, emails []string, record domain.PetRecord) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
