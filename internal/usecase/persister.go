package usecase

import (
	"context"
	"log/slog"

	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/ports"
)

// Persister stores normalized records without ever aborting a batch.
type Persister struct {
	repo ports.PetRepository
	log  *slog.Logger
}

// NewPersister wires the repository used for conflict-free inserts.
func NewPersister(repo ports.PetRepository, log *slog.Logger) *Persister {
	if log == nil {
		log = slog.Default()
	}
	return &Persister{repo: repo, log: log.With("component", "persister")}
}

// Persist inserts the record unless an identical one exists. Exact duplicates
// report inserted=false with a nil error. Storage failures are logged and
// returned so the caller can count them; they are never fatal to a batch.
func (p *Persister) Persist(ctx context.Context, record domain.PetRecord) (int64, bool, error) {
	id, inserted, err := p.repo.InsertIfAbsent(ctx, record)
	if err != nil {
		p.log.Error("persist listing",
			"source", record.SourceName,
			"name", record.Name,
			"error", err)
		return 0, false, err
	}
	if !inserted {
		p.log.Debug("duplicate listing skipped", "source", record.SourceName, "name", record.Name)
	}
	return id, inserted, nil
}
