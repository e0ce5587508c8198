package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/infrastructure/storage"
)

var fixedNow = time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openStore(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.Open(filepath.Join(t.TempDir(), "pipeline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

type fakeAdapter struct {
	name      string
	listings  []domain.RawListing
	reachable bool

	mu    sync.Mutex
	calls []string
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) FetchListings(_ context.Context, location, species string) domain.FetchResult {
	f.mu.Lock()
	f.calls = append(f.calls, location+"|"+species)
	f.mu.Unlock()

	if !f.reachable {
		return domain.FetchResult{Source: f.name}
	}
	out := make([]domain.RawListing, len(f.listings))
	copy(out, f.listings)
	for i := range out {
		out[i].SourceName = f.name
	}
	return domain.FetchResult{Source: f.name, Listings: out, Reachable: true}
}

type notification struct {
	emails []string
	record domain.PetRecord
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, emails []string, record domain.PetRecord) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, notification{emails: emails, record: record})
	return nil
}

// failingRepo rejects every insert and delegates nothing else.
type failingRepo struct{}

var errDiskFull = errors.New("disk full")

func (failingRepo) InsertIfAbsent(context.Context, domain.PetRecord) (int64, bool, error) {
	return 0, false, errDiskFull
}

func (failingRepo) QueryActive(context.Context, domain.PetFilter, domain.Page) ([]domain.PetRecord, error) {
	return nil, errDiskFull
}

func (failingRepo) GetByID(context.Context, int64) (domain.PetRecord, error) {
	return domain.PetRecord{}, errDiskFull
}

func (failingRepo) SetActive(context.Context, int64, bool) error { return errDiskFull }

func (failingRepo) Stats(context.Context) (domain.Stats, error) {
	return domain.Stats{}, errDiskFull
}

type recordingRepo struct {
	failingRepo
	filter domain.PetFilter
	page   domain.Page
}

func (r *recordingRepo) QueryActive(_ context.Context, filter domain.PetFilter, page domain.Page) ([]domain.PetRecord, error) {
	r.filter = filter
	r.page = page
	return nil, nil
}
