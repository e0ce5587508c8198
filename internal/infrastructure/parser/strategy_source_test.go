package parser

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"ShelterScanner/internal/config"
	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/scanner"
)

type fakeScanner struct {
	name     string
	listings []domain.RawListing
	err      error
	panics   bool
}

func (f fakeScanner) Name() string { return f.name }

func (f fakeScanner) Scan(context.Context, scanner.Request) ([]domain.RawListing, error) {
	if f.panics {
		panic("markup changed")
	}
	return f.listings, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSiteAdapterStampsSourceName(t *testing.T) {
	t.Parallel()

	adapter := NewSiteAdapter(config.SiteConfig{Name: "county"}, fakeScanner{
		name:     "fake",
		listings: []domain.RawListing{{Name: "Rex"}, {Name: "Tom", SourceName: "upstream"}},
	}, quietLogger())

	result := adapter.FetchListings(context.Background(), "Miami, FL", "all")
	if !result.Reachable {
		t.Fatal("expected reachable result")
	}
	if result.Source != "county" {
		t.Fatalf("unexpected source: %s", result.Source)
	}
	if result.Listings[0].SourceName != "county" || result.Listings[1].SourceName != "upstream" {
		t.Fatalf("unexpected source names: %+v", result.Listings)
	}
}

func TestSiteAdapterAbsorbsFailures(t *testing.T) {
	t.Parallel()

	failing := NewSiteAdapter(config.SiteConfig{Name: "down"}, fakeScanner{name: "fake", err: errors.New("connection refused")}, quietLogger())
	result := failing.FetchListings(context.Background(), "Miami, FL", "dog")
	if result.Reachable || len(result.Listings) != 0 {
		t.Fatalf("expected absorbed failure, got %+v", result)
	}

	panicking := NewSiteAdapter(config.SiteConfig{Name: "flaky"}, fakeScanner{name: "fake", panics: true}, quietLogger())
	result = panicking.FetchListings(context.Background(), "Miami, FL", "dog")
	if result.Reachable || len(result.Listings) != 0 || result.Source != "flaky" {
		t.Fatalf("expected absorbed panic, got %+v", result)
	}
}

func TestNewAdapters(t *testing.T) {
	t.Parallel()

	reg := scanner.NewRegistry()
	reg.Register(fakeScanner{name: "fake"})

	adapters, err := NewAdapters(reg, []config.SiteConfig{{Name: "a", Scanner: "fake"}, {Name: "b", Scanner: "fake"}}, quietLogger())
	if err != nil {
		t.Fatalf("NewAdapters error: %v", err)
	}
	if len(adapters) != 2 || adapters[1].Name() != "b" {
		t.Fatalf("unexpected adapters: %v", adapters)
	}

	if _, err := NewAdapters(reg, []config.SiteConfig{{Name: "c", Scanner: "unknown"}}, quietLogger()); err == nil {
		t.Fatal("expected error for unregistered scanner")
	}
	if _, err := NewAdapters(nil, nil, quietLogger()); err == nil {
		t.Fatal("expected error for nil registry")
	}
}
