package parser

import (
	"context"
	"fmt"
	"log/slog"

	"ShelterScanner/internal/config"
	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/ports"
	"ShelterScanner/internal/scanner"
)

// SiteAdapter binds a configured site to its scanner strategy and absorbs
// every failure the strategy reports.
type SiteAdapter struct {
	site    config.SiteConfig
	scanner scanner.Scanner
	logger  *slog.Logger
}

var _ ports.SourceAdapter = (*SiteAdapter)(nil)

// NewSiteAdapter wraps one scanner for one site.
func NewSiteAdapter(site config.SiteConfig, sc scanner.Scanner, log *slog.Logger) *SiteAdapter {
	if log == nil {
		log = slog.Default()
	}
	return &SiteAdapter{site: site, scanner: sc, logger: log.With("site", site.Name)}
}

// NewAdapters resolves the scanner of each configured site from the registry.
func NewAdapters(reg *scanner.Registry, sites []config.SiteConfig, log *slog.Logger) ([]ports.SourceAdapter, error) {
	if reg == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	adapters := make([]ports.SourceAdapter, 0, len(sites))
	for _, site := range sites {
		strategy, err := reg.Resolve(site.Scanner)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}
		adapters = append(adapters, NewSiteAdapter(site, strategy, log))
	}
	return adapters, nil
}

// Name returns the configured site name.
func (a *SiteAdapter) Name() string {
	return a.site.Name
}

// FetchListings runs the scanner and never fails: errors and panics are logged
// and reported as an unreachable source with no listings.
func (a *SiteAdapter) FetchListings(ctx context.Context, location, species string) (result domain.FetchResult) {
	result = domain.FetchResult{Source: a.site.Name}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("scanner panicked", "scanner", a.scanner.Name(), "panic", r)
			result = domain.FetchResult{Source: a.site.Name}
		}
	}()

	req := scanner.Request{
		SiteName: a.site.Name,
		URL:      a.site.URL,
		Location: location,
		Species:  species,
		Options:  a.site.Options,
	}

	a.logger.Debug("fetch listings", "scanner", a.scanner.Name(), "location", location, "species", species)
	listings, err := a.scanner.Scan(ctx, req)
	if err != nil {
		a.logger.Warn("source unavailable", "scanner", a.scanner.Name(), "location", location, "species", species, "error", err)
		return result
	}

	for i := range listings {
		if listings[i].SourceName == "" {
			listings[i].SourceName = a.site.Name
		}
	}

	a.logger.Debug("site produced listings", "count", len(listings))
	result.Listings = listings
	result.Reachable = true
	return result
}
