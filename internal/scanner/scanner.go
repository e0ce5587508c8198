package scanner

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"ShelterScanner/internal/domain"
)

// Request carries all parameters required to execute a scan.
type Request struct {
	SiteName string
	URL      string
	Location string
	Species  string
	Options  map[string]string
}

// ResolvedURL substitutes the {location} and {species} placeholders of the
// site URL. An "all" species request expands to an empty value.
func (r Request) ResolvedURL() string {
	species := r.Species
	if strings.EqualFold(species, domain.AllSpecies) {
		species = ""
	}
	replacer := strings.NewReplacer(
		"{location}", url.QueryEscape(r.Location),
		"{species}", url.QueryEscape(strings.ToLower(species)),
	)
	return replacer.Replace(r.URL)
}

// WantsSpecies reports whether a listing of the given species satisfies the
// request's species restriction. Untyped listings are kept: the source was
// already asked for the requested species.
func (r Request) WantsSpecies(species domain.Species) bool {
	if species == "" || r.Species == "" || strings.EqualFold(r.Species, domain.AllSpecies) {
		return true
	}
	return strings.EqualFold(r.Species, string(species))
}

// Scanner captures a single strategy implementation (shelter page, pet API, feed).
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.RawListing, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}
