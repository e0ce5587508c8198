package domain

import (
	"strings"
	"time"
)

// Species is the canonical animal type shared by every source.
type Species string

const (
	SpeciesDog     Species = "Dog"
	SpeciesCat     Species = "Cat"
	SpeciesUnknown Species = "Unknown"
)

// AllSpecies is the request keyword that lifts the species restriction.
const AllSpecies = "all"

// ParseSpecies resolves a canonical species name case-insensitively.
func ParseSpecies(value string) (Species, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dog":
		return SpeciesDog, true
	case "cat":
		return SpeciesCat, true
	case "unknown":
		return SpeciesUnknown, true
	default:
		return "", false
	}
}

// UrgencyTier ranks how soon an animal runs out of time.
type UrgencyTier string

const (
	TierCritical UrgencyTier = "critical"
	TierModerate UrgencyTier = "moderate"
	TierLow      UrgencyTier = "low"
)

// Rank orders tiers most urgent first: critical=1, moderate=2, low=3.
func (t UrgencyTier) Rank() int {
	switch t {
	case TierCritical:
		return 1
	case TierModerate:
		return 2
	default:
		return 3
	}
}

// ParseUrgencyTier resolves a tier name case-insensitively.
func ParseUrgencyTier(value string) (UrgencyTier, bool) {
	switch UrgencyTier(strings.ToLower(strings.TrimSpace(value))) {
	case TierCritical:
		return TierCritical, true
	case TierModerate:
		return TierModerate, true
	case TierLow:
		return TierLow, true
	default:
		return "", false
	}
}

// RawListing is whatever a source adapter managed to scrape. Any field may be
// empty or malformed.
type RawListing struct {
	SourceName        string
	SourceURL         string
	Name              string
	Species           Species
	Breed             string
	Age               string
	Description       string
	Location          string
	ImageURL          string
	ContactPhone      string
	ContactEmail      string
	DaysInShelter     *int
	DaysUntilDeadline *int
	PostedDate        *time.Time
}

// PetRecord is the canonical, persisted listing.
type PetRecord struct {
	ID                int64
	SourceName        string
	SourceURL         string
	Name              string
	Species           Species
	Breed             string
	Age               string
	Description       string
	Location          string
	Region            *string
	DaysInShelter     *int
	DaysUntilDeadline *int
	UrgencyTier       UrgencyTier
	ContactPhone      string
	ContactEmail      string
	ImageURL          string
	PostedDate        time.Time
	IngestedAt        time.Time
	IsActive          bool
}

// RegionCode returns the region or an empty string when none was derived.
func (p PetRecord) RegionCode() string {
	if p.Region == nil {
		return ""
	}
	return *p.Region
}

// FetchResult is the outcome of one adapter invocation. Reachable is false when
// the adapter absorbed a network or parse failure.
type FetchResult struct {
	Source    string
	Listings  []RawListing
	Reachable bool
}

// IntPtr is a small helper for optional integer fields.
func IntPtr(v int) *int {
	return &v
}

// StringPtr is a small helper for optional string fields.
func StringPtr(v string) *string {
	return &v
}
