package triage

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ShelterScanner/internal/domain"
)

const unknownBreed = "Unknown"

// Normalizer converts raw listings into canonical records.
type Normalizer struct {
	now   func() time.Time
	title cases.Caser
}

// NewNormalizer builds a normalizer; a nil clock falls back to time.Now.
func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now, title: cases.Title(language.English)}
}

// Normalize fills defaults, derives region and tier and stamps ingestion
// metadata. It reports false for listings without a usable name.
func (n *Normalizer) Normalize(raw domain.RawListing, location, species string) (domain.PetRecord, bool) {
	name := collapseSpaces(raw.Name)
	if name == "" {
		return domain.PetRecord{}, false
	}

	now := n.now().UTC()

	loc := collapseSpaces(raw.Location)
	if loc == "" {
		loc = collapseSpaces(location)
	}

	breed := collapseSpaces(raw.Breed)
	if breed == "" {
		breed = unknownBreed
	} else {
		breed = n.title.String(breed)
	}

	posted := now.Truncate(24 * time.Hour)
	if raw.PostedDate != nil && !raw.PostedDate.IsZero() {
		posted = raw.PostedDate.UTC().Truncate(24 * time.Hour)
	}

	daysInShelter := raw.DaysInShelter
	if daysInShelter != nil && *daysInShelter < 0 {
		daysInShelter = nil
	}

	record := domain.PetRecord{
		SourceName:        strings.TrimSpace(raw.SourceName),
		SourceURL:         strings.TrimSpace(raw.SourceURL),
		Name:              name,
		Species:           resolveSpecies(raw.Species, species),
		Breed:             breed,
		Age:               collapseSpaces(raw.Age),
		Description:       strings.TrimSpace(raw.Description),
		Location:          loc,
		Region:            ExtractRegion(loc),
		DaysInShelter:     daysInShelter,
		DaysUntilDeadline: raw.DaysUntilDeadline,
		ContactPhone:      strings.TrimSpace(raw.ContactPhone),
		ContactEmail:      strings.TrimSpace(raw.ContactEmail),
		ImageURL:          strings.TrimSpace(raw.ImageURL),
		PostedDate:        posted,
		IngestedAt:        now,
		IsActive:          true,
	}
	record.UrgencyTier = Classify(record.DaysUntilDeadline, record.DaysInShelter)

	return record, true
}

// resolveSpecies prefers the species the source stated and falls back to the
// requested one for untyped listings.
func resolveSpecies(scraped domain.Species, requested string) domain.Species {
	if strings.TrimSpace(string(scraped)) != "" {
		if sp, ok := domain.ParseSpecies(string(scraped)); ok {
			return sp
		}
		return domain.SpeciesUnknown
	}
	if sp, ok := domain.ParseSpecies(requested); ok {
		return sp
	}
	return domain.SpeciesUnknown
}

func collapseSpaces(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
