package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShelterScanner/internal/domain"
)

func fixedClock() time.Time {
	return time.Date(2026, time.March, 14, 15, 30, 0, 0, time.UTC)
}

func TestNormalizeFillsDefaults(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(fixedClock)
	record, ok := n.Normalize(domain.RawListing{
		SourceName:        "county-shelter",
		SourceURL:         "https://shelter.example.org/pets/42",
		Name:              "  Biscuit  ",
		Breed:             "golden  RETRIEVER",
		Location:          "Miami, FL",
		DaysUntilDeadline: domain.IntPtr(2),
	}, "Miami, FL", "dog")
	require.True(t, ok)

	assert.Equal(t, "Biscuit", record.Name)
	assert.Equal(t, domain.SpeciesDog, record.Species)
	assert.Equal(t, "Golden Retriever", record.Breed)
	require.NotNil(t, record.Region)
	assert.Equal(t, "FL", *record.Region)
	assert.Equal(t, domain.TierCritical, record.UrgencyTier)
	assert.True(t, record.IsActive)
	assert.Equal(t, fixedClock(), record.IngestedAt)
	assert.Equal(t, time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC), record.PostedDate)
}

func TestNormalizeDiscardsNameless(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(fixedClock)
	_, ok := n.Normalize(domain.RawListing{Name: "   ", Breed: "Beagle"}, "Austin, TX", "all")
	assert.False(t, ok)
}

func TestNormalizeSpeciesResolution(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(fixedClock)

	rec, ok := n.Normalize(domain.RawListing{Name: "Tom", Species: domain.SpeciesCat}, "", "dog")
	require.True(t, ok)
	assert.Equal(t, domain.SpeciesCat, rec.Species, "scraped species wins over the request")

	rec, ok = n.Normalize(domain.RawListing{Name: "Rex"}, "", "all")
	require.True(t, ok)
	assert.Equal(t, domain.SpeciesUnknown, rec.Species)
	assert.Equal(t, "Unknown", rec.Breed)

	rec, ok = n.Normalize(domain.RawListing{Name: "Biscuit"}, "", "dog")
	require.True(t, ok)
	assert.Equal(t, domain.SpeciesDog, rec.Species, "untyped listing takes the requested species")

	rec, ok = n.Normalize(domain.RawListing{Name: "Thumper", Species: domain.SpeciesUnknown}, "", "dog")
	require.True(t, ok)
	assert.Equal(t, domain.SpeciesUnknown, rec.Species, "a stated species is not overridden")
}

func TestNormalizeRecomputesTierAndUsesRequestLocation(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(fixedClock)
	posted := time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)

	rec, ok := n.Normalize(domain.RawListing{
		Name:          "Mittens",
		DaysInShelter: domain.IntPtr(45),
		PostedDate:    &posted,
	}, "Dallas, TX", "cat")
	require.True(t, ok)

	assert.Equal(t, "Dallas, TX", rec.Location)
	require.NotNil(t, rec.Region)
	assert.Equal(t, "TX", *rec.Region)
	assert.Equal(t, domain.TierModerate, rec.UrgencyTier)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), rec.PostedDate)
}

func TestNormalizeDropsNegativeShelterDays(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(fixedClock)
	rec, ok := n.Normalize(domain.RawListing{Name: "Ghost", DaysInShelter: domain.IntPtr(-4)}, "Unknown", "all")
	require.True(t, ok)
	assert.Nil(t, rec.DaysInShelter)
	assert.Nil(t, rec.Region)
	assert.Equal(t, domain.TierLow, rec.UrgencyTier)
}
