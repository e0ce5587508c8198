package domain

import (
	"strings"
	"time"
)

// AlertSubscription describes who wants to hear about critical cases. Empty
// Regions or Species mean "all".
type AlertSubscription struct {
	Email     string
	Regions   []string
	Species   []Species
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Matches reports whether the subscription admits the record.
func (s AlertSubscription) Matches(record PetRecord) bool {
	return s.matchesRegion(record.Region) && s.matchesSpecies(record.Species)
}

func (s AlertSubscription) matchesRegion(region *string) bool {
	if len(s.Regions) == 0 {
		return true
	}
	if region == nil {
		return false
	}
	for _, r := range s.Regions {
		if strings.EqualFold(r, *region) {
			return true
		}
	}
	return false
}

func (s AlertSubscription) matchesSpecies(species Species) bool {
	if len(s.Species) == 0 {
		return true
	}
	for _, sp := range s.Species {
		if strings.EqualFold(string(sp), string(species)) {
			return true
		}
	}
	return false
}
