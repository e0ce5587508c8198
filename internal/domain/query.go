package domain

// DefaultPageLimit applies when a query does not specify a limit.
const DefaultPageLimit = 50

// MaxPageLimit caps a single page.
const MaxPageLimit = 500

// PetFilter holds optional query criteria. Empty strings and nil pointers
// impose no constraint; supplied criteria are combined with AND.
type PetFilter struct {
	Region               string
	Species              Species
	UrgencyTier          UrgencyTier
	DaysInShelterMin     *int
	DaysInShelterMax     *int
	DaysUntilDeadlineMax *int
}

// Page selects a window of the fully ordered result set.
type Page struct {
	Limit  int
	Offset int
}

// Stats aggregates active records.
type Stats struct {
	Total            int                 `json:"total"`
	ByTier           map[UrgencyTier]int `json:"by_tier"`
	BySpecies        map[Species]int     `json:"by_species"`
	DistinctRegions  int                 `json:"distinct_regions"`
	AvgDaysInShelter *float64            `json:"avg_days_in_shelter"`
}
