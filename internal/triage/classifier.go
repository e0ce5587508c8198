// Package triage turns raw scrapes into canonical, classified pet records.
package triage

import "ShelterScanner/internal/domain"

const (
	criticalDeadlineDays = 3
	moderateDeadlineDays = 7
	longStayDays         = 30
)

// Classify maps the deadline and shelter-stay fields to an urgency tier.
// A deadline within three days always wins over a long stay.
func Classify(daysUntilDeadline, daysInShelter *int) domain.UrgencyTier {
	switch {
	case daysUntilDeadline != nil && *daysUntilDeadline <= criticalDeadlineDays:
		return domain.TierCritical
	case daysUntilDeadline != nil && *daysUntilDeadline <= moderateDeadlineDays:
		return domain.TierModerate
	case daysInShelter != nil && *daysInShelter > longStayDays:
		return domain.TierModerate
	default:
		return domain.TierLow
	}
}
