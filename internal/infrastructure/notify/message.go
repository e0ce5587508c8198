// Package notify holds alert rendering shared by every delivery channel and
// the channel-independent notifiers.
package notify

import (
	"fmt"
	"strings"

	"ShelterScanner/internal/domain"
)

// Subject renders a one-line alert title.
func Subject(record domain.PetRecord) string {
	where := record.Location
	if where == "" {
		where = record.RegionCode()
	}
	return fmt.Sprintf("Urgent: %s (%s) in %s", record.Name, record.Species, where)
}

// Body renders the plain-text alert message.
func Body(record domain.PetRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s needs a home soon.\n\n", record.Name)
	fmt.Fprintf(&b, "Species: %s\n", record.Species)
	fmt.Fprintf(&b, "Breed: %s\n", record.Breed)
	if record.Age != "" {
		fmt.Fprintf(&b, "Age: %s\n", record.Age)
	}
	fmt.Fprintf(&b, "Location: %s\n", record.Location)
	if record.DaysUntilDeadline != nil {
		fmt.Fprintf(&b, "Days until deadline: %d\n", *record.DaysUntilDeadline)
	}
	if record.DaysInShelter != nil {
		fmt.Fprintf(&b, "Days in shelter: %d\n", *record.DaysInShelter)
	}
	if record.ContactPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", record.ContactPhone)
	}
	if record.ContactEmail != "" {
		fmt.Fprintf(&b, "Email: %s\n", record.ContactEmail)
	}
	if record.SourceURL != "" {
		fmt.Fprintf(&b, "\n%s\n", record.SourceURL)
	}

	return b.String()
}
