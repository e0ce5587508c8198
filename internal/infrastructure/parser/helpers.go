package parser

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ShelterScanner/internal/domain"
)

const userAgent = "ShelterScanner/1.0"

var daysExpr = regexp.MustCompile(`-?\d+`)

// parseDays reads the first integer in free text such as "In shelter 12 days"
// or "Overdue by 2 days". Overdue wording flips the sign.
func parseDays(text string) *int {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	match := daysExpr.FindString(text)
	if match == "" {
		return nil
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	if n > 0 && strings.Contains(strings.ToLower(text), "overdue") {
		n = -n
	}
	return &n
}

// parseDate accepts the date layouts shelters commonly publish.
func parseDate(text string) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "01/02/2006", "2 Jan 2006", "Jan 2, 2006"} {
		if parsed, err := time.Parse(layout, text); err == nil {
			parsed = parsed.UTC()
			return &parsed
		}
	}
	return nil
}

// mapSpecies translates a source taxonomy value. A blank value stays untyped
// so the requested species can fill it in; a stated but unmapped value is
// Unknown.
func mapSpecies(taxonomy map[string]domain.Species, value string) domain.Species {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return ""
	}
	if species, ok := taxonomy[key]; ok {
		return species
	}
	return domain.SpeciesUnknown
}

func intOption(opts map[string]string, key string, def int) int {
	if v, ok := opts[key]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
