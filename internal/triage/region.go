package triage

import "regexp"

var regionExpr = regexp.MustCompile(`,\s*([A-Z]{2})\b`)

// ExtractRegion pulls a two-letter region code that follows a comma in a free
// text location. The code must end at a word boundary, so longer uppercase
// words such as "TEXAS" do not match. Unparseable locations yield nil.
func ExtractRegion(location string) *string {
	match := regionExpr.FindStringSubmatch(location)
	if match == nil {
		return nil
	}
	region := match[1]
	return &region
}
