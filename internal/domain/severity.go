package domain

import "strings"

// Severity classifies closed issues by their severity label for
// resolution-time bucketing.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// Severities lists all buckets in a stable order.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// MatchSeverity maps an issue label to a severity bucket. The match is
// case-insensitive; labels that match no bucket report ok=false and the
// issue is simply excluded from resolution-time stats.
func MatchSeverity(label string) (Severity, bool) {
	for _, s := range Severities {
		if strings.EqualFold(label, string(s)) {
			return s, true
		}
	}
	return "", false
}
