package Aggregation

import "strings"

// nonProblemStatuses is the controlled "no issue" vocabulary. Client data
// contains both accented and unaccented spellings; both are kept verbatim.
var nonProblemStatuses = map[string]struct{}{
	"bom":          {},
	"ótimo":        {},
	"otimo":        {},
	"contem":       {},
	"contém":       {},
	"satisfatória": {},
	"satisfatório": {},
	"satisfatoria": {},
	"satisfatorio": {},
}

// IsProblemStatus reports whether a recorded item status counts as an
// anomaly. Empty statuses are not problems.
func IsProblemStatus(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return false
	}
	_, ok := nonProblemStatuses[s]
	return !ok
}

// normalizeKeyPart lower-cases and trims a grouping key component. Plate,
// category and item are all compared through this.
func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// problemKey is the normalized (plate, category, item) identity of a problem.
type problemKey struct {
	Plate    string
	Category string
	Item     string
}

func keyOf(plate, category, item string) problemKey {
	return problemKey{
		Plate:    normalizeKeyPart(plate),
		Category: normalizeKeyPart(category),
		Item:     normalizeKeyPart(item),
	}
}
