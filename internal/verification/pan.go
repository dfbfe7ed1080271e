package verification

import (
	"regexp"
	"strings"
)

// panPattern is the PAN layout: five letters, four digits, one letter.
var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`)

// Acceptance constants. The provider result must match these exactly; there is
// no partial-score threshold.
const (
	RequiredNameMatchScore = 100
	RequiredPANType        = "Person"
)

// NormalizePAN trims and upper-cases the supplied PAN before validation.
func NormalizePAN(pan string) string {
	return strings.ToUpper(strings.TrimSpace(pan))
}

// ValidPANFormat reports whether the normalized PAN matches the layout.
// Callers normalize first; this check is case-sensitive by design of the
// pattern.
func ValidPANFormat(pan string) bool {
	return panPattern.MatchString(pan)
}

// PANLast4 returns the trailing four characters for display, empty when the
// value is too short.
func PANLast4(pan string) string {
	if len(pan) < 4 {
		return ""
	}
	return pan[len(pan)-4:]
}
