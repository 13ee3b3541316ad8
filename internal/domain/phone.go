package domain

import "strings"

// NormalizePhone strips everything but digits from a contact number.
// Phones are compared and stored in this form only.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
