package sanitizer

import "strings"

// NormalizePhone strips formatting characters from a phone number, keeping
// digits and a single leading plus. "+1 (555) 010-2030" -> "+15550102030".
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
