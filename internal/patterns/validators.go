package patterns

import "strings"

// luhnValid implements the Luhn checksum used to validate credit card
// candidates before they're reported as findings.
func luhnValid(digits string) bool {
	sum := 0
	alt := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if alt {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		alt = !alt
	}
	return sum%10 == 0
}

// digitsOnly strips every non-digit rune from s.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// phoneValid rejects candidates that don't have a plausible digit count
// or that look like a bare year (19xx/20xx) rather than a phone number.
func phoneValid(raw string) bool {
	digits := digitsOnly(raw)
	if len(digits) < 8 || len(digits) > 15 {
		return false
	}
	if len(digits) == 4 && (strings.HasPrefix(digits, "19") || strings.HasPrefix(digits, "20")) {
		return false
	}
	return true
}

// ipValid rejects loopback and "this network" addresses, which are
// overwhelmingly false positives in document text (localhost configs,
// placeholder examples) rather than real leaked infrastructure.
func ipValid(raw string) bool {
	return !strings.HasPrefix(raw, "0.") && !strings.HasPrefix(raw, "127.")
}
