package form

import "strings"

// OnlyDigits drops every character that is not an ASCII digit.
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MaskPhone formats a Brazilian phone number progressively, the way the intake
// screens mask it while the user types:
//
//	1 to 2 digits:   (DD
//	3 to 7 digits:   (DD) DDDDD
//	8, 9, 11 digits: (DD) DDDDD-DDDD
//	10 digits:       (DD) DDDD-DDDD (landline)
//
// Extra digits beyond 11 are dropped.
func MaskPhone(raw string) string {
	d := OnlyDigits(raw)
	if len(d) > 11 {
		d = d[:11]
	}
	switch n := len(d); {
	case n == 0:
		return ""
	case n <= 2:
		return "(" + d
	case n <= 7:
		return "(" + d[:2] + ") " + d[2:]
	case n == 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}

// MaskCPF formats an 11-digit CPF as DDD.DDD.DDD-DD. Other lengths are
// returned as bare digits.
func MaskCPF(raw string) string {
	d := OnlyDigits(raw)
	if len(d) != 11 {
		return d
	}
	return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}
