// Package validate provides input validation predicates and normalizers.
package validate

import (
	"regexp"
	"strings"
)

var (
	phoneRe   = regexp.MustCompile(`^[6-9]\d{9}$`)
	addressRe = regexp.MustCompile(`^[\w.-]+@[\w.-]+$`)
	emailRe   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	digitsRe  = regexp.MustCompile(`\D`)
)

// Phone reports whether s is a valid mobile number:
// exactly 10 digits, first digit 6-9.
func Phone(s string) bool {
	return phoneRe.MatchString(s)
}

// PaymentAddress reports whether s is a valid payment address of the
// form local@handle, both parts word characters, dots or hyphens.
func PaymentAddress(s string) bool {
	return addressRe.MatchString(s)
}

// Email reports whether s looks like an email address: permitted local
// part, dotted domain, TLD of at least two letters.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// NormalizePhone reduces a free-form phone entry to its canonical
// 10-digit form. Non-digits are stripped, then a leading country code
// 91 (12 digits) or trunk 0 (11 digits); anything still longer keeps
// only the trailing 10 digits. Shorter input is returned as-is and
// will fail Phone.
func NormalizePhone(s string) string {
	cleaned := digitsRe.ReplaceAllString(s, "")

	if len(cleaned) == 12 && strings.HasPrefix(cleaned, "91") {
		cleaned = cleaned[2:]
	}
	if len(cleaned) == 11 && strings.HasPrefix(cleaned, "0") {
		cleaned = cleaned[1:]
	}
	if len(cleaned) > 10 {
		cleaned = cleaned[len(cleaned)-10:]
	}
	return cleaned
}

// MaskPhone obscures all but the last four digits for display.
func MaskPhone(phone string) string {
	if len(phone) < 10 {
		return phone
	}
	return "+91 ****** " + phone[len(phone)-4:]
}

// MaskEmail obscures the local part, keeping the first character.
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" {
		return email
	}
	return parts[0][:1] + "******@" + parts[1]
}
