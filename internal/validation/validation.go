package validation

import (
	"net/mail"
	"strings"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// CleanName trims the raw name and records a violation when the trimmed
// value is shorter than two characters. The trimmed value is what gets
// stored.
func CleanName(raw string, v Violations) string {
	name := strings.TrimSpace(raw)
	if len(name) < 2 {
		v["name"] = "Name must be at least 2 characters long"
	}
	return name
}

// NormalizePhone reduces a raw phone number to digits plus an optional
// leading +. The normalized form is what gets stored and compared for
// uniqueness.
func NormalizePhone(raw string, v Violations) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	phone := b.String()
	if phone == "" {
		v["phone_number"] = "Phone number is required"
	} else if len(phone) < 10 {
		v["phone_number"] = "Phone number must be at least 10 digits"
	}
	return phone
}

// Email is optional; only validated when non-empty.
func Email(s string, v Violations) {
	if s == "" {
		return
	}
	if _, err := mail.ParseAddress(s); err != nil {
		v["email"] = "Invalid email address"
	}
}
