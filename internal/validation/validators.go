// Package validation holds the field checks shared by patient and staff records.
package validation

import "strings"

const contactLength = 10

// ValidContact reports whether contact is exactly ten ASCII digits.
func ValidContact(contact string) bool {
	if len(contact) != contactLength {
		return false
	}
	for i := 0; i < len(contact); i++ {
		if contact[i] < '0' || contact[i] > '9' {
			return false
		}
	}
	return true
}

// ValidEmail accepts any string containing both '@' and '.'.
func ValidEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}
