// Package checkout validates the order form and renders the order message
// and messaging deep-link.
package checkout

import (
	"strings"

	"github.com/ahmed8601/kahramana-site/pkg/models"
)

// CountryCode is prefixed to 8-digit national numbers.
const CountryCode = "973"

// DigitsOnly strips every character that is not an ASCII digit.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhone reports whether phone is an 8-digit national number starting
// with 1 through 7 once non-digits are removed.
func ValidPhone(phone string) bool {
	d := DigitsOnly(phone)
	return len(d) == 8 && d[0] >= '1' && d[0] <= '7'
}

// Destination normalizes a configured messaging number: digits only, with
// the country code added to a bare national number.
func Destination(configured string) string {
	d := DigitsOnly(configured)
	if len(d) == 8 {
		return CountryCode + d
	}
	return d
}

// Validate returns the first failing rule, checked in this order: empty
// cart, missing fields, invalid phone, unset destination.
func Validate(lines []models.LineItem, customer models.CustomerInfo, destination string) error {
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	if blank(customer.Name) || blank(customer.Address) || blank(customer.Phone) {
		return ErrMissingFields
	}
	if !ValidPhone(customer.Phone) {
		return ErrInvalidPhone
	}
	if destination == "" {
		return ErrDestinationNotConfigured
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
