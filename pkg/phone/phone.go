// Package phone normalizes the mobile numbers used as user identifiers.
package phone

import (
	"slices"
	"strings"
)

// DefaultCountryCode is prepended when a bare national number has no match.
const DefaultCountryCode = "+91"

// Normalize drops spaces, dashes, dots and parentheses. A leading plus is kept.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	b.Grow(len(raw))
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NationalLength is the digit count of a mobile number without its country
// code.
const NationalLength = 10

// HasCountryCode reports whether number already starts with countryCode. A
// number missing only the plus counts too when exactly NationalLength
// digits follow the code.
func HasCountryCode(number, countryCode string) bool {
	_, ok := national(Normalize(number), orDefault(countryCode))
	return ok
}

// WithCountryCode returns number prefixed with countryCode, plus included.
func WithCountryCode(number, countryCode string) string {
	countryCode = orDefault(countryCode)
	number = Normalize(number)
	if rest, ok := national(number, countryCode); ok {
		return countryCode + rest
	}
	return countryCode + strings.TrimPrefix(number, "+")
}

// Bare strips countryCode from number when present.
func Bare(number, countryCode string) string {
	number = Normalize(number)
	if rest, ok := national(number, orDefault(countryCode)); ok {
		return rest
	}
	return number
}

// Forms lists the stored representations of one logical number, bare first.
// The normalized input is listed last when it is neither of those.
func Forms(number, countryCode string) []string {
	bare := Bare(number, countryCode)
	if bare == "" {
		return nil
	}
	forms := []string{bare}
	if prefixed := WithCountryCode(bare, countryCode); prefixed != bare {
		forms = append(forms, prefixed)
	}
	if given := Normalize(number); !slices.Contains(forms, given) {
		forms = append(forms, given)
	}
	return forms
}

func national(number, countryCode string) (string, bool) {
	if strings.HasPrefix(number, countryCode) {
		return strings.TrimPrefix(number, countryCode), true
	}
	digits := strings.TrimPrefix(countryCode, "+")
	if digits == countryCode || strings.HasPrefix(number, "+") {
		return "", false
	}
	if len(number) == len(digits)+NationalLength && strings.HasPrefix(number, digits) {
		return number[len(digits):], true
	}
	return "", false
}

func orDefault(countryCode string) string {
	if countryCode == "" {
		return DefaultCountryCode
	}
	return countryCode
}

// Valid reports whether number has a plausible amount of digits.
func Valid(number string) bool {
	digits := strings.TrimPrefix(Normalize(number), "+")
	return len(digits) >= 8 && len(digits) <= 15
}
