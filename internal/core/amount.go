// Package core provides the transaction domain model and parsing helpers.
package core

import (
	"regexp"
	"strconv"
	"strings"
)

var decimalNumber = regexp.MustCompile(`[0-9]*\.?[0-9]+`)

// ParseAmount extracts a non-negative monetary magnitude from a raw cell.
//
// Thousands separators (commas and spaces) are stripped and the first
// decimal-number substring wins, so "INR 1,234.50 Cr" parses to 1234.50.
// Returns ErrInvalidAmount when no number is present.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	m := decimalNumber.FindString(s)
	if m == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
