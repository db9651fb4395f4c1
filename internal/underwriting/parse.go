package underwriting

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrParse matches every *ParseError via errors.Is.
var ErrParse = errors.New("parse error")

// ParseError reports a listing field that could not be read as a number.
type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s from %q", e.Field, e.Value)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

var (
	capRatePattern = regexp.MustCompile(`\d+(?:\.\d+)?|\.\d+`)
	unitPattern    = regexp.MustCompile(`(\d+)-unit`)
)

// ParsePrice reads a formatted dollar amount such as "$6,950,000". Cents are
// dropped; only the whole-dollar digits count.
func ParsePrice(raw string) (int, error) {
	if strings.HasPrefix(strings.TrimSpace(raw), "-") {
		return 0, &ParseError{Field: "asking price", Value: raw}
	}
	whole := raw
	if i := strings.IndexByte(whole, '.'); i >= 0 {
		whole = whole[:i]
	}

	var digits strings.Builder
	for _, r := range whole {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, &ParseError{Field: "asking price", Value: raw}
	}

	price, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, &ParseError{Field: "asking price", Value: raw}
	}
	return price, nil
}

// ParseCapRate reads a percentage such as "5.07%" and returns 5.07.
func ParseCapRate(raw string) (float64, error) {
	loc := capRatePattern.FindStringIndex(raw)
	if loc == nil {
		return 0, &ParseError{Field: "cap rate", Value: raw}
	}
	// a signed rate such as "-5%" is not a cap rate
	if loc[0] > 0 && raw[loc[0]-1] == '-' {
		return 0, &ParseError{Field: "cap rate", Value: raw}
	}
	rate, err := strconv.ParseFloat(raw[loc[0]:loc[1]], 64)
	if err != nil {
		return 0, &ParseError{Field: "cap rate", Value: raw}
	}
	return rate, nil
}

// ExtractUnitCount pulls N out of an "N-unit" phrase. A missing or zero count
// yields fallback, which is itself clamped to at least one unit.
func ExtractUnitCount(details string, fallback int) int {
	if fallback < 1 {
		fallback = 1
	}
	m := unitPattern.FindStringSubmatch(details)
	if m == nil {
		return fallback
	}
	units, err := strconv.Atoi(m[1])
	if err != nil || units < 1 {
		return fallback
	}
	return units
}
