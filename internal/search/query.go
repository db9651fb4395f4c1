// Package search turns free-text property queries into catalog filters.
package search

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"dealdesk/server/internal/models"
)

var knownCities = []string{"seattle", "bellevue", "tacoma", "portland"}

var propertyTypes = []struct {
	pattern *regexp.Regexp
	value   string
}{
	{regexp.MustCompile(`\bmixed[\s-]?use\b`), "mixed_use"},
	{regexp.MustCompile(`\b(?:apartments?|multi-?family)\b`), "apartment"},
	{regexp.MustCompile(`\boffices?\b`), "office"},
	{regexp.MustCompile(`\bretail\b`), "retail"},
	{regexp.MustCompile(`\bindustrial\b`), "industrial"},
}

const amount = `(\d[\d,]*(?:\.\d+)?)\s*([mk])?\b`

var (
	locationRe   = regexp.MustCompile(`\b(?:in|near|around)\s+([a-z][a-z-]+)`)
	priceRangeRe = regexp.MustCompile(`\$` + amount + `\s*(?:-|to)\s*\$?` + amount)
	maxPriceRe   = regexp.MustCompile(`\b(?:under|below|less than|up to|max)\s+\$` + amount)
	minPriceRe   = regexp.MustCompile(`\b(?:over|above|more than|at least|min)\s+\$` + amount)
	capRangeRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%?\s*(?:-|to)\s*(\d+(?:\.\d+)?)\s*%?\s*cap`)
	minCapRe     = regexp.MustCompile(`\b(?:over|above|at least|min)\s+(\d+(?:\.\d+)?)\s*%?\s*cap`)
	maxCapRe     = regexp.MustCompile(`\b(?:under|below|at most|max)\s+(\d+(?:\.\d+)?)\s*%?\s*cap`)
	unitRangeRe  = regexp.MustCompile(`(\d+)\s*(?:-|to)\s*(\d+)\s*units?\b`)
	minUnitsRe   = regexp.MustCompile(`(\d+)\+\s*units?\b`)
)

var notLocations = map[string]bool{
	"the": true, "a": true, "an": true, "my": true, "any": true, "good": true,
}

// ParseQuery extracts whatever filters it recognises from q; unrecognised
// text is ignored and an empty query yields empty filters.
func ParseQuery(q string) models.ListingFilters {
	var f models.ListingFilters
	text := strings.ToLower(strings.TrimSpace(q))
	if text == "" {
		return f
	}

	f.Location = parseLocation(text)

	for _, pt := range propertyTypes {
		if pt.pattern.MatchString(text) {
			f.PropertyType = pt.value
			break
		}
	}

	// Ranges are consumed first so single-bound patterns don't re-read them.
	if m := capRangeRe.FindStringSubmatch(text); m != nil {
		lo, hi := parseFloat(m[1]), parseFloat(m[2])
		f.MinCapRate, f.MaxCapRate = &lo, &hi
		text = strings.Replace(text, m[0], " ", 1)
	} else {
		if m := minCapRe.FindStringSubmatch(text); m != nil {
			v := parseFloat(m[1])
			f.MinCapRate = &v
			text = strings.Replace(text, m[0], " ", 1)
		}
		if m := maxCapRe.FindStringSubmatch(text); m != nil {
			v := parseFloat(m[1])
			f.MaxCapRate = &v
			text = strings.Replace(text, m[0], " ", 1)
		}
	}

	if m := priceRangeRe.FindStringSubmatch(text); m != nil {
		loSuffix, hiSuffix := m[2], m[4]
		if loSuffix == "" {
			loSuffix = hiSuffix
		}
		if hiSuffix == "" {
			hiSuffix = loSuffix
		}
		lo, hi := parseAmount(m[1], loSuffix), parseAmount(m[3], hiSuffix)
		f.MinPrice, f.MaxPrice = &lo, &hi
	} else {
		if m := maxPriceRe.FindStringSubmatch(text); m != nil {
			v := parseAmount(m[1], m[2])
			f.MaxPrice = &v
		}
		if m := minPriceRe.FindStringSubmatch(text); m != nil {
			v := parseAmount(m[1], m[2])
			f.MinPrice = &v
		}
	}

	if m := unitRangeRe.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		f.MinUnits, f.MaxUnits = &lo, &hi
	} else if m := minUnitsRe.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		f.MinUnits = &lo
	}

	return f
}

func parseLocation(text string) string {
	for _, city := range knownCities {
		if strings.Contains(text, city) {
			return city
		}
	}
	for _, m := range locationRe.FindAllStringSubmatch(text, -1) {
		if !notLocations[m[1]] {
			return m[1]
		}
	}
	return ""
}

func parseAmount(digits, suffix string) int {
	v := parseFloat(strings.ReplaceAll(digits, ",", ""))
	switch suffix {
	case "m":
		v *= 1_000_000
	case "k":
		v *= 1_000
	}
	return int(math.Round(v))
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
