package search

import (
	"testing"

	"dealdesk/server/internal/models"

	"github.com/google/go-cmp/cmp"
)

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func TestParseQuery(t *testing.T) {
	tests := []struct {
		query string
		want  models.ListingFilters
	}{
		{"", models.ListingFilters{}},
		{"something nice", models.ListingFilters{}},
		{
			"apartments in Seattle",
			models.ListingFilters{Location: "seattle", PropertyType: "apartment"},
		},
		{
			"multifamily near Capitol Hill",
			models.ListingFilters{Location: "capitol", PropertyType: "apartment"},
		},
		{
			"properties in the Tacoma area",
			models.ListingFilters{Location: "tacoma"},
		},
		{
			"seattle $5m-$7m",
			models.ListingFilters{Location: "seattle", MinPrice: intp(5000000), MaxPrice: intp(7000000)},
		},
		{
			"$4,000,000 - $6,000,000 bellevue",
			models.ListingFilters{Location: "bellevue", MinPrice: intp(4000000), MaxPrice: intp(6000000)},
		},
		{
			"$500k to $2.5m retail",
			models.ListingFilters{PropertyType: "retail", MinPrice: intp(500000), MaxPrice: intp(2500000)},
		},
		{
			"$5-7m",
			models.ListingFilters{MinPrice: intp(5000000), MaxPrice: intp(7000000)},
		},
		{
			"office under $6m",
			models.ListingFilters{PropertyType: "office", MaxPrice: intp(6000000)},
		},
		{
			"over $5m above 5% cap",
			models.ListingFilters{MinPrice: intp(5000000), MinCapRate: floatp(5)},
		},
		{
			"4.5-5.5% cap rate in portland",
			models.ListingFilters{Location: "portland", MinCapRate: floatp(4.5), MaxCapRate: floatp(5.5)},
		},
		{
			"below 6% cap",
			models.ListingFilters{MaxCapRate: floatp(6)},
		},
		{
			"10-30 units mixed use",
			models.ListingFilters{PropertyType: "mixed_use", MinUnits: intp(10), MaxUnits: intp(30)},
		},
		{
			"20+ units industrial",
			models.ListingFilters{PropertyType: "industrial", MinUnits: intp(20)},
		},
		{
			"Seattle apartments $5M-$7M 10-30 units 4-6% cap rate",
			models.ListingFilters{
				Location:     "seattle",
				PropertyType: "apartment",
				MinPrice:     intp(5000000),
				MaxPrice:     intp(7000000),
				MinCapRate:   floatp(4),
				MaxCapRate:   floatp(6),
				MinUnits:     intp(10),
				MaxUnits:     intp(30),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := ParseQuery(tt.query)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseQuery(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}
