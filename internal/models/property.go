package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// PropertyListing is the listing snapshot the underwriting calculator consumes.
// Numeric fields arrive formatted the way listing sites print them.
type PropertyListing struct {
	Address           string `json:"address"`
	Location          string `json:"location"`
	AskingPrice       string `json:"asking_price"`
	AdvertisedCapRate string `json:"advertised_cap_rate"`
	Details           string `json:"details"`
}

// CatalogListing is a row of the in-memory listing catalog.
type CatalogListing struct {
	ID            int64     `json:"id"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	ZipCode       string    `json:"zip_code"`
	PropertyType  string    `json:"property_type"`
	Price         int       `json:"price"`
	CapRate       float64   `json:"cap_rate"`
	Units         int       `json:"units"`
	YearBuilt     *int      `json:"year_built"`
	SquareFootage *int      `json:"square_footage"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	CreatedAt     time.Time `json:"created_at"`
}

// Location renders "City, ST 98102".
func (l *CatalogListing) Location() string {
	loc := l.City
	if l.State != "" {
		loc += ", " + l.State
	}
	if l.ZipCode != "" {
		loc += " " + l.ZipCode
	}
	return loc
}

// ToPropertyListing formats the catalog row into the calculator input contract,
// e.g. "$6,950,000", "5.07%" and "29-unit apartment • 5.07% cap rate".
func (l *CatalogListing) ToPropertyListing() PropertyListing {
	capRate := fmt.Sprintf("%.2f%%", l.CapRate)
	propertyType := l.PropertyType
	if propertyType == "" {
		propertyType = "apartment"
	}
	return PropertyListing{
		Address:           l.Address,
		Location:          l.Location(),
		AskingPrice:       FormatDollars(l.Price),
		AdvertisedCapRate: capRate,
		Details:           fmt.Sprintf("%d-unit %s • %s cap rate", l.Units, strings.ReplaceAll(propertyType, "_", " "), capRate),
	}
}

// FormatDollars renders whole dollars with thousands separators, e.g.
// "$6,950,000" or "-$64,635".
func FormatDollars(amount int) string {
	if amount < 0 {
		return "-$" + humanize.Comma(-int64(amount))
	}
	return "$" + humanize.Comma(int64(amount))
}

// GeoFilter restricts a search to a radius around a point.
type GeoFilter struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusKm float64 `json:"radius_km"`
}

// ListingFilters narrows a catalog search. Nil bounds are ignored.
type ListingFilters struct {
	Location     string     `json:"location,omitempty"`
	PropertyType string     `json:"property_type,omitempty"`
	MinPrice     *int       `json:"min_price,omitempty"`
	MaxPrice     *int       `json:"max_price,omitempty"`
	MinCapRate   *float64   `json:"min_cap_rate,omitempty"`
	MaxCapRate   *float64   `json:"max_cap_rate,omitempty"`
	MinUnits     *int       `json:"min_units,omitempty"`
	MaxUnits     *int       `json:"max_units,omitempty"`
	Near         *GeoFilter `json:"near,omitempty"`
}

// Merge fills the unset fields of f from other.
func (f ListingFilters) Merge(other ListingFilters) ListingFilters {
	if f.Location == "" {
		f.Location = other.Location
	}
	if f.PropertyType == "" {
		f.PropertyType = other.PropertyType
	}
	if f.MinPrice == nil {
		f.MinPrice = other.MinPrice
	}
	if f.MaxPrice == nil {
		f.MaxPrice = other.MaxPrice
	}
	if f.MinCapRate == nil {
		f.MinCapRate = other.MinCapRate
	}
	if f.MaxCapRate == nil {
		f.MaxCapRate = other.MaxCapRate
	}
	if f.MinUnits == nil {
		f.MinUnits = other.MinUnits
	}
	if f.MaxUnits == nil {
		f.MaxUnits = other.MaxUnits
	}
	if f.Near == nil {
		f.Near = other.Near
	}
	return f
}
