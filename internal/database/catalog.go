package database

import "dealdesk/server/internal/models"

// DemoCatalog returns the demo listing set the server seeds on start.
// Each call returns a fresh slice.
func DemoCatalog() []models.CatalogListing {
	return []models.CatalogListing{
		listing(1, "1052 E Thomas St", "Seattle", "WA", "98102", "apartment", 6950000, 5.07, 29, 1928, 21400, 47.6209, -122.3174),
		listing(2, "603 Pontius Ave N", "Seattle", "WA", "98109", "apartment", 7200000, 5.00, 30, 1962, 22800, 47.6247, -122.3323),
		listing(3, "7060 Lincoln Park Way SW", "Seattle", "WA", "98136", "apartment", 6950000, 4.53, 23, 1968, 19100, 47.5398, -122.3937),
		listing(4, "4270 NE 50th St", "Seattle", "WA", "98105", "apartment", 4750000, 3.77, 8, 1925, 7600, 47.6646, -122.2816),
		listing(5, "213 1st Ave S", "Seattle", "WA", "98104", "apartment", 5200000, 5.49, 13, 1909, 11200, 47.6000, -122.3343),
		listing(6, "10210 NE 8th St", "Bellevue", "WA", "98004", "apartment", 9800000, 4.85, 36, 1989, 31500, 47.6172, -122.2047),
		listing(7, "1118 S 11th St", "Tacoma", "WA", "98405", "apartment", 3150000, 6.10, 16, 1957, 12900, 47.2527, -122.4495),
		listing(8, "2025 1st Ave", "Seattle", "WA", "98121", "office", 12400000, 6.25, 12, 1984, 48000, 47.6113, -122.3434),
		listing(9, "1515 SE Hawthorne Blvd", "Portland", "OR", "97214", "mixed_use", 4200000, 5.85, 10, 1931, 14300, 45.5122, -122.6498),
		listing(10, "4301 S Pine St", "Tacoma", "WA", "98409", "retail", 2650000, 6.75, 6, 1978, 18700, 47.2218, -122.4716),
	}
}

func listing(id int64, address, city, state, zip, propertyType string, price int, capRate float64, units, yearBuilt, sqft int, lat, lng float64) models.CatalogListing {
	return models.CatalogListing{
		ID:            id,
		Address:       address,
		City:          city,
		State:         state,
		ZipCode:       zip,
		PropertyType:  propertyType,
		Price:         price,
		CapRate:       capRate,
		Units:         units,
		YearBuilt:     &yearBuilt,
		SquareFootage: &sqft,
		Latitude:      &lat,
		Longitude:     &lng,
	}
}
