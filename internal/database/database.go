package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"dealdesk/server/internal/geometry"
	"dealdesk/server/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/paulmach/orb"
)

// DefaultDSN keeps the catalog in a shared in-memory database; nothing is
// written to disk and the catalog is rebuilt on every start.
const DefaultDSN = "file:dealdesk?mode=memory&cache=shared"

type Database struct {
	db *sql.DB
}

func NewDatabase(dsn string) (*Database, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// A single connection keeps the in-memory database alive and avoids
	// shared-cache table locks.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	return &Database{db: db}, nil
}

const listingColumns = `
	id, address, city, state, zip_code, property_type, price, cap_rate, units,
	year_built, square_footage, latitude, longitude, created_at`

// SearchListings returns catalog rows matching filters ordered by id, or by
// distance from the center when a radius filter is set. Location matches
// city, address, state or zip case-insensitively.
func (d *Database) SearchListings(filters models.ListingFilters) ([]models.CatalogListing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE 1=1`
	var args []interface{}

	if loc := strings.TrimSpace(filters.Location); loc != "" {
		query += ` AND (LOWER(city) LIKE ? OR LOWER(address) LIKE ? OR LOWER(state) = ? OR zip_code = ?)`
		like := "%" + strings.ToLower(loc) + "%"
		args = append(args, like, like, strings.ToLower(loc), loc)
	}
	if filters.PropertyType != "" {
		query += ` AND LOWER(property_type) = LOWER(?)`
		args = append(args, filters.PropertyType)
	}
	if filters.MinPrice != nil {
		query += ` AND price >= ?`
		args = append(args, *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query += ` AND price <= ?`
		args = append(args, *filters.MaxPrice)
	}
	if filters.MinCapRate != nil {
		query += ` AND cap_rate >= ?`
		args = append(args, *filters.MinCapRate)
	}
	if filters.MaxCapRate != nil {
		query += ` AND cap_rate <= ?`
		args = append(args, *filters.MaxCapRate)
	}
	if filters.MinUnits != nil {
		query += ` AND units >= ?`
		args = append(args, *filters.MinUnits)
	}
	if filters.MaxUnits != nil {
		query += ` AND units <= ?`
		args = append(args, *filters.MaxUnits)
	}
	if filters.Near != nil {
		query += ` AND latitude IS NOT NULL AND longitude IS NOT NULL`
	}
	query += ` ORDER BY id`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	listings := []models.CatalogListing{}
	var points []orb.Point
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		if filters.Near != nil {
			center := geometry.Point(filters.Near.Lat, filters.Near.Lng)
			p := geometry.Point(*l.Latitude, *l.Longitude)
			if !geometry.WithinRadius(center, p, filters.Near.RadiusKm) {
				continue
			}
			points = append(points, p)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}

	if filters.Near != nil {
		center := geometry.Point(filters.Near.Lat, filters.Near.Lng)
		byDistance := make([]models.CatalogListing, 0, len(listings))
		for _, i := range geometry.Nearest(center, points, 0) {
			byDistance = append(byDistance, listings[i])
		}
		listings = byDistance
	}
	return listings, nil
}

// GetListingByID returns nil, nil when the listing does not exist.
func (d *Database) GetListingByID(id int64) (*models.CatalogListing, error) {
	row := d.db.QueryRow(`SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)
	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (d *Database) CountListings() (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM listings`).Scan(&count)
	return count, err
}

// SeedListings inserts or replaces the given rows in one transaction.
func (d *Database) SeedListings(listings []models.CatalogListing) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO listings
		(id, address, city, state, zip_code, property_type, price, cap_rate, units,
		 year_built, square_footage, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, l := range listings {
		_, err = stmt.Exec(
			l.ID,
			l.Address,
			l.City,
			l.State,
			l.ZipCode,
			l.PropertyType,
			l.Price,
			l.CapRate,
			l.Units,
			l.YearBuilt,
			l.SquareFootage,
			l.Latitude,
			l.Longitude,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert listing %q: %w", l.Address, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row rowScanner) (models.CatalogListing, error) {
	var l models.CatalogListing
	var state, zipCode, propertyType, createdAt sql.NullString
	var yearBuilt, squareFootage sql.NullInt64
	var latitude, longitude sql.NullFloat64

	err := row.Scan(
		&l.ID,
		&l.Address,
		&l.City,
		&state,
		&zipCode,
		&propertyType,
		&l.Price,
		&l.CapRate,
		&l.Units,
		&yearBuilt,
		&squareFootage,
		&latitude,
		&longitude,
		&createdAt,
	)
	if err != nil {
		return l, err
	}

	if state.Valid {
		l.State = state.String
	}
	if zipCode.Valid {
		l.ZipCode = zipCode.String
	}
	if propertyType.Valid {
		l.PropertyType = propertyType.String
	}
	if yearBuilt.Valid {
		yb := int(yearBuilt.Int64)
		l.YearBuilt = &yb
	}
	if squareFootage.Valid {
		sf := int(squareFootage.Int64)
		l.SquareFootage = &sf
	}
	if latitude.Valid && longitude.Valid {
		lat, lng := latitude.Float64, longitude.Float64
		l.Latitude = &lat
		l.Longitude = &lng
	}
	if createdAt.Valid && createdAt.String != "" {
		if t, err := time.Parse(time.RFC3339, createdAt.String); err == nil {
			l.CreatedAt = t
		}
	}
	return l, nil
}
