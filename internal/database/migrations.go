package database

import "fmt"

func (d *Database) RunMigrations() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id INTEGER PRIMARY KEY,
			address TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT,
			zip_code TEXT,
			property_type TEXT,
			price INTEGER NOT NULL,
			cap_rate REAL NOT NULL,
			units INTEGER NOT NULL DEFAULT 1,
			year_built INTEGER,
			square_footage INTEGER,
			latitude REAL,
			longitude REAL,
			created_at TEXT
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create listings table: %w", err)
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_price
		ON listings(price);
	`)
	if err != nil {
		return fmt.Errorf("failed to create price index: %w", err)
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_coordinates
		ON listings(latitude, longitude);
	`)
	if err != nil {
		return fmt.Errorf("failed to create coordinate index: %w", err)
	}

	return nil
}
