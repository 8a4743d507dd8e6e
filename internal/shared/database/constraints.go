package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// One row per seat claim; the database arbitrates concurrent inserts
	// even if the application-level check is raced past.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_seat_per_showtime
		ON seat_claims (showtime_id, seat_label);
	`).Error
	if err != nil {
		return err
	}

	// Index for occupied-seat reads per showtime
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seat_claims_showtime
		ON seat_claims (showtime_id);
	`).Error
	if err != nil {
		return err
	}

	// Index for releasing a booking's claims on cancel/expiry
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seat_claims_booking
		ON seat_claims (booking_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
