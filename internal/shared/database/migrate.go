package database

import (
	"cinebook/internal/bookings"
	"cinebook/internal/bundles"
	"cinebook/internal/seats"
	"cinebook/internal/showtimes"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&showtimes.Showtime{},
		&bookings.Booking{},
		&seats.SeatClaim{},
		&bundles.Bundle{},
		&bundles.BundleOrder{},
	)
}
