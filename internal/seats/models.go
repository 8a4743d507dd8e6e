package seats

import (
	"time"

	"github.com/google/uuid"
)

// SeatClaim is one row per (showtime, seat) held by a live booking. The
// unique index on (showtime_id, seat_label) makes the database the final
// arbiter of seat exclusivity under concurrent bookings; the booking row
// remains the source of truth for display data.
//
// A pending booking's claims carry its hold expiry; confirming the booking
// clears ExpiresAt so the claim never lapses.
type SeatClaim struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ShowtimeID uuid.UUID  `json:"showtime_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_showtime_seat"`
	SeatLabel  string     `json:"seat_label" gorm:"not null;size:8;uniqueIndex:idx_showtime_seat"`
	BookingID  uuid.UUID  `json:"booking_id" gorm:"type:uuid;not null;index"`
	MovieTitle string     `json:"movie_title" gorm:"size:255"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName sets the table name for SeatClaim
func (SeatClaim) TableName() string {
	return "seat_claims"
}

// IsHolding reports whether the claim still blocks the seat at the given time.
func (c *SeatClaim) IsHolding(now time.Time) bool {
	return c.ExpiresAt == nil || c.ExpiresAt.After(now)
}
