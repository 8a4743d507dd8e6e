package bookings

import (
	"time"

	"cinebook/internal/seats"

	"github.com/google/uuid"
)

// Booking is the central entity: one customer's claim on a set of seats for
// a showtime, moving through pending -> confirmed -> verified (or out to
// cancelled/rejected). Bookings are never deleted, they are retained for
// audit and reporting.
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ShowtimeID uuid.UUID `gorm:"type:uuid;index;not null" json:"showtime_id"`

	// MovieTitle is denormalized from the showtime for display and for
	// legacy queries where showtime ids were ambiguous across titles.
	MovieTitle string `gorm:"size:255;index" json:"movie_title"`

	CustomerName  string `gorm:"not null;size:255" json:"customer_name"`
	CustomerEmail string `gorm:"not null;size:255;index" json:"customer_email"`
	CustomerPhone string `gorm:"not null;size:32" json:"customer_phone"`

	// SeatNumbers is the display copy of the seat list (JSON-encoded).
	// Seat exclusivity is arbitrated by the seat_claims table, not here.
	SeatNumbers string  `gorm:"not null" json:"seat_numbers"`
	TotalAmount float64 `gorm:"not null" json:"total_amount"`

	Status Status `gorm:"type:varchar(20);check:status IN ('PENDING', 'CONFIRMED', 'CANCELLED', 'REJECTED');default:'PENDING'" json:"status"`

	BookingReference string `gorm:"unique;not null" json:"booking_reference"`
	VerificationCode string `gorm:"unique;not null" json:"-"`

	// PaymentProof is the opaque reference returned by the file storage
	// collaborator; the bytes themselves are never stored here.
	PaymentProof *string `gorm:"size:512" json:"payment_proof,omitempty"`

	IsVerified bool       `gorm:"not null;default:false" json:"is_verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`

	// ExpiresAt bounds the pending hold; a pending booking past this
	// instant no longer counts toward occupancy.
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	CreatedAt   time.Time  `json:"booking_date"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// Seats returns the decoded seat label list.
func (b *Booking) Seats() []string {
	return seats.NormalizeSeatList(b.SeatNumbers)
}

// IsExpired reports whether a pending hold has lapsed.
func (b *Booking) IsExpired(now time.Time) bool {
	return b.Status == StatusPending && !b.ExpiresAt.After(now)
}

// HoldsSeats reports whether the booking currently blocks its seats.
func (b *Booking) HoldsSeats(now time.Time) bool {
	switch b.Status {
	case StatusConfirmed:
		return true
	case StatusPending:
		return b.ExpiresAt.After(now)
	}
	return false
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}
