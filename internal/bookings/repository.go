package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinebook/internal/seats"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// CreateWithSeatCheck atomically validates seat availability and
	// inserts the booking plus its seat claims. Returns *SeatConflictError
	// when any requested seat is already held.
	CreateWithSeatCheck(ctx context.Context, booking *Booking, seatLabels []string) error

	GetByReference(ctx context.Context, reference string) (*Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]Booking, error)
	ListByShowtimeID(ctx context.Context, showtimeID uuid.UUID) ([]Booking, error)

	// Confirm flips pending -> confirmed and clears the claim expiry in
	// one transaction. The write is conditioned on the booking still
	// being pending; a lost race returns ErrAlreadyConfirmed.
	Confirm(ctx context.Context, bookingID uuid.UUID) error

	// CancelWithStatus flips to cancelled/rejected and releases the seat
	// claims in one transaction.
	CancelWithStatus(ctx context.Context, bookingID uuid.UUID, status Status) error

	UpdatePaymentProof(ctx context.Context, bookingID uuid.UUID, proofRef string) error

	// MarkVerified performs the compare-and-swap on the verification flag.
	// It reports false when the flag was already set (a concurrent scan
	// won) without touching the row.
	MarkVerified(ctx context.Context, bookingID uuid.UUID, at time.Time) (bool, error)
}

type repository struct {
	db       *gorm.DB
	seatRepo seats.Repository
}

func NewRepository(db *gorm.DB, seatRepo seats.Repository) Repository {
	return &repository{db: db, seatRepo: seatRepo}
}

// CreateWithSeatCheck is the seat-allocation critical section. The showtime
// row lock serializes concurrent bookings for the same showtime; the unique
// (showtime_id, seat_label) index on seat_claims backs the check even if two
// transactions slip past the lock.
func (r *repository) CreateWithSeatCheck(ctx context.Context, booking *Booking, seatLabels []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the showtime row to serialize bookings per showtime
		var showtime struct {
			ID uuid.UUID `gorm:"column:id"`
		}
		err := tx.Table("showtimes").
			Select("id").
			Where("id = ?", booking.ShowtimeID).
			Set("gorm:query_option", "FOR UPDATE").
			First(&showtime).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewValidationError("showtime %s does not exist", booking.ShowtimeID)
			}
			return fmt.Errorf("failed to lock showtime: %w", err)
		}

		now := time.Now()

		// 2. Drop claims whose pending hold has lapsed so their seats are
		// bookable again
		if err := r.seatRepo.PurgeExpiredTx(tx, booking.ShowtimeID, now); err != nil {
			return fmt.Errorf("failed to purge expired seat claims: %w", err)
		}

		// 3. Reject the whole request if any seat is taken; no partial claims
		conflicting, err := r.seatRepo.ConflictingSeatsTx(tx, booking.ShowtimeID, seatLabels)
		if err != nil {
			return fmt.Errorf("failed to check seat availability: %w", err)
		}

		// Migrated live bookings have no claim rows; their seat lists
		// hold seats too.
		legacy, err := r.seatRepo.LegacyConflictingSeatsTx(tx, booking.ShowtimeID, seatLabels, now)
		if err != nil {
			return fmt.Errorf("failed to check migrated bookings: %w", err)
		}
		if len(legacy) > 0 {
			have := make(map[string]struct{}, len(conflicting))
			for _, label := range conflicting {
				have[label] = struct{}{}
			}
			for _, label := range legacy {
				if _, dup := have[label]; !dup {
					conflicting = append(conflicting, label)
				}
			}
		}

		if len(conflicting) > 0 {
			seats.SortSeatLabels(conflicting)
			return &SeatConflictError{Seats: conflicting}
		}

		// 4. Insert the booking
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		// 5. Claim each seat
		claims := make([]seats.SeatClaim, 0, len(seatLabels))
		expiresAt := booking.ExpiresAt
		for _, label := range seatLabels {
			claims = append(claims, seats.SeatClaim{
				ShowtimeID: booking.ShowtimeID,
				SeatLabel:  label,
				BookingID:  booking.ID,
				MovieTitle: booking.MovieTitle,
				ExpiresAt:  &expiresAt,
			})
		}
		if err := r.seatRepo.InsertClaimsTx(tx, claims); err != nil {
			return fmt.Errorf("failed to claim seats: %w", err)
		}

		return nil
	})
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("booking_reference = ?", reference).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByCustomerEmail(ctx context.Context, email string) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("customer_email = ?", email).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) ListByShowtimeID(ctx context.Context, showtimeID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("showtime_id = ?", showtimeID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) Confirm(ctx context.Context, bookingID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conditioned on the row still being pending so two racing
		// confirms cannot both succeed; same style as MarkVerified.
		result := tx.Model(&Booking{}).
			Where("id = ?", bookingID).
			Where("status = ?", StatusPending).
			Updates(map[string]interface{}{
				"status":     StatusConfirmed,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to confirm booking: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyConfirmed
		}

		if err := r.seatRepo.ConfirmClaimsTx(tx, bookingID); err != nil {
			return fmt.Errorf("failed to confirm seat claims: %w", err)
		}
		return nil
	})
}

func (r *repository) CancelWithStatus(ctx context.Context, bookingID uuid.UUID, status Status) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		err := tx.Model(&Booking{}).
			Where("id = ?", bookingID).
			Updates(map[string]interface{}{
				"status":       status,
				"cancelled_at": now,
				"updated_at":   now,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}

		if err := r.seatRepo.ReleaseClaimsTx(tx, bookingID); err != nil {
			return fmt.Errorf("failed to release seat claims: %w", err)
		}
		return nil
	})
}

func (r *repository) UpdatePaymentProof(ctx context.Context, bookingID uuid.UUID, proofRef string) error {
	return r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", bookingID).
		Updates(map[string]interface{}{
			"payment_proof": proofRef,
			"updated_at":    time.Now(),
		}).Error
}

// MarkVerified conditions the write on is_verified still being false so two
// simultaneous scans of a cloned QR code cannot both succeed.
func (r *repository) MarkVerified(ctx context.Context, bookingID uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", bookingID).
		Where("is_verified = ?", false).
		Where("status = ?", StatusConfirmed).
		Updates(map[string]interface{}{
			"is_verified": true,
			"verified_at": at,
			"updated_at":  at,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark booking verified: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
