package seats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Read-side availability
	GetClaimsForShowtime(ctx context.Context, showtimeID uuid.UUID, movieTitle string) ([]SeatClaim, error)
	GetLegacySeatLists(ctx context.Context, showtimeID uuid.UUID, movieTitle string) ([]string, error)

	// Transactional helpers for the booking-creation critical section.
	// Callers must run these inside one transaction together with the
	// booking insert.
	PurgeExpiredTx(tx *gorm.DB, showtimeID uuid.UUID, now time.Time) error
	ConflictingSeatsTx(tx *gorm.DB, showtimeID uuid.UUID, labels []string) ([]string, error)
	LegacyConflictingSeatsTx(tx *gorm.DB, showtimeID uuid.UUID, labels []string, now time.Time) ([]string, error)
	InsertClaimsTx(tx *gorm.DB, claims []SeatClaim) error

	// Lifecycle transitions
	ConfirmClaimsTx(tx *gorm.DB, bookingID uuid.UUID) error
	ReleaseClaimsTx(tx *gorm.DB, bookingID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetClaimsForShowtime(ctx context.Context, showtimeID uuid.UUID, movieTitle string) ([]SeatClaim, error) {
	var claims []SeatClaim

	query := r.db.WithContext(ctx).
		Where("showtime_id = ?", showtimeID)
	if movieTitle != "" {
		query = query.Where("movie_title = ?", movieTitle)
	}

	err := query.Find(&claims).Error
	return claims, err
}

// GetLegacySeatLists returns the raw seat_numbers columns of live bookings
// for the showtime. Rows imported from the legacy system may predate the
// seat_claims table; their holds still count.
func (r *repository) GetLegacySeatLists(ctx context.Context, showtimeID uuid.UUID, movieTitle string) ([]string, error) {
	var rows []struct {
		SeatNumbers string    `gorm:"column:seat_numbers"`
		Status      string    `gorm:"column:status"`
		ExpiresAt   time.Time `gorm:"column:expires_at"`
	}

	query := r.db.WithContext(ctx).
		Table("bookings").
		Select("seat_numbers, status, expires_at").
		Where("showtime_id = ?", showtimeID).
		Where("status IN ?", []string{"PENDING", "CONFIRMED"})
	if movieTitle != "" {
		query = query.Where("movie_title = ?", movieTitle)
	}

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	lists := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Status == "PENDING" && !row.ExpiresAt.After(now) {
			continue
		}
		lists = append(lists, row.SeatNumbers)
	}
	return lists, nil
}

func (r *repository) PurgeExpiredTx(tx *gorm.DB, showtimeID uuid.UUID, now time.Time) error {
	// Flip the lapsed pending bookings first so their claims can be
	// rebuilt by a retry without resurrecting the booking.
	err := tx.Table("bookings").
		Where("id IN (?)", tx.Session(&gorm.Session{NewDB: true}).
			Table("seat_claims").
			Select("booking_id").
			Where("showtime_id = ?", showtimeID).
			Where("expires_at IS NOT NULL AND expires_at <= ?", now)).
		Where("status = ?", "PENDING").
		Updates(map[string]interface{}{
			"status":     "CANCELLED",
			"updated_at": now,
		}).Error
	if err != nil {
		return err
	}

	return tx.
		Where("showtime_id = ?", showtimeID).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Delete(&SeatClaim{}).Error
}

func (r *repository) ConflictingSeatsTx(tx *gorm.DB, showtimeID uuid.UUID, labels []string) ([]string, error) {
	var conflicting []string
	err := tx.Model(&SeatClaim{}).
		Where("showtime_id = ?", showtimeID).
		Where("seat_label IN ?", labels).
		Pluck("seat_label", &conflicting).Error
	return conflicting, err
}

// LegacyConflictingSeatsTx checks the requested labels against live
// bookings that have no claim rows. Rows imported from the legacy system
// predate the seat_claims table; their denormalized seat lists still hold
// seats, so the create transaction must honor them the same way the
// availability read does.
func (r *repository) LegacyConflictingSeatsTx(tx *gorm.DB, showtimeID uuid.UUID, labels []string, now time.Time) ([]string, error) {
	var rows []struct {
		SeatNumbers string    `gorm:"column:seat_numbers"`
		Status      string    `gorm:"column:status"`
		ExpiresAt   time.Time `gorm:"column:expires_at"`
	}

	err := tx.Table("bookings").
		Select("bookings.seat_numbers, bookings.status, bookings.expires_at").
		Joins("LEFT JOIN seat_claims ON seat_claims.booking_id = bookings.id").
		Where("bookings.showtime_id = ?", showtimeID).
		Where("bookings.status IN ?", []string{"PENDING", "CONFIRMED"}).
		Where("seat_claims.id IS NULL").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	lists := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Status == "PENDING" && !row.ExpiresAt.After(now) {
			continue
		}
		lists = append(lists, row.SeatNumbers)
	}
	return IntersectSeatLists(lists, labels), nil
}

func (r *repository) InsertClaimsTx(tx *gorm.DB, claims []SeatClaim) error {
	return tx.Create(&claims).Error
}

func (r *repository) ConfirmClaimsTx(tx *gorm.DB, bookingID uuid.UUID) error {
	return tx.Model(&SeatClaim{}).
		Where("booking_id = ?", bookingID).
		Update("expires_at", nil).Error
}

func (r *repository) ReleaseClaimsTx(tx *gorm.DB, bookingID uuid.UUID) error {
	return tx.
		Where("booking_id = ?", bookingID).
		Delete(&SeatClaim{}).Error
}
