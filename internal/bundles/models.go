package bundles

import (
	"time"

	"github.com/google/uuid"
)

// Bundle is a merchandise package sold alongside tickets (snack combos,
// posters, collector items). Bundles have no seat interaction.
type Bundle struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description string    `gorm:"size:1000" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`

	// TicketIncluded marks bundles whose price already covers a seat;
	// purely informational, seat allocation stays with bookings.
	TicketIncluded bool `gorm:"not null;default:false" json:"ticket_included"`

	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Bundle) TableName() string {
	return "bundles"
}

// BundleOrder follows the booking lifecycle shape (pending -> confirmed ->
// verified) without the seat machinery.
type BundleOrder struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BundleID uuid.UUID `gorm:"type:uuid;index;not null" json:"bundle_id"`

	// BundleName is denormalized for display after catalog edits.
	BundleName string `gorm:"size:255" json:"bundle_name"`

	Quantity int `gorm:"not null" json:"quantity"`

	CustomerName  string `gorm:"not null;size:255" json:"customer_name"`
	CustomerEmail string `gorm:"not null;size:255;index" json:"customer_email"`
	CustomerPhone string `gorm:"not null;size:32" json:"customer_phone"`

	TotalPrice float64 `gorm:"not null" json:"total_price"`

	Status Status `gorm:"type:varchar(20);check:status IN ('PENDING', 'CONFIRMED', 'CANCELLED', 'REJECTED');default:'PENDING'" json:"status"`

	OrderReference   string `gorm:"unique;not null" json:"order_reference"`
	VerificationCode string `gorm:"unique;not null" json:"-"`

	PaymentProof *string `gorm:"size:512" json:"payment_proof,omitempty"`

	IsVerified bool       `gorm:"not null;default:false" json:"is_verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`

	CreatedAt time.Time `json:"order_date"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BundleOrder) TableName() string {
	return "bundle_orders"
}

func (o *BundleOrder) IsConfirmed() bool {
	return o.Status == StatusConfirmed
}
