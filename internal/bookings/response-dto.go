package bookings

import "time"

type BookingResponse struct {
	ID               string     `json:"id"`
	BookingReference string     `json:"booking_reference"`
	VerificationCode string     `json:"verification_code,omitempty"`
	ShowtimeID       string     `json:"showtime_id"`
	MovieTitle       string     `json:"movie_title"`
	CustomerName     string     `json:"customer_name"`
	CustomerEmail    string     `json:"customer_email"`
	CustomerPhone    string     `json:"customer_phone"`
	SeatNumbers      []string   `json:"seat_numbers"`
	TotalAmount      float64    `json:"total_amount"`
	Status           string     `json:"status"`
	PaymentProof     *string    `json:"payment_proof,omitempty"`
	IsVerified       bool       `json:"is_verified"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
	ExpiresAt        time.Time  `json:"expires_at"`
	BookingDate      time.Time  `json:"booking_date"`
}

// ToResponse converts a booking to its API representation. The verification
// code is only included for the booking owner right after creation; list
// and admin reads omit it.
func (b *Booking) ToResponse(includeCode bool) BookingResponse {
	resp := BookingResponse{
		ID:               b.ID.String(),
		BookingReference: b.BookingReference,
		ShowtimeID:       b.ShowtimeID.String(),
		MovieTitle:       b.MovieTitle,
		CustomerName:     b.CustomerName,
		CustomerEmail:    b.CustomerEmail,
		CustomerPhone:    b.CustomerPhone,
		SeatNumbers:      b.Seats(),
		TotalAmount:      b.TotalAmount,
		Status:           b.Status.String(),
		PaymentProof:     b.PaymentProof,
		IsVerified:       b.IsVerified,
		VerifiedAt:       b.VerifiedAt,
		ExpiresAt:        b.ExpiresAt,
		BookingDate:      b.CreatedAt,
	}
	if includeCode {
		resp.VerificationCode = b.VerificationCode
	}
	return resp
}

// TicketInfo is the staff-facing display block returned on a successful or
// already-used verification.
type TicketInfo struct {
	BookingReference string   `json:"booking_reference"`
	MovieTitle       string   `json:"movie_title"`
	SeatNumbers      []string `json:"seat_numbers"`
	CustomerName     string   `json:"customer_name"`
	TotalAmount      float64  `json:"total_amount"`
}

// VerificationResult is the closed set of outcomes of a ticket scan.
type VerificationResult struct {
	Valid      bool        `json:"valid"`
	Reason     string      `json:"reason,omitempty"`
	Message    string      `json:"message"`
	VerifiedAt *time.Time  `json:"verified_at,omitempty"`
	TicketInfo *TicketInfo `json:"ticket_info,omitempty"`
}

// Verification failure reasons
const (
	ReasonMalformedPayload = "malformed_payload"
	ReasonInvalidTicket    = "invalid_ticket"
	ReasonAlreadyUsed      = "already_used"
)

// TicketResponse carries an issued ticket payload plus its rendered QR.
type TicketResponse struct {
	Payload string `json:"payload"`
	QRImage string `json:"qr_image"`
}
