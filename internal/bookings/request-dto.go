package bookings

type CreateBookingRequest struct {
	ShowtimeID    string   `json:"showtime_id" binding:"required,uuid"`
	SeatNumbers   []string `json:"seat_numbers" binding:"required,min=1,dive,min=2,max=4"`
	CustomerName  string   `json:"customer_name" binding:"required,min=1,max=255"`
	CustomerEmail string   `json:"customer_email" binding:"required,email"`
	CustomerPhone string   `json:"customer_phone" binding:"required,min=6,max=32"`
	MovieTitle    string   `json:"movie_title" binding:"omitempty,max=255"`

	// TotalAmount is what the client believes it owes. The server
	// recomputes the authoritative total and rejects mismatches.
	TotalAmount float64 `json:"total_amount" binding:"required,min=0"`
}

type ConfirmPaymentRequest struct {
	BookingReference string `json:"booking_reference" binding:"required"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"omitempty,oneof=cancelled rejected"`
}

type ScanTicketRequest struct {
	QRData string `json:"qr_data" binding:"required"`
}

type ManualVerifyRequest struct {
	BookingReference string `json:"booking_reference" binding:"required"`
	VerificationCode string `json:"verification_code" binding:"required"`
}
