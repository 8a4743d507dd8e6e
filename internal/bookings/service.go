package bookings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cinebook/internal/notifications"
	"cinebook/internal/seats"
	"cinebook/internal/shared/config"
	"cinebook/internal/showtimes"
	"cinebook/internal/tickets"
	"cinebook/pkg/logger"
	"cinebook/pkg/storage"

	"cinebook/internal/shared/utils/reference"
)

// Service implements the booking lifecycle: create with seat allocation,
// confirm after payment review, cancel/reject, issue e-tickets, and verify
// them once at the gate.
type Service interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error)
	GetBooking(ctx context.Context, bookingReference string) (*Booking, error)
	ListCustomerBookings(ctx context.Context, email string) ([]Booking, error)
	GetOccupiedSeats(ctx context.Context, showtimeID string, movieTitle string) ([]string, error)

	ConfirmPayment(ctx context.Context, bookingReference string) (*Booking, error)
	CancelBooking(ctx context.Context, bookingReference string, reason string) (*Booking, error)
	AttachPaymentProof(ctx context.Context, bookingReference string, proof io.Reader, contentType string) (*Booking, error)

	IssueTicket(ctx context.Context, bookingReference string) (*TicketResponse, error)
	VerifyScan(ctx context.Context, qrData string) *VerificationResult
	VerifyManual(ctx context.Context, bookingReference, verificationCode string) *VerificationResult
}

type service struct {
	repo        Repository
	seatService seats.Service
	showtimeSvc showtimes.Service
	storage     storage.Service
	notifier    notifications.Port
	config      *config.Config
	log         *logger.Logger
}

func NewService(
	repo Repository,
	seatService seats.Service,
	showtimeService showtimes.Service,
	storageService storage.Service,
	notifier notifications.Port,
	cfg *config.Config,
	log *logger.Logger,
) Service {
	return &service{
		repo:        repo,
		seatService: seatService,
		showtimeSvc: showtimeService,
		storage:     storageService,
		notifier:    notifier,
		config:      cfg,
		log:         log,
	}
}

// CreateBooking allocates seats for a new pending booking. Every input that
// influences money or seat state is re-validated server side; the client's
// total is checked against the recomputed one and rejected on mismatch.
func (s *service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	showtime, err := s.showtimeSvc.GetShowtime(ctx, req.ShowtimeID)
	if err != nil {
		if errors.Is(err, showtimes.ErrNotFound) {
			return nil, NewValidationError("showtime %s does not exist", req.ShowtimeID)
		}
		return nil, fmt.Errorf("failed to look up showtime: %w", err)
	}

	seatLabels := seats.NormalizeSeatList(seats.EncodeSeatList(req.SeatNumbers))
	if len(seatLabels) == 0 {
		return nil, NewValidationError("at least one seat is required")
	}
	if len(seatLabels) != len(req.SeatNumbers) {
		return nil, NewValidationError("duplicate seats in request")
	}
	for _, label := range seatLabels {
		if !seats.ValidSeatLabel(label, showtime.Rows, showtime.SeatsPerRow) {
			return nil, NewValidationError("seat %s does not exist in this theater layout", label)
		}
	}

	// The authoritative total is seats x price. The client's figure is
	// advisory only.
	total := float64(len(seatLabels)) * showtime.PricePerSeat
	if math.Abs(total-req.TotalAmount) > 0.005 {
		return nil, NewValidationError("total amount mismatch: expected %.2f", total)
	}

	movieTitle := showtime.MovieTitle
	if req.MovieTitle != "" && req.MovieTitle != showtime.MovieTitle {
		return nil, NewValidationError("movie title does not match showtime")
	}

	bookingRef, err := reference.NewBookingReference()
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}
	verificationCode, err := reference.NewVerificationCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	now := time.Now()
	booking := &Booking{
		ID:               uuid.New(),
		ShowtimeID:       showtime.ID,
		MovieTitle:       movieTitle,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		SeatNumbers:      seats.EncodeSeatList(seatLabels),
		TotalAmount:      total,
		Status:           StatusPending,
		BookingReference: bookingRef,
		VerificationCode: verificationCode,
		ExpiresAt:        now.Add(s.config.Booking.HoldTTL),
	}

	if err := s.repo.CreateWithSeatCheck(ctx, booking, seatLabels); err != nil {
		var conflict *SeatConflictError
		if errors.As(err, &conflict) {
			s.log.LogSeatConflict(ctx, showtime.ID.String(), conflict.Seats)
			return nil, conflict
		}
		return nil, err
	}

	s.seatService.InvalidateOccupied(ctx, showtime.ID)
	s.notifySeats(ctx, showtime.ID.String(), seatLabels, "held")
	s.log.LogBookingCreated(ctx, booking.BookingReference, showtime.ID.String(), seatLabels)

	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, bookingReference string) (*Booking, error) {
	booking, err := s.repo.GetByReference(ctx, bookingReference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (s *service) ListCustomerBookings(ctx context.Context, email string) ([]Booking, error) {
	return s.repo.ListByCustomerEmail(ctx, email)
}

func (s *service) GetOccupiedSeats(ctx context.Context, showtimeID string, movieTitle string) ([]string, error) {
	id, err := uuid.Parse(showtimeID)
	if err != nil {
		return nil, NewValidationError("invalid showtime id")
	}
	return s.seatService.GetOccupiedSeats(ctx, id, movieTitle)
}

// ConfirmPayment flips a pending booking to confirmed after an admin has
// reviewed the payment. Confirming twice is reported but harmless; an
// expired hold is converted to a cancellation instead.
func (s *service) ConfirmPayment(ctx context.Context, bookingReference string) (*Booking, error) {
	booking, err := s.GetBooking(ctx, bookingReference)
	if err != nil {
		return nil, err
	}

	switch {
	case booking.Status == StatusConfirmed:
		return booking, ErrAlreadyConfirmed
	case !booking.Status.CanBeConfirmed():
		return nil, ErrInvalidState
	case booking.IsExpired(time.Now()):
		// Hold lapsed before review. Release the seats rather than
		// resurrecting a claim another customer may already hold.
		if err := s.repo.CancelWithStatus(ctx, booking.ID, StatusCancelled); err != nil {
			return nil, fmt.Errorf("failed to cancel expired booking: %w", err)
		}
		s.seatService.InvalidateOccupied(ctx, booking.ShowtimeID)
		s.notifySeats(ctx, booking.ShowtimeID.String(), booking.Seats(), "released")
		return nil, ErrExpired
	}

	if err := s.repo.Confirm(ctx, booking.ID); err != nil {
		if errors.Is(err, ErrAlreadyConfirmed) {
			// A concurrent confirm won the conditional update.
			booking.Status = StatusConfirmed
			return booking, ErrAlreadyConfirmed
		}
		return nil, err
	}
	booking.Status = StatusConfirmed

	s.seatService.InvalidateOccupied(ctx, booking.ShowtimeID)
	s.notifySeats(ctx, booking.ShowtimeID.String(), booking.Seats(), "confirmed")
	s.log.LogBookingConfirmed(ctx, booking.BookingReference)

	return booking, nil
}

// CancelBooking releases the seats of a pending or confirmed booking. The
// reason "rejected" marks an admin payment rejection; anything else is a
// plain cancellation.
func (s *service) CancelBooking(ctx context.Context, bookingReference string, reason string) (*Booking, error) {
	booking, err := s.GetBooking(ctx, bookingReference)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanBeCancelled() {
		return nil, ErrInvalidState
	}
	if booking.IsVerified {
		// A checked-in ticket is consumed, the seats are in use.
		return nil, ErrInvalidState
	}

	status := StatusCancelled
	if reason == "rejected" {
		status = StatusRejected
	}

	if err := s.repo.CancelWithStatus(ctx, booking.ID, status); err != nil {
		return nil, err
	}
	now := time.Now()
	booking.Status = status
	booking.CancelledAt = &now

	s.seatService.InvalidateOccupied(ctx, booking.ShowtimeID)
	s.notifySeats(ctx, booking.ShowtimeID.String(), booking.Seats(), "released")
	s.log.LogBookingCancelled(ctx, booking.BookingReference, reason)

	return booking, nil
}

// AttachPaymentProof stores an uploaded proof and records its reference on
// the booking. With auto-confirm enabled the upload also confirms the
// booking immediately.
func (s *service) AttachPaymentProof(ctx context.Context, bookingReference string, proof io.Reader, contentType string) (*Booking, error) {
	booking, err := s.GetBooking(ctx, bookingReference)
	if err != nil {
		return nil, err
	}

	if booking.Status != StatusPending {
		return nil, ErrInvalidState
	}
	if booking.IsExpired(time.Now()) {
		return nil, ErrExpired
	}

	proofRef, err := s.storage.Save(ctx, proof, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store payment proof: %w", err)
	}

	if err := s.repo.UpdatePaymentProof(ctx, booking.ID, proofRef); err != nil {
		return nil, err
	}
	booking.PaymentProof = &proofRef

	if s.config.Booking.AutoConfirm {
		confirmed, err := s.ConfirmPayment(ctx, bookingReference)
		if err != nil && !errors.Is(err, ErrAlreadyConfirmed) {
			return nil, err
		}
		confirmed.PaymentProof = &proofRef
		return confirmed, nil
	}

	return booking, nil
}

// IssueTicket builds the e-ticket for a confirmed booking: the canonical
// payload plus a rendered QR image. Pending and cancelled bookings have no
// ticket.
func (s *service) IssueTicket(ctx context.Context, bookingReference string) (*TicketResponse, error) {
	booking, err := s.GetBooking(ctx, bookingReference)
	if err != nil {
		return nil, err
	}
	if !booking.IsConfirmed() {
		return nil, ErrInvalidState
	}

	showtime, err := s.showtimeSvc.GetShowtime(ctx, booking.ShowtimeID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to look up showtime for ticket: %w", err)
	}

	payload := &tickets.Payload{
		Type:             tickets.PayloadType,
		BookingReference: booking.BookingReference,
		VerificationCode: booking.VerificationCode,
		MovieTitle:       booking.MovieTitle,
		ShowtimeID:       booking.ShowtimeID.String(),
		Theater:          showtime.Theater,
		StartsAt:         showtime.StartsAt,
		Seats:            booking.Seats(),
		CustomerName:     booking.CustomerName,
		AmountPaid:       booking.TotalAmount,
		IssuedAt:         time.Now(),
	}

	encoded, err := payload.Encode()
	if err != nil {
		return nil, err
	}
	qrImage, err := tickets.RenderQRDataURI(payload)
	if err != nil {
		return nil, err
	}

	return &TicketResponse{Payload: encoded, QRImage: qrImage}, nil
}

// VerifyScan verifies a scanned QR payload. All outcomes, including
// failures, come back as a VerificationResult so the gate UI renders one
// shape.
func (s *service) VerifyScan(ctx context.Context, qrData string) *VerificationResult {
	payload, err := tickets.Parse(qrData)
	if err != nil {
		s.log.LogTicketRejected(ctx, "", ReasonMalformedPayload)
		return &VerificationResult{
			Valid:   false,
			Reason:  ReasonMalformedPayload,
			Message: "Scanned data is not a valid ticket",
		}
	}
	return s.verify(ctx, payload.BookingReference, payload.VerificationCode)
}

// VerifyManual verifies a hand-typed reference and code, the fallback when
// a QR code will not scan.
func (s *service) VerifyManual(ctx context.Context, bookingReference, verificationCode string) *VerificationResult {
	return s.verify(ctx, bookingReference, verificationCode)
}

// verify is the single-use check-in. It translates the redemption errors
// into the one result shape the gate UI renders: ErrTicketInvalid covers
// both an unknown reference and a wrong code so the endpoint cannot be used
// to probe which half of a guess was right.
func (s *service) verify(ctx context.Context, bookingReference, verificationCode string) *VerificationResult {
	info, verifiedAt, err := s.redeem(ctx, bookingReference, verificationCode)
	if err == nil {
		s.log.LogTicketVerified(ctx, bookingReference)
		return &VerificationResult{
			Valid:      true,
			Message:    "Ticket verified, welcome",
			VerifiedAt: verifiedAt,
			TicketInfo: info,
		}
	}

	var used *AlreadyUsedError
	switch {
	case errors.As(err, &used):
		s.log.LogTicketRejected(ctx, bookingReference, ReasonAlreadyUsed)
		result := &VerificationResult{
			Valid:      false,
			Reason:     ReasonAlreadyUsed,
			Message:    "Ticket has already been used",
			TicketInfo: info,
		}
		if !used.VerifiedAt.IsZero() {
			at := used.VerifiedAt
			result.VerifiedAt = &at
		}
		return result
	case errors.Is(err, ErrTicketInvalid):
		s.log.LogTicketRejected(ctx, bookingReference, ReasonInvalidTicket)
		return &VerificationResult{
			Valid:   false,
			Reason:  ReasonInvalidTicket,
			Message: "Ticket not found or verification code mismatch",
		}
	default:
		s.log.Error("Ticket verification failed", "error", err, "booking_reference", bookingReference)
		return &VerificationResult{
			Valid:   false,
			Reason:  ReasonInvalidTicket,
			Message: "Verification failed, try again",
		}
	}
}

// redeem performs the lookup, the credential check and the single-use
// compare-and-swap. It returns ErrTicketInvalid for unknown references,
// code mismatches and unconfirmed bookings alike, and an AlreadyUsedError
// carrying the original redemption time when the ticket was consumed
// before. The ticket info is returned alongside the already-used error so
// staff can adjudicate at the door.
func (s *service) redeem(ctx context.Context, bookingReference, verificationCode string) (*TicketInfo, *time.Time, error) {
	booking, err := s.repo.GetByReference(ctx, bookingReference)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("Ticket lookup failed", "error", err)
		}
		return nil, nil, ErrTicketInvalid
	}

	if booking.VerificationCode != verificationCode || !booking.IsConfirmed() {
		return nil, nil, ErrTicketInvalid
	}

	info := &TicketInfo{
		BookingReference: booking.BookingReference,
		MovieTitle:       booking.MovieTitle,
		SeatNumbers:      booking.Seats(),
		CustomerName:     booking.CustomerName,
		TotalAmount:      booking.TotalAmount,
	}

	now := time.Now()
	won, err := s.repo.MarkVerified(ctx, booking.ID, now)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to mark ticket verified: %w", err)
	}
	if !won {
		// Lost the compare-and-swap: this ticket was redeemed before,
		// possibly milliseconds ago by a cloned QR code.
		used := &AlreadyUsedError{}
		if booking.VerifiedAt != nil {
			used.VerifiedAt = *booking.VerifiedAt
		} else if refreshed, err := s.repo.GetByID(ctx, booking.ID); err == nil && refreshed.VerifiedAt != nil {
			used.VerifiedAt = *refreshed.VerifiedAt
		}
		return info, nil, used
	}

	s.notifyValidated(ctx, booking)
	return info, &now, nil
}

// notifySeats publishes a seat-state change. Delivery is best effort: a
// broker outage must never fail a booking operation.
func (s *service) notifySeats(ctx context.Context, showtimeID string, seatLabels []string, status string) {
	if err := s.notifier.PublishSeatUpdate(ctx, showtimeID, seatLabels, status); err != nil {
		s.log.Warn("Failed to publish seat update", "error", err, "showtime_id", showtimeID)
	}
}

func (s *service) notifyValidated(ctx context.Context, booking *Booking) {
	if err := s.notifier.PublishTicketValidated(ctx, booking.BookingReference, booking.ShowtimeID.String(), booking.Seats()); err != nil {
		s.log.Warn("Failed to publish ticket validation", "error", err, "booking_reference", booking.BookingReference)
	}
}
