package bookings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinebook/internal/shared/middleware"
	"cinebook/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking request", nil, err.Error())
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), req)
	if err != nil {
		c.respondError(ctx, err, "Failed to create booking")
		return
	}

	// The verification code is shown exactly once, on creation.
	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", booking.ToResponse(true), nil)
}

// GetOccupiedSeats handles GET /api/v1/bookings/occupied-seats
func (c *Controller) GetOccupiedSeats(ctx *gin.Context) {
	showtimeID := ctx.Query("showtime_id")
	if showtimeID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "showtime_id query parameter is required", nil, nil)
		return
	}

	occupied, err := c.service.GetOccupiedSeats(ctx.Request.Context(), showtimeID, ctx.Query("movie_title"))
	if err != nil {
		c.respondError(ctx, err, "Failed to get occupied seats")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Occupied seats retrieved successfully", gin.H{
		"showtime_id":    showtimeID,
		"occupied_seats": occupied,
	}, nil)
}

// GetBooking handles GET /api/v1/bookings/:reference
func (c *Controller) GetBooking(ctx *gin.Context) {
	booking, err := c.service.GetBooking(ctx.Request.Context(), ctx.Param("reference"))
	if err != nil {
		c.respondError(ctx, err, "Failed to get booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking.ToResponse(false), nil)
}

// MyBookings handles GET /api/v1/bookings/my-bookings
func (c *Controller) MyBookings(ctx *gin.Context) {
	email := middleware.PrincipalEmail(ctx)
	if email == "" {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	bookings, err := c.service.ListCustomerBookings(ctx.Request.Context(), email)
	if err != nil {
		c.respondError(ctx, err, "Failed to list bookings")
		return
	}

	resp := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, bookings[i].ToResponse(false))
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", resp, nil)
}

// ConfirmPayment handles POST /api/v1/admin/bookings/confirm-payment
func (c *Controller) ConfirmPayment(ctx *gin.Context) {
	var req ConfirmPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := c.service.ConfirmPayment(ctx.Request.Context(), req.BookingReference)
	if err != nil {
		if errors.Is(err, ErrAlreadyConfirmed) {
			response.RespondJSON(ctx, "success", http.StatusOK, "Booking was already confirmed", booking.ToResponse(false), nil)
			return
		}
		c.respondError(ctx, err, "Failed to confirm payment")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment confirmed successfully", booking.ToResponse(false), nil)
}

// CancelBooking handles POST /api/v1/bookings/:reference/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	// The body is optional; an empty body means a plain cancellation.
	var req CancelBookingRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
			return
		}
	}

	// Rejection is an admin verdict, not a customer action.
	if req.Reason == "rejected" && !middleware.IsAdmin(ctx) {
		response.RespondJSON(ctx, "error", http.StatusForbidden, "Only admins can reject bookings", nil, nil)
		return
	}
	if req.Reason == "" {
		req.Reason = "cancelled"
	}

	booking, err := c.service.CancelBooking(ctx.Request.Context(), ctx.Param("reference"), req.Reason)
	if err != nil {
		c.respondError(ctx, err, "Failed to cancel booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", booking.ToResponse(false), nil)
}

// UploadPaymentProof handles POST /api/v1/bookings/:reference/payment-proof
func (c *Controller) UploadPaymentProof(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("proof")
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "A 'proof' file is required", nil, err.Error())
		return
	}
	defer file.Close()

	// Size is enforced by the storage service against the configured cap.
	booking, err := c.service.AttachPaymentProof(ctx.Request.Context(), ctx.Param("reference"), file, header.Header.Get("Content-Type"))
	if err != nil {
		c.respondError(ctx, err, "Failed to upload payment proof")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment proof uploaded successfully", booking.ToResponse(false), nil)
}

// GetTicket handles GET /api/v1/bookings/:reference/ticket
func (c *Controller) GetTicket(ctx *gin.Context) {
	ticket, err := c.service.IssueTicket(ctx.Request.Context(), ctx.Param("reference"))
	if err != nil {
		if errors.Is(err, ErrInvalidState) {
			response.RespondJSON(ctx, "error", http.StatusConflict, "Tickets are only issued for confirmed bookings", nil, nil)
			return
		}
		c.respondError(ctx, err, "Failed to issue ticket")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Ticket issued successfully", ticket, nil)
}

// ScanTicket handles POST /api/v1/admin/bookings/scan-ticket
//
// A failed verification is a successful scan: the gate device gets a 200
// with valid=false and a reason, never an error status it would have to
// special-case.
func (c *Controller) ScanTicket(ctx *gin.Context) {
	var req ScanTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result := c.service.VerifyScan(ctx.Request.Context(), req.QRData)
	response.RespondJSON(ctx, "success", http.StatusOK, result.Message, result, nil)
}

// VerifyManual handles POST /api/v1/admin/bookings/verify-manual
func (c *Controller) VerifyManual(ctx *gin.Context) {
	var req ManualVerifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result := c.service.VerifyManual(ctx.Request.Context(), req.BookingReference, req.VerificationCode)
	response.RespondJSON(ctx, "success", http.StatusOK, result.Message, result, nil)
}

// respondError maps service errors onto HTTP status codes.
func (c *Controller) respondError(ctx *gin.Context, err error, fallback string) {
	var (
		validationErr *ValidationError
		conflictErr   *SeatConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, validationErr.Message, nil, nil)
	case errors.As(err, &conflictErr):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Some seats are no longer available", gin.H{
			"conflicting_seats": conflictErr.Seats,
		}, nil)
	case errors.Is(err, ErrNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
	case errors.Is(err, ErrExpired):
		response.RespondJSON(ctx, "error", http.StatusGone, "Booking hold has expired, please book again", nil, nil)
	case errors.Is(err, ErrInvalidState):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Operation not allowed in the current booking state", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, err.Error())
	}
}
