package bookings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cinebook/internal/notifications"
	"cinebook/internal/seats"
	"cinebook/internal/shared/config"
	"cinebook/internal/showtimes"
	"cinebook/pkg/logger"
)

// fakeRepo is an in-memory Repository with the same atomicity guarantees as
// the real one: seat checks and inserts happen under a single lock.
type fakeRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*Booking
	byRef    map[string]uuid.UUID
	claims   map[string]uuid.UUID // "showtimeID|label" -> booking id

	// raw seat_numbers columns of live bookings imported without claim
	// rows, mirroring the legacy check in the real create transaction
	legacySeatLists []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings: make(map[uuid.UUID]*Booking),
		byRef:    make(map[string]uuid.UUID),
		claims:   make(map[string]uuid.UUID),
	}
}

func claimKey(showtimeID uuid.UUID, label string) string {
	return showtimeID.String() + "|" + label
}

func (r *fakeRepo) CreateWithSeatCheck(ctx context.Context, booking *Booking, seatLabels []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	// purge lapsed pending holds: flip the bookings first, then drop all
	// their claims, matching the set-based purge in the real repository
	expired := make(map[uuid.UUID]bool)
	for id, owner := range r.bookings {
		if owner.IsExpired(now) {
			owner.Status = StatusCancelled
			expired[id] = true
		}
	}
	for key, id := range r.claims {
		if expired[id] {
			delete(r.claims, key)
		}
	}

	var conflicting []string
	for _, label := range seatLabels {
		if _, taken := r.claims[claimKey(booking.ShowtimeID, label)]; taken {
			conflicting = append(conflicting, label)
		}
	}
	for _, label := range seats.IntersectSeatLists(r.legacySeatLists, seatLabels) {
		conflicting = append(conflicting, label)
	}
	if len(conflicting) > 0 {
		seats.SortSeatLabels(conflicting)
		return &SeatConflictError{Seats: conflicting}
	}

	booking.CreatedAt = now
	r.bookings[booking.ID] = booking
	r.byRef[booking.BookingReference] = booking.ID
	for _, label := range seatLabels {
		r.claims[claimKey(booking.ShowtimeID, label)] = booking.ID
	}
	return nil
}

func (r *fakeRepo) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byRef[reference]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// copy, so concurrent callers never share mutable state
	booking := *r.bookings[id]
	return &booking, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	booking := *stored
	return &booking, nil
}

func (r *fakeRepo) ListByCustomerEmail(ctx context.Context, email string) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Booking
	for _, b := range r.bookings {
		if b.CustomerEmail == email {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByShowtimeID(ctx context.Context, showtimeID uuid.UUID) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Booking
	for _, b := range r.bookings {
		if b.ShowtimeID == showtimeID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) Confirm(ctx context.Context, bookingID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[bookingID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// same conditional write as the real repository
	if booking.Status != StatusPending {
		return ErrAlreadyConfirmed
	}
	booking.Status = StatusConfirmed
	return nil
}

func (r *fakeRepo) CancelWithStatus(ctx context.Context, bookingID uuid.UUID, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[bookingID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	booking.Status = status
	booking.CancelledAt = &now
	for key, id := range r.claims {
		if id == bookingID {
			delete(r.claims, key)
		}
	}
	return nil
}

func (r *fakeRepo) UpdatePaymentProof(ctx context.Context, bookingID uuid.UUID, proofRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[bookingID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	booking.PaymentProof = &proofRef
	return nil
}

func (r *fakeRepo) MarkVerified(ctx context.Context, bookingID uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[bookingID]
	if !ok {
		return false, nil
	}
	if booking.IsVerified || booking.Status != StatusConfirmed {
		return false, nil
	}
	booking.IsVerified = true
	booking.VerifiedAt = &at
	return true, nil
}

// fakeSeatService records invalidations; availability reads are not under test.
type fakeSeatService struct {
	mu          sync.Mutex
	invalidated []uuid.UUID
}

func (f *fakeSeatService) GetOccupiedSeats(ctx context.Context, showtimeID uuid.UUID, movieTitle string) ([]string, error) {
	return []string{}, nil
}

func (f *fakeSeatService) InvalidateOccupied(ctx context.Context, showtimeID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, showtimeID)
}

// fakeShowtimeService serves one fixed showtime.
type fakeShowtimeService struct {
	showtime *showtimes.Showtime
}

func (f *fakeShowtimeService) CreateShowtime(ctx context.Context, req showtimes.CreateShowtimeRequest) (*showtimes.Showtime, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeShowtimeService) GetShowtime(ctx context.Context, id string) (*showtimes.Showtime, error) {
	if id == f.showtime.ID.String() {
		return f.showtime, nil
	}
	return nil, showtimes.ErrNotFound
}

func (f *fakeShowtimeService) ListShowtimes(ctx context.Context) ([]showtimes.Showtime, error) {
	return []showtimes.Showtime{*f.showtime}, nil
}

func (f *fakeShowtimeService) ListUpcoming(ctx context.Context, limit int) ([]showtimes.Showtime, error) {
	return []showtimes.Showtime{*f.showtime}, nil
}

type fakeStorage struct{}

func (fakeStorage) Save(ctx context.Context, reader io.Reader, contentType string) (string, error) {
	return "proof_test.jpg", nil
}

type fixture struct {
	service  Service
	repo     *fakeRepo
	seats    *fakeSeatService
	showtime *showtimes.Showtime
	config   *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	showtime := &showtimes.Showtime{
		ID:           uuid.New(),
		MovieTitle:   "Interstellar Horizons",
		Theater:      "Theater 1",
		StartsAt:     time.Now().Add(48 * time.Hour),
		PricePerSeat: 12.50,
		Rows:         8,
		SeatsPerRow:  12,
	}

	repo := newFakeRepo()
	seatService := &fakeSeatService{}
	cfg := &config.Config{
		Booking: config.BookingConfig{HoldTTL: 15 * time.Minute},
	}

	svc := NewService(
		repo,
		seatService,
		&fakeShowtimeService{showtime: showtime},
		fakeStorage{},
		notifications.NewNoopPort(),
		cfg,
		logger.GetDefault(),
	)

	return &fixture{
		service:  svc,
		repo:     repo,
		seats:    seatService,
		showtime: showtime,
		config:   cfg,
	}
}

func (f *fixture) createRequest(seatLabels ...string) CreateBookingRequest {
	return CreateBookingRequest{
		ShowtimeID:    f.showtime.ID.String(),
		SeatNumbers:   seatLabels,
		CustomerName:  "Dana Moreno",
		CustomerEmail: "dana@example.com",
		CustomerPhone: "+15550100",
		TotalAmount:   float64(len(seatLabels)) * f.showtime.PricePerSeat,
	}
}

func TestCreateBooking(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)

		booking, err := f.service.CreateBooking(context.Background(), f.createRequest("A1", "A2"))
		if err != nil {
			t.Fatalf("CreateBooking failed: %v", err)
		}

		if booking.Status != StatusPending {
			t.Errorf("status = %s, want PENDING", booking.Status)
		}
		if booking.TotalAmount != 25.00 {
			t.Errorf("total = %.2f, want 25.00", booking.TotalAmount)
		}
		if !strings.HasPrefix(booking.BookingReference, "CBK-") {
			t.Errorf("reference %q missing CBK prefix", booking.BookingReference)
		}
		if len(booking.VerificationCode) != 8 {
			t.Errorf("verification code %q, want 8 characters", booking.VerificationCode)
		}
		if !booking.ExpiresAt.After(time.Now()) {
			t.Error("hold expiry not in the future")
		}
		if len(f.seats.invalidated) != 1 {
			t.Errorf("cache invalidations = %d, want 1", len(f.seats.invalidated))
		}
	})

	t.Run("seat conflict reports contested seats only", func(t *testing.T) {
		f := newFixture(t)

		if _, err := f.service.CreateBooking(context.Background(), f.createRequest("A1", "A2")); err != nil {
			t.Fatalf("first booking failed: %v", err)
		}

		_, err := f.service.CreateBooking(context.Background(), f.createRequest("A2", "A3"))
		var conflict *SeatConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("error = %v, want SeatConflictError", err)
		}
		if len(conflict.Seats) != 1 || conflict.Seats[0] != "A2" {
			t.Errorf("conflicting seats = %v, want [A2]", conflict.Seats)
		}

		// The loser must not have consumed its free seat
		if _, err := f.service.CreateBooking(context.Background(), f.createRequest("A3")); err != nil {
			t.Errorf("A3 should still be bookable: %v", err)
		}
	})

	t.Run("seats of migrated bookings without claim rows conflict", func(t *testing.T) {
		f := newFixture(t)
		f.repo.legacySeatLists = []string{`["B4","B5"]`}

		_, err := f.service.CreateBooking(context.Background(), f.createRequest("B5", "B6"))
		var conflict *SeatConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("error = %v, want SeatConflictError", err)
		}
		if len(conflict.Seats) != 1 || conflict.Seats[0] != "B5" {
			t.Errorf("conflicting seats = %v, want [B5]", conflict.Seats)
		}

		if _, err := f.service.CreateBooking(context.Background(), f.createRequest("B6")); err != nil {
			t.Errorf("B6 should still be bookable: %v", err)
		}
	})

	t.Run("expired hold frees its seats for rebooking", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.service.CreateBooking(context.Background(), f.createRequest("C1", "C2"))
		if err != nil {
			t.Fatalf("first booking failed: %v", err)
		}

		f.repo.mu.Lock()
		f.repo.bookings[first.ID].ExpiresAt = time.Now().Add(-time.Minute)
		f.repo.mu.Unlock()

		second, err := f.service.CreateBooking(context.Background(), f.createRequest("C1", "C2"))
		if err != nil {
			t.Fatalf("rebooking after expiry failed: %v", err)
		}
		if second.Status != StatusPending {
			t.Errorf("status = %s, want PENDING", second.Status)
		}

		stale, err := f.repo.GetByID(context.Background(), first.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if stale.Status != StatusCancelled {
			t.Errorf("lapsed booking status = %s, want CANCELLED", stale.Status)
		}
	})

	t.Run("total mismatch rejected", func(t *testing.T) {
		f := newFixture(t)

		req := f.createRequest("A1")
		req.TotalAmount = 1.00

		_, err := f.service.CreateBooking(context.Background(), req)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("error = %v, want ValidationError", err)
		}
	})

	t.Run("seat outside theater bounds rejected", func(t *testing.T) {
		f := newFixture(t)

		req := f.createRequest("Z9")
		_, err := f.service.CreateBooking(context.Background(), req)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("error = %v, want ValidationError", err)
		}
	})

	t.Run("duplicate seats rejected", func(t *testing.T) {
		f := newFixture(t)

		req := f.createRequest("A1", "A1")
		req.TotalAmount = 25.00

		_, err := f.service.CreateBooking(context.Background(), req)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("error = %v, want ValidationError", err)
		}
	})

	t.Run("unknown showtime rejected", func(t *testing.T) {
		f := newFixture(t)

		req := f.createRequest("A1")
		req.ShowtimeID = uuid.New().String()

		_, err := f.service.CreateBooking(context.Background(), req)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("error = %v, want ValidationError", err)
		}
	})
}

func TestCreateBookingConcurrent(t *testing.T) {
	f := newFixture(t)

	const workers = 20
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			req := f.createRequest("D4", "D5")
			req.CustomerEmail = fmt.Sprintf("racer%d@example.com", n)
			_, errs[n] = f.service.CreateBooking(context.Background(), req)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		var conflict *SeatConflictError
		if !errors.As(err, &conflict) {
			t.Errorf("loser got %v, want SeatConflictError", err)
		}
	}
	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
}

func TestConfirmPayment(t *testing.T) {
	t.Run("pending becomes confirmed", func(t *testing.T) {
		f := newFixture(t)

		booking, err := f.service.CreateBooking(context.Background(), f.createRequest("A1"))
		if err != nil {
			t.Fatalf("CreateBooking failed: %v", err)
		}

		confirmed, err := f.service.ConfirmPayment(context.Background(), booking.BookingReference)
		if err != nil {
			t.Fatalf("ConfirmPayment failed: %v", err)
		}
		if confirmed.Status != StatusConfirmed {
			t.Errorf("status = %s, want CONFIRMED", confirmed.Status)
		}
	})

	t.Run("second confirm reports already confirmed", func(t *testing.T) {
		f := newFixture(t)

		booking, _ := f.service.CreateBooking(context.Background(), f.createRequest("A1"))
		if _, err := f.service.ConfirmPayment(context.Background(), booking.BookingReference); err != nil {
			t.Fatalf("first confirm failed: %v", err)
		}

		again, err := f.service.ConfirmPayment(context.Background(), booking.BookingReference)
		if !errors.Is(err, ErrAlreadyConfirmed) {
			t.Fatalf("error = %v, want ErrAlreadyConfirmed", err)
		}
		if again == nil || again.Status != StatusConfirmed {
			t.Error("already-confirmed response should carry the booking")
		}
	})

	t.Run("expired hold is cancelled instead", func(t *testing.T) {
		f := newFixture(t)

		booking, _ := f.service.CreateBooking(context.Background(), f.createRequest("A1"))
		f.repo.bookings[booking.ID].ExpiresAt = time.Now().Add(-time.Minute)

		_, err := f.service.ConfirmPayment(context.Background(), booking.BookingReference)
		if !errors.Is(err, ErrExpired) {
			t.Fatalf("error = %v, want ErrExpired", err)
		}
		if f.repo.bookings[booking.ID].Status != StatusCancelled {
			t.Errorf("status = %s, want CANCELLED", f.repo.bookings[booking.ID].Status)
		}

		// Seats released: the same seat books again
		if _, err := f.service.CreateBooking(context.Background(), f.createRequest("A1")); err != nil {
			t.Errorf("seat should be free after expiry: %v", err)
		}
	})

	t.Run("unknown reference", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.ConfirmPayment(context.Background(), "CBK-20260901-XXXXXX")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestConfirmPaymentConcurrent(t *testing.T) {
	f := newFixture(t)

	booking, err := f.service.CreateBooking(context.Background(), f.createRequest("E1"))
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = f.service.ConfirmPayment(context.Background(), booking.BookingReference)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		if !errors.Is(err, ErrAlreadyConfirmed) {
			t.Errorf("loser got %v, want ErrAlreadyConfirmed", err)
		}
	}
	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}

	if f.repo.bookings[booking.ID].Status != StatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", f.repo.bookings[booking.ID].Status)
	}
}

func TestCancelBooking(t *testing.T) {
	t.Run("cancel releases seats", func(t *testing.T) {
		f := newFixture(t)

		booking, _ := f.service.CreateBooking(context.Background(), f.createRequest("B1", "B2"))

		cancelled, err := f.service.CancelBooking(context.Background(), booking.BookingReference, "cancelled")
		if err != nil {
			t.Fatalf("CancelBooking failed: %v", err)
		}
		if cancelled.Status != StatusCancelled {
			t.Errorf("status = %s, want CANCELLED", cancelled.Status)
		}

		if _, err := f.service.CreateBooking(context.Background(), f.createRequest("B1", "B2")); err != nil {
			t.Errorf("seats should be free after cancel: %v", err)
		}
	})

	t.Run("reject marks rejected", func(t *testing.T) {
		f := newFixture(t)

		booking, _ := f.service.CreateBooking(context.Background(), f.createRequest("B1"))

		rejected, err := f.service.CancelBooking(context.Background(), booking.BookingReference, "rejected")
		if err != nil {
			t.Fatalf("CancelBooking failed: %v", err)
		}
		if rejected.Status != StatusRejected {
			t.Errorf("status = %s, want REJECTED", rejected.Status)
		}
	})

	t.Run("cancelled booking cannot cancel again", func(t *testing.T) {
		f := newFixture(t)

		booking, _ := f.service.CreateBooking(context.Background(), f.createRequest("B1"))
		if _, err := f.service.CancelBooking(context.Background(), booking.BookingReference, "cancelled"); err != nil {
			t.Fatalf("first cancel failed: %v", err)
		}

		_, err := f.service.CancelBooking(context.Background(), booking.BookingReference, "cancelled")
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("error = %v, want ErrInvalidState", err)
		}
	})
}

func TestAttachPaymentProof(t *testing.T) {
	f := newFixture(t)

	booking, _ := f.service.CreateBooking(context.Background(), f.createRequest("C1"))

	updated, err := f.service.AttachPaymentProof(context.Background(), booking.BookingReference, strings.NewReader("fake image"), "image/jpeg")
	if err != nil {
		t.Fatalf("AttachPaymentProof failed: %v", err)
	}
	if updated.PaymentProof == nil || *updated.PaymentProof != "proof_test.jpg" {
		t.Errorf("payment proof = %v, want proof_test.jpg", updated.PaymentProof)
	}
	if updated.Status != StatusPending {
		t.Errorf("status = %s, upload alone must not confirm", updated.Status)
	}
}

func TestAttachPaymentProofAutoConfirm(t *testing.T) {
	f := newFixture(t)
	f.config.Booking.AutoConfirm = true

	booking, _ := f.service.CreateBooking(context.Background(), f.createRequest("C1"))

	updated, err := f.service.AttachPaymentProof(context.Background(), booking.BookingReference, strings.NewReader("fake image"), "image/jpeg")
	if err != nil {
		t.Fatalf("AttachPaymentProof failed: %v", err)
	}
	if updated.Status != StatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED with auto-confirm on", updated.Status)
	}
}

func TestIssueTicket(t *testing.T) {
	t.Run("confirmed booking gets a ticket", func(t *testing.T) {
		f := newFixture(t)

		booking, _ := f.service.CreateBooking(context.Background(), f.createRequest("A1"))
		if _, err := f.service.ConfirmPayment(context.Background(), booking.BookingReference); err != nil {
			t.Fatalf("confirm failed: %v", err)
		}

		ticket, err := f.service.IssueTicket(context.Background(), booking.BookingReference)
		if err != nil {
			t.Fatalf("IssueTicket failed: %v", err)
		}
		if !strings.Contains(ticket.Payload, booking.BookingReference) {
			t.Error("payload missing booking reference")
		}
		if !strings.HasPrefix(ticket.QRImage, "data:image/png;base64,") {
			t.Error("QR image is not a PNG data URI")
		}
	})

	t.Run("pending booking has no ticket", func(t *testing.T) {
		f := newFixture(t)

		booking, _ := f.service.CreateBooking(context.Background(), f.createRequest("A1"))

		_, err := f.service.IssueTicket(context.Background(), booking.BookingReference)
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("error = %v, want ErrInvalidState", err)
		}
	})
}

func TestVerify(t *testing.T) {
	confirmedBooking := func(t *testing.T, f *fixture) *Booking {
		t.Helper()
		booking, err := f.service.CreateBooking(context.Background(), f.createRequest("A1", "A2"))
		if err != nil {
			t.Fatalf("CreateBooking failed: %v", err)
		}
		if _, err := f.service.ConfirmPayment(context.Background(), booking.BookingReference); err != nil {
			t.Fatalf("ConfirmPayment failed: %v", err)
		}
		return booking
	}

	t.Run("first verification succeeds", func(t *testing.T) {
		f := newFixture(t)
		booking := confirmedBooking(t, f)

		result := f.service.VerifyManual(context.Background(), booking.BookingReference, booking.VerificationCode)
		if !result.Valid {
			t.Fatalf("first verify invalid: %s", result.Message)
		}
		if result.VerifiedAt == nil {
			t.Error("verified result missing timestamp")
		}
		if result.TicketInfo == nil || result.TicketInfo.MovieTitle != "Interstellar Horizons" {
			t.Errorf("ticket info = %+v", result.TicketInfo)
		}
	})

	t.Run("second verification reports already used with original time", func(t *testing.T) {
		f := newFixture(t)
		booking := confirmedBooking(t, f)

		first := f.service.VerifyManual(context.Background(), booking.BookingReference, booking.VerificationCode)
		second := f.service.VerifyManual(context.Background(), booking.BookingReference, booking.VerificationCode)

		if second.Valid {
			t.Fatal("second verify must fail")
		}
		if second.Reason != ReasonAlreadyUsed {
			t.Errorf("reason = %s, want %s", second.Reason, ReasonAlreadyUsed)
		}
		if second.VerifiedAt == nil || !second.VerifiedAt.Equal(*first.VerifiedAt) {
			t.Errorf("already-used VerifiedAt = %v, want original %v", second.VerifiedAt, first.VerifiedAt)
		}
	})

	t.Run("unknown reference and wrong code are indistinguishable", func(t *testing.T) {
		f := newFixture(t)
		booking := confirmedBooking(t, f)

		unknownRef := f.service.VerifyManual(context.Background(), "CBK-20260901-NOSUCH", booking.VerificationCode)
		wrongCode := f.service.VerifyManual(context.Background(), booking.BookingReference, "WRONGONE")

		if unknownRef.Valid || wrongCode.Valid {
			t.Fatal("neither attempt may succeed")
		}
		if unknownRef.Reason != wrongCode.Reason || unknownRef.Message != wrongCode.Message {
			t.Errorf("responses differ: %+v vs %+v", unknownRef, wrongCode)
		}
		if unknownRef.TicketInfo != nil || wrongCode.TicketInfo != nil {
			t.Error("failed verification must not leak ticket info")
		}
	})

	t.Run("pending booking cannot verify", func(t *testing.T) {
		f := newFixture(t)

		booking, _ := f.service.CreateBooking(context.Background(), f.createRequest("A1"))
		result := f.service.VerifyManual(context.Background(), booking.BookingReference, booking.VerificationCode)
		if result.Valid {
			t.Fatal("pending booking must not verify")
		}
		if result.Reason != ReasonInvalidTicket {
			t.Errorf("reason = %s, want %s", result.Reason, ReasonInvalidTicket)
		}
	})

	t.Run("concurrent scans of one ticket have one winner", func(t *testing.T) {
		f := newFixture(t)
		booking := confirmedBooking(t, f)

		const scanners = 10
		var wg sync.WaitGroup
		results := make([]*VerificationResult, scanners)

		for i := 0; i < scanners; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				results[n] = f.service.VerifyManual(context.Background(), booking.BookingReference, booking.VerificationCode)
			}(i)
		}
		wg.Wait()

		winners := 0
		for _, result := range results {
			if result.Valid {
				winners++
			} else if result.Reason != ReasonAlreadyUsed {
				t.Errorf("loser reason = %s, want %s", result.Reason, ReasonAlreadyUsed)
			}
		}
		if winners != 1 {
			t.Errorf("winners = %d, want exactly 1", winners)
		}
	})
}

func TestVerifyScan(t *testing.T) {
	t.Run("malformed payload", func(t *testing.T) {
		f := newFixture(t)

		result := f.service.VerifyScan(context.Background(), "not a ticket at all")
		if result.Valid {
			t.Fatal("malformed scan must not verify")
		}
		if result.Reason != ReasonMalformedPayload {
			t.Errorf("reason = %s, want %s", result.Reason, ReasonMalformedPayload)
		}
	})

	t.Run("scan of issued ticket verifies", func(t *testing.T) {
		f := newFixture(t)

		booking, _ := f.service.CreateBooking(context.Background(), f.createRequest("A1"))
		if _, err := f.service.ConfirmPayment(context.Background(), booking.BookingReference); err != nil {
			t.Fatalf("confirm failed: %v", err)
		}

		ticket, err := f.service.IssueTicket(context.Background(), booking.BookingReference)
		if err != nil {
			t.Fatalf("IssueTicket failed: %v", err)
		}

		result := f.service.VerifyScan(context.Background(), ticket.Payload)
		if !result.Valid {
			t.Fatalf("scan of issued ticket failed: %s", result.Message)
		}
	})
}
