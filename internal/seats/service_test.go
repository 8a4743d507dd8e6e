package seats

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cinebook/internal/shared/config"
)

// fakeReadRepo serves fixed claims and legacy seat lists; the Tx helpers are
// not exercised by read-side tests.
type fakeReadRepo struct {
	claims      []SeatClaim
	legacyLists []string
}

func (f *fakeReadRepo) GetClaimsForShowtime(ctx context.Context, showtimeID uuid.UUID, movieTitle string) ([]SeatClaim, error) {
	return f.claims, nil
}

func (f *fakeReadRepo) GetLegacySeatLists(ctx context.Context, showtimeID uuid.UUID, movieTitle string) ([]string, error) {
	return f.legacyLists, nil
}

func (f *fakeReadRepo) PurgeExpiredTx(tx *gorm.DB, showtimeID uuid.UUID, now time.Time) error {
	return nil
}

func (f *fakeReadRepo) ConflictingSeatsTx(tx *gorm.DB, showtimeID uuid.UUID, labels []string) ([]string, error) {
	return nil, nil
}

func (f *fakeReadRepo) LegacyConflictingSeatsTx(tx *gorm.DB, showtimeID uuid.UUID, labels []string, now time.Time) ([]string, error) {
	return IntersectSeatLists(f.legacyLists, labels), nil
}

func (f *fakeReadRepo) InsertClaimsTx(tx *gorm.DB, claims []SeatClaim) error { return nil }

func (f *fakeReadRepo) ConfirmClaimsTx(tx *gorm.DB, bookingID uuid.UUID) error { return nil }

func (f *fakeReadRepo) ReleaseClaimsTx(tx *gorm.DB, bookingID uuid.UUID) error { return nil }

func TestGetOccupiedSeats(t *testing.T) {
	showtimeID := uuid.New()
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(10 * time.Minute)

	repo := &fakeReadRepo{
		claims: []SeatClaim{
			{ShowtimeID: showtimeID, SeatLabel: "B1"},                     // confirmed, nil expiry
			{ShowtimeID: showtimeID, SeatLabel: "A2", ExpiresAt: &future}, // pending, still held
			{ShowtimeID: showtimeID, SeatLabel: "C3", ExpiresAt: &past},   // lapsed hold
		},
		legacyLists: []string{
			`["A1","A2"]`, // overlaps a live claim
			"d7, D8",
		},
	}

	svc := NewService(repo, &config.Config{})

	occupied, err := svc.GetOccupiedSeats(context.Background(), showtimeID, "")
	if err != nil {
		t.Fatalf("GetOccupiedSeats failed: %v", err)
	}

	// Union of live claims and legacy lists, deduplicated and sorted;
	// the lapsed C3 hold is not occupied
	want := []string{"A1", "A2", "B1", "D7", "D8"}
	if !reflect.DeepEqual(occupied, want) {
		t.Errorf("occupied = %v, want %v", occupied, want)
	}
}

func TestGetOccupiedSeatsEmpty(t *testing.T) {
	svc := NewService(&fakeReadRepo{}, &config.Config{})

	occupied, err := svc.GetOccupiedSeats(context.Background(), uuid.New(), "")
	if err != nil {
		t.Fatalf("GetOccupiedSeats failed: %v", err)
	}
	if len(occupied) != 0 {
		t.Errorf("occupied = %v, want empty", occupied)
	}
}
