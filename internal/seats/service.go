package seats

import (
	"context"
	"fmt"
	"time"

	"cinebook/internal/shared/config"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

// Service answers "which seats are occupied for showtime X". Results are
// advisory: writers must re-validate inside the booking transaction because
// of the inherent race between read and write.
type Service interface {
	GetOccupiedSeats(ctx context.Context, showtimeID uuid.UUID, movieTitle string) ([]string, error)
	InvalidateOccupied(ctx context.Context, showtimeID uuid.UUID)
}

type service struct {
	repo         Repository
	config       *config.Config
	cacheService cache.Service
}

func NewService(repo Repository, cfg *config.Config) *service {
	return &service{
		repo:   repo,
		config: cfg,
	}
}

// SetCacheService enables the occupied-seats read cache.
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetOccupiedSeats(ctx context.Context, showtimeID uuid.UUID, movieTitle string) ([]string, error) {
	if s.cacheService == nil || movieTitle != "" {
		// Title-filtered legacy reads bypass the cache, the key is per showtime.
		return s.computeOccupiedSeats(ctx, showtimeID, movieTitle)
	}

	var occupied []string
	err := s.cacheService.GetOrSet(ctx, occupiedCacheKey(showtimeID), s.config.Redis.OccupiedSeatsTTL,
		func() (interface{}, error) {
			return s.computeOccupiedSeats(ctx, showtimeID, "")
		}, &occupied)
	if err != nil {
		return nil, err
	}
	if occupied == nil {
		occupied = []string{}
	}
	return occupied, nil
}

// computeOccupiedSeats unions seat claims with legacy denormalized seat
// lists. A seat must never be under-reported: a false "free" lets a
// double-booking through, a false "taken" only costs a retry.
func (s *service) computeOccupiedSeats(ctx context.Context, showtimeID uuid.UUID, movieTitle string) ([]string, error) {
	claims, err := s.repo.GetClaimsForShowtime(ctx, showtimeID, movieTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to query seat claims: %w", err)
	}

	now := time.Now()
	set := make(map[string]struct{})
	for i := range claims {
		if claims[i].IsHolding(now) {
			set[claims[i].SeatLabel] = struct{}{}
		}
	}

	legacyLists, err := s.repo.GetLegacySeatLists(ctx, showtimeID, movieTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to query booking seat lists: %w", err)
	}
	for _, raw := range legacyLists {
		for _, label := range NormalizeSeatList(raw) {
			set[label] = struct{}{}
		}
	}

	occupied := make([]string, 0, len(set))
	for label := range set {
		occupied = append(occupied, label)
	}
	SortSeatLabels(occupied)
	return occupied, nil
}

func (s *service) InvalidateOccupied(ctx context.Context, showtimeID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, occupiedCacheKey(showtimeID)); err != nil {
		logger.GetDefault().Warn("failed to invalidate occupied-seats cache",
			"showtime_id", showtimeID.String(), "error", err.Error())
	}
}

func occupiedCacheKey(showtimeID uuid.UUID) string {
	return fmt.Sprintf("cinebook:occupied:%s", showtimeID)
}
