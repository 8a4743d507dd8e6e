package showtimes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a showtime id is unknown.
var ErrNotFound = errors.New("showtime not found")

// Service interface defines the contract for showtime catalog logic
type Service interface {
	CreateShowtime(ctx context.Context, req CreateShowtimeRequest) (*Showtime, error)
	GetShowtime(ctx context.Context, id string) (*Showtime, error)
	ListShowtimes(ctx context.Context) ([]Showtime, error)
	ListUpcoming(ctx context.Context, limit int) ([]Showtime, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateShowtime(ctx context.Context, req CreateShowtimeRequest) (*Showtime, error) {
	showtime := &Showtime{
		MovieTitle:   req.MovieTitle,
		Theater:      req.Theater,
		StartsAt:     req.StartsAt,
		PricePerSeat: req.PricePerSeat,
		Rows:         req.Rows,
		SeatsPerRow:  req.SeatsPerRow,
	}
	if showtime.Rows == 0 {
		showtime.Rows = 8
	}
	if showtime.SeatsPerRow == 0 {
		showtime.SeatsPerRow = 12
	}

	if err := s.repo.Create(ctx, showtime); err != nil {
		return nil, fmt.Errorf("failed to create showtime: %w", err)
	}
	return showtime, nil
}

func (s *service) GetShowtime(ctx context.Context, id string) (*Showtime, error) {
	showtimeID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime ID: %w", err)
	}

	showtime, err := s.repo.GetByID(ctx, showtimeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get showtime: %w", err)
	}
	return showtime, nil
}

func (s *service) ListShowtimes(ctx context.Context) ([]Showtime, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) ListUpcoming(ctx context.Context, limit int) ([]Showtime, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetUpcoming(ctx, limit)
}
