package showtimes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, showtime *Showtime) error
	GetByID(ctx context.Context, id uuid.UUID) (*Showtime, error)
	GetAll(ctx context.Context) ([]Showtime, error)
	GetUpcoming(ctx context.Context, limit int) ([]Showtime, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, showtime *Showtime) error {
	return r.db.WithContext(ctx).Create(showtime).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	var showtime Showtime
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&showtime).Error
	if err != nil {
		return nil, err
	}
	return &showtime, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Showtime, error) {
	var showtimes []Showtime
	err := r.db.WithContext(ctx).
		Order("starts_at ASC").
		Find(&showtimes).Error
	return showtimes, err
}

func (r *repository) GetUpcoming(ctx context.Context, limit int) ([]Showtime, error) {
	var showtimes []Showtime
	err := r.db.WithContext(ctx).
		Where("starts_at > ?", time.Now()).
		Order("starts_at ASC").
		Limit(limit).
		Find(&showtimes).Error
	return showtimes, err
}
