package showtimes

import (
	"time"

	"github.com/google/uuid"
)

// Showtime is a scheduled screening. It is immutable once scheduled: the
// booking core reads it for prices and theater bounds but never mutates it.
type Showtime struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	MovieTitle   string    `json:"movie_title" gorm:"not null;size:255;index"`
	Theater      string    `json:"theater" gorm:"not null;size:255"`
	StartsAt     time.Time `json:"starts_at" gorm:"not null"`
	PricePerSeat float64   `json:"price_per_seat" gorm:"not null;check:price_per_seat >= 0"`

	// Seating layout: rows are lettered A..(Rows), each with SeatsPerRow seats.
	Rows        int `json:"rows" gorm:"not null;default:8;check:rows > 0"`
	SeatsPerRow int `json:"seats_per_row" gorm:"not null;default:12;check:seats_per_row > 0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for Showtime
func (Showtime) TableName() string {
	return "showtimes"
}

// TotalSeats returns the theater capacity for this showtime
func (s *Showtime) TotalSeats() int {
	return s.Rows * s.SeatsPerRow
}

type CreateShowtimeRequest struct {
	MovieTitle   string    `json:"movie_title" binding:"required,min=1,max=255"`
	Theater      string    `json:"theater" binding:"required,min=1,max=255"`
	StartsAt     time.Time `json:"starts_at" binding:"required"`
	PricePerSeat float64   `json:"price_per_seat" binding:"required,min=0"`
	Rows         int       `json:"rows" binding:"omitempty,min=1,max=26"`
	SeatsPerRow  int       `json:"seats_per_row" binding:"omitempty,min=1,max=99"`
}

type ShowtimeResponse struct {
	ID           string    `json:"id"`
	MovieTitle   string    `json:"movie_title"`
	Theater      string    `json:"theater"`
	StartsAt     time.Time `json:"starts_at"`
	PricePerSeat float64   `json:"price_per_seat"`
	Rows         int       `json:"rows"`
	SeatsPerRow  int       `json:"seats_per_row"`
	TotalSeats   int       `json:"total_seats"`
}

// ToResponse converts a Showtime to its API representation
func (s *Showtime) ToResponse() ShowtimeResponse {
	return ShowtimeResponse{
		ID:           s.ID.String(),
		MovieTitle:   s.MovieTitle,
		Theater:      s.Theater,
		StartsAt:     s.StartsAt,
		PricePerSeat: s.PricePerSeat,
		Rows:         s.Rows,
		SeatsPerRow:  s.SeatsPerRow,
		TotalSeats:   s.TotalSeats(),
	}
}
