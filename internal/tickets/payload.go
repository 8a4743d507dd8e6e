package tickets

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PayloadType marks a serialized payload as a cinebook ticket so scanners
// can reject foreign QR codes early.
const PayloadType = "cinebook.ticket"

// Payload is the data encoded into a ticket QR code. It is self-describing
// enough for staff display without a network round trip, but verification
// always re-fetches the live booking: the verification code is a credential
// to look the record up, not a substitute for it.
type Payload struct {
	Type             string    `json:"type"`
	BookingReference string    `json:"booking_reference"`
	VerificationCode string    `json:"verification_code"`
	MovieTitle       string    `json:"movie_title"`
	ShowtimeID       string    `json:"showtime_id"`
	Theater          string    `json:"theater"`
	StartsAt         time.Time `json:"starts_at"`
	Seats            []string  `json:"seats"`
	CustomerName     string    `json:"customer_name"`
	AmountPaid       float64   `json:"amount_paid"`
	IssuedAt         time.Time `json:"issued_at"`
}

// ErrMalformedPayload is returned when scanned data is not a ticket payload
// or is missing its reference/code.
var ErrMalformedPayload = errors.New("malformed ticket payload")

// Encode serializes the payload to its canonical JSON string.
func (p *Payload) Encode() (string, error) {
	if p.Type == "" {
		p.Type = PayloadType
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode ticket payload: %w", err)
	}
	return string(data), nil
}

// Parse decodes a scanned payload string. The round trip
// Parse(Encode(p)) == p holds for the canonical encoding.
func Parse(raw string) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, ErrMalformedPayload
	}
	if payload.Type != PayloadType {
		return nil, ErrMalformedPayload
	}
	if payload.BookingReference == "" || payload.VerificationCode == "" {
		return nil, ErrMalformedPayload
	}
	return &payload, nil
}
