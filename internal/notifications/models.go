package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates the closed set of events the core emits. Delivery
// transport (WebSocket fan-out, polling) is an external collaborator that
// consumes these from the broker.
type EventType string

const (
	// EventTypeSeatUpdate announces that seats changed state for a
	// showtime (held, confirmed, released) so seat maps can refresh.
	EventTypeSeatUpdate EventType = "seat_update"

	// EventTypeTicketValidated announces a gate check-in so operational
	// dashboards can flip seats from reserved to checked-in.
	EventTypeTicketValidated EventType = "ticket_validated"

	// EventTypeBroadcast is an admin-authored announcement to customers.
	EventTypeBroadcast EventType = "notification"
)

// SeatUpdatePayload describes a seat-state change for one showtime.
type SeatUpdatePayload struct {
	ShowtimeID string   `json:"showtime_id"`
	Seats      []string `json:"seats"`
	Status     string   `json:"status"` // held | confirmed | released
}

// TicketValidatedPayload describes a successful gate check-in.
type TicketValidatedPayload struct {
	BookingReference string   `json:"booking_reference"`
	ShowtimeID       string   `json:"showtime_id"`
	Seats            []string `json:"seats"`
}

// BroadcastPayload is an admin announcement.
type BroadcastPayload struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Audience string `json:"audience"` // all | customers | staff
}

// Event is the envelope published to the broker. Exactly one payload field
// is set, matching Type.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	CreatedAt time.Time `json:"created_at"`

	SeatUpdate      *SeatUpdatePayload      `json:"seat_update,omitempty"`
	TicketValidated *TicketValidatedPayload `json:"ticket_validated,omitempty"`
	Broadcast       *BroadcastPayload       `json:"broadcast,omitempty"`
}

// ToJSON serializes the event for the wire.
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey routes events for the same showtime to the same partition so
// consumers observe seat updates in order.
func (e *Event) PartitionKey() string {
	switch {
	case e.SeatUpdate != nil:
		return e.SeatUpdate.ShowtimeID
	case e.TicketValidated != nil:
		return e.TicketValidated.ShowtimeID
	default:
		return string(e.Type)
	}
}
