package bundles

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusRejected  Status = "REJECTED"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanBeConfirmed checks if an order with this status can be confirmed
func (s Status) CanBeConfirmed() bool {
	return s == StatusPending
}

// CanBeCancelled checks if an order with this status can be cancelled
func (s Status) CanBeCancelled() bool {
	return s == StatusPending || s == StatusConfirmed
}
