package bookings

import "testing"

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		status     Status
		valid      bool
		terminal   bool
		canConfirm bool
		canCancel  bool
	}{
		{StatusPending, true, false, true, true},
		{StatusConfirmed, true, false, false, true},
		{StatusCancelled, true, true, false, false},
		{StatusRejected, true, true, false, false},
		{Status("UNKNOWN"), false, false, false, false},
		{Status(""), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.status.IsTerminal(); got != tt.terminal {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.terminal)
			}
			if got := tt.status.CanBeConfirmed(); got != tt.canConfirm {
				t.Errorf("CanBeConfirmed() = %v, want %v", got, tt.canConfirm)
			}
			if got := tt.status.CanBeCancelled(); got != tt.canCancel {
				t.Errorf("CanBeCancelled() = %v, want %v", got, tt.canCancel)
			}
		})
	}
}
