package transfer

import (
	"testing"
	"time"
)

func TestPeriodsDue(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	r := &RecurringTransfer{LastPaidAt: base, Interval: day}

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"immediately after payment", base, 0},
		{"one hour later", base.Add(time.Hour), 0},
		{"exactly one interval", base.Add(day), 1},
		{"one and a half intervals", base.Add(day + 12*time.Hour), 1},
		{"seven intervals offline", base.Add(7 * day), 7},
		{"before last payment", base.Add(-time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.PeriodsDue(tt.now); got != tt.want {
				t.Errorf("PeriodsDue = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPeriodsDueZeroInterval(t *testing.T) {
	r := &RecurringTransfer{Interval: 0}
	if got := r.PeriodsDue(time.Now()); got != 0 {
		t.Errorf("PeriodsDue with zero interval = %d, want 0", got)
	}
}

func TestExhausted(t *testing.T) {
	zero, one := 0, 1

	tests := []struct {
		name string
		left *int
		want bool
	}{
		{"unlimited", nil, false},
		{"one left", &one, false},
		{"none left", &zero, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &RecurringTransfer{PaymentsLeft: tt.left}
			if got := r.Exhausted(); got != tt.want {
				t.Errorf("Exhausted = %v, want %v", got, tt.want)
			}
		})
	}
}
