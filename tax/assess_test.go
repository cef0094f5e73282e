package tax

import (
	"testing"

	"github.com/xraph/mint/account"
)

func TestBracketAssess(t *testing.T) {
	b := &Bracket{
		Name:         "middle",
		AffectedKind: account.KindUser,
		Kind:         KindWealth,
		Start:        1000,
		End:          2000,
		Rate:         10,
	}

	tests := []struct {
		name  string
		value int64
		want  int64
	}{
		{"below bracket", 999, 0},
		{"at bracket start", 1000, 0},
		{"inside bracket", 1500, 50},
		{"just below end", 1999, 99}, // floor((1999-1000)*10/100)
		{"at bracket end", 2000, 100},
		{"above bracket end pays the full bracket", 1_000_000, 100},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Assess(tt.value); got != tt.want {
				t.Errorf("Assess(%d) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestBracketAssessFloors(t *testing.T) {
	b := &Bracket{Start: 0, End: 100, Rate: 33}

	// 33% of 10 is 3.3; the payer keeps the fraction.
	if got := b.Assess(10); got != 3 {
		t.Errorf("Assess(10) = %d, want 3", got)
	}
	if got := b.Assess(1); got != 0 {
		t.Errorf("Assess(1) = %d, want 0", got)
	}
}

func TestBracketAssessEdgeRates(t *testing.T) {
	zero := &Bracket{Start: 0, End: 1000, Rate: 0}
	if got := zero.Assess(500); got != 0 {
		t.Errorf("zero-rate bracket collected %d", got)
	}

	full := &Bracket{Start: 0, End: 1000, Rate: 100}
	if got := full.Assess(500); got != 500 {
		t.Errorf("full-rate bracket: got %d, want 500", got)
	}
	if got := full.Assess(5000); got != 1000 {
		t.Errorf("full-rate bracket above end: got %d, want 1000", got)
	}
}
