package types

import (
	"encoding/json"
	"testing"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name    string
		money   Money
		amount  int64
		unit    string
		display string
	}{
		{"tau", In("τ", 1000), 1000, "τ", "1000τ"},
		{"dollar-like", In("$", 4900), 4900, "$", "4900$"},
		{"negative", In("t", -50), -50, "t", "-50t"},
		{"zero", Zero("e"), 0, "e", "0e"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.money.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.money.Amount, tt.amount)
			}
			if tt.money.Unit != tt.unit {
				t.Errorf("Unit: got %s, want %s", tt.money.Unit, tt.unit)
			}
			if tt.money.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.money.String(), tt.display)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Money
		expected Money
	}{
		{"Add", func() Money { return In("t", 100).Add(In("t", 200)) }, In("t", 300)},
		{"Subtract", func() Money { return In("t", 500).Subtract(In("t", 200)) }, In("t", 300)},
		{"Negate", func() Money { return In("t", 100).Negate() }, In("t", -100)},
		{"Percent exact", func() Money { return In("t", 1000).Percent(10) }, In("t", 100)},
		{"Percent floors", func() Money { return In("t", 1999).Percent(10) }, In("t", 199)},
		{"Percent zero rate", func() Money { return In("t", 1999).Percent(0) }, In("t", 0)},
		{"Percent full rate", func() Money { return In("t", 77).Percent(100) }, In("t", 77)},
		{"Sum", func() Money { return Sum(In("t", 1), In("t", 2), In("t", 3)) }, In("t", 6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.op()
			if !got.Equal(tt.expected) {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMoneyComparison(t *testing.T) {
	small := In("t", 10)
	big := In("t", 20)

	if !small.LessThan(big) {
		t.Error("LessThan failed")
	}
	if !big.GreaterThan(small) {
		t.Error("GreaterThan failed")
	}
	if !In("t", -1).IsNegative() {
		t.Error("IsNegative failed")
	}
	if !In("t", 1).IsPositive() {
		t.Error("IsPositive failed")
	}
	if !Zero("t").IsZero() {
		t.Error("IsZero failed")
	}
}

func TestMoneyUnitMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on unit mismatch")
		}
	}()
	In("t", 1).Add(In("e", 1))
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(In("τ", 1500))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded struct {
		Amount  int64  `json:"amount"`
		Unit    string `json:"unit"`
		Display string `json:"display"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Amount != 1500 || decoded.Unit != "τ" || decoded.Display != "1500τ" {
		t.Errorf("unexpected JSON: %+v", decoded)
	}
}
