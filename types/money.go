package types

import (
	"encoding/json"
	"fmt"
)

// Money represents an amount of a single economy's virtual currency, in
// integer minor units. Economies define their own currency names and unit
// symbols, so there is no ISO table here: the unit travels with the value
// and arithmetic across different units is a programming error.
//
// All arithmetic is integer-only. Percentage application uses floor
// (truncating) division: fractional remainders are lost to the payer's
// benefit, never rounded up.
type Money struct {
	Amount int64  `json:"amount"` // Minor units
	Unit   string `json:"unit"`   // Economy currency unit symbol, e.g. "τ"
}

// In creates a Money value in the given currency unit.
func In(unit string, amount int64) Money { return Money{Amount: amount, Unit: unit} }

// Zero returns a zero Money value in the given unit.
func Zero(unit string) Money { return Money{Unit: unit} }

// Add adds two Money values. Panics if units don't match.
func (m Money) Add(other Money) Money {
	m.assertSameUnit(other)
	return Money{Amount: m.Amount + other.Amount, Unit: m.Unit}
}

// Subtract subtracts another Money value. Panics if units don't match.
func (m Money) Subtract(other Money) Money {
	m.assertSameUnit(other)
	return Money{Amount: m.Amount - other.Amount, Unit: m.Unit}
}

// Negate returns the negative of the Money value.
func (m Money) Negate() Money {
	return Money{Amount: -m.Amount, Unit: m.Unit}
}

// Percent applies an integer percentage rate with floor division.
// In(unit, 1999).Percent(10) is 199, never 200.
func (m Money) Percent(rate int) Money {
	return Money{Amount: m.Amount * int64(rate) / 100, Unit: m.Unit}
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool { return m.Amount > 0 }

// IsNegative returns true if the amount is less than zero.
func (m Money) IsNegative() bool { return m.Amount < 0 }

// Equal returns true if both values have the same amount and unit.
func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Unit == other.Unit
}

// LessThan returns true if this Money is less than other. Panics if units don't match.
func (m Money) LessThan(other Money) bool {
	m.assertSameUnit(other)
	return m.Amount < other.Amount
}

// GreaterThan returns true if this Money is greater than other. Panics if units don't match.
func (m Money) GreaterThan(other Money) bool {
	m.assertSameUnit(other)
	return m.Amount > other.Amount
}

// String returns the amount followed by the unit symbol: "1000τ".
// Virtual currencies have no major/minor split convention, so the raw
// minor-unit count is the display form.
func (m Money) String() string {
	return fmt.Sprintf("%d%s", m.Amount, m.Unit)
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount  int64  `json:"amount"`
		Unit    string `json:"unit"`
		Display string `json:"display"`
	}{
		Amount:  m.Amount,
		Unit:    m.Unit,
		Display: m.String(),
	})
}

// assertSameUnit panics if units don't match.
func (m Money) assertSameUnit(other Money) {
	if m.Unit != other.Unit {
		panic(fmt.Sprintf("money: unit mismatch: %s != %s", m.Unit, other.Unit))
	}
}

// Sum calculates the sum of multiple Money values. All must share a unit.
func Sum(values ...Money) Money {
	if len(values) == 0 {
		return Money{}
	}

	result := values[0]
	for i := 1; i < len(values); i++ {
		result = result.Add(values[i])
	}
	return result
}
