// Package tax defines tax brackets and the integer bracket-assessment
// arithmetic shared by the wealth, income and VAT passes.
package tax

import (
	"github.com/xraph/mint/account"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/types"
)

// Kind classifies what a bracket taxes.
type Kind string

const (
	// KindWealth taxes account balances, applied on demand in a batch
	// pass.
	KindWealth Kind = "wealth"
	// KindIncome taxes accumulated income-to-date, withdrawn from the
	// balance in a batch pass.
	KindIncome Kind = "income"
	// KindVAT taxes purchase transactions inline, reducing the amount
	// the seller receives.
	KindVAT Kind = "vat"
)

// Bracket is a rate applied to the portion of a value that falls within
// [Start, End), routed to a destination account in the same economy.
// Bracket names are unique per economy.
type Bracket struct {
	types.Entity
	ID            id.TaxBracketID `json:"id"`
	Name          string          `json:"name"`
	EconomyID     id.EconomyID    `json:"economy_id"`
	AffectedKind  account.Kind    `json:"affected_kind"`
	Kind          Kind            `json:"kind"`
	Start         int64           `json:"start"` // Minor units, inclusive
	End           int64           `json:"end"`   // Minor units, exclusive
	Rate          int             `json:"rate"`  // Integer percent, 0-100
	DestinationID id.AccountID    `json:"destination_id"`
}

// Assess returns the tax this bracket collects on the given value, using
// floor division throughout: fractional minor units are lost to the
// payer's benefit, never rounded up.
//
// A value at or above End pays the full bracket; a value inside
// [Start, End) pays pro rata on the portion above Start; a value below
// Start pays nothing.
func (b *Bracket) Assess(value int64) int64 {
	switch {
	case value >= b.End:
		return (b.End - b.Start) * int64(b.Rate) / 100
	case value >= b.Start:
		return (value - b.Start) * int64(b.Rate) / 100
	default:
		return 0
	}
}
