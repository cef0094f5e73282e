package tax

import (
	"context"

	"github.com/xraph/mint/id"
)

// Store is the storage contract for tax brackets.
type Store interface {
	Create(ctx context.Context, b *Bracket) error
	Get(ctx context.Context, bracketID id.TaxBracketID) (*Bracket, error)
	GetByName(ctx context.Context, economyID id.EconomyID, name string) (*Bracket, error)

	// List returns the economy's brackets of one kind, sorted by Start
	// descending, the evaluation order of every tax pass.
	List(ctx context.Context, economyID id.EconomyID, kind Kind) ([]*Bracket, error)

	Delete(ctx context.Context, bracketID id.TaxBracketID) error
}
