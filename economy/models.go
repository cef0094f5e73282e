// Package economy defines the currency-space entities: economies and the
// guild bindings that attach external groups to them.
package economy

import (
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/types"
)

// Economy is an isolated currency space with its own accounts, permission
// entries and tax brackets. Exactly one external group administratively
// owns it.
type Economy struct {
	types.Entity
	ID           id.EconomyID `json:"id"`
	CurrencyName string       `json:"currency_name"` // Unique across all economies
	CurrencyUnit string       `json:"currency_unit"` // Display symbol, e.g. "τ"
	OwnerGuildID int64        `json:"owner_guild_id"`
}

// Guild binds an external group ID to exactly one economy. At most one
// binding exists per group ID.
type Guild struct {
	GuildID   int64        `json:"guild_id"`
	EconomyID id.EconomyID `json:"economy_id"`
}
