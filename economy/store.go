package economy

import (
	"context"

	"github.com/xraph/mint/id"
)

// Store is the storage contract for economies and guild bindings.
type Store interface {
	Create(ctx context.Context, e *Economy) error
	Get(ctx context.Context, economyID id.EconomyID) (*Economy, error)
	GetByName(ctx context.Context, currencyName string) (*Economy, error)
	GetByGuild(ctx context.Context, guildID int64) (*Economy, error)
	List(ctx context.Context) ([]*Economy, error)

	// Delete removes the economy and cascades its guild bindings.
	Delete(ctx context.Context, economyID id.EconomyID) error

	// BindGuild attaches a guild to an economy, replacing any existing
	// binding for that guild.
	BindGuild(ctx context.Context, guildID int64, economyID id.EconomyID) error
	UnbindGuild(ctx context.Context, guildID int64) error
	ListGuilds(ctx context.Context, economyID id.EconomyID) ([]*Guild, error)
}
