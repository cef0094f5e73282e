// Package plugin provides an extensible plugin system for Mint.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"
	"time"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// Lifecycle hooks

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, m interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// Economy lifecycle hooks

// OnEconomyCreated is called when a new economy is created.
type OnEconomyCreated interface {
	Plugin
	OnEconomyCreated(ctx context.Context, econ interface{}) error
}

// OnEconomyDeleted is called when an economy is deleted.
type OnEconomyDeleted interface {
	Plugin
	OnEconomyDeleted(ctx context.Context, economyID string) error
}

// OnGuildBound is called when a guild is bound to an economy.
type OnGuildBound interface {
	Plugin
	OnGuildBound(ctx context.Context, guildID int64, economyID string) error
}

// OnGuildUnbound is called when a guild binding is removed.
type OnGuildUnbound interface {
	Plugin
	OnGuildUnbound(ctx context.Context, guildID int64, economyID string) error
}

// Account lifecycle hooks

// OnAccountOpened is called when a new account is opened.
type OnAccountOpened interface {
	Plugin
	OnAccountOpened(ctx context.Context, acct interface{}) error
}

// OnAccountClosed is called when an account is closed.
type OnAccountClosed interface {
	Plugin
	OnAccountClosed(ctx context.Context, acct interface{}) error
}

// OnOwnershipTransferred is called when an account changes owner.
type OnOwnershipTransferred interface {
	Plugin
	OnOwnershipTransferred(ctx context.Context, acct interface{}, previousOwner int64) error
}

// Money movement hooks

// OnTransferPerformed is called after a transfer commits. The record is
// the audit row written for the transfer.
type OnTransferPerformed interface {
	Plugin
	OnTransferPerformed(ctx context.Context, record interface{}) error
}

// OnFundsManaged is called after a direct balance adjustment commits
// (money printed or removed by an authority).
type OnFundsManaged interface {
	Plugin
	OnFundsManaged(ctx context.Context, record interface{}) error
}

// OnTaxesPerformed is called after a tax pass commits.
type OnTaxesPerformed interface {
	Plugin
	OnTaxesPerformed(ctx context.Context, economyID string, collected int64) error
}

// Permission hooks

// OnPermissionsUpdated is called when a permission entry changes.
type OnPermissionsUpdated interface {
	Plugin
	OnPermissionsUpdated(ctx context.Context, entry interface{}) error
}

// Tax bracket hooks

// OnTaxBracketsUpdated is called when a tax bracket is created or deleted.
type OnTaxBracketsUpdated interface {
	Plugin
	OnTaxBracketsUpdated(ctx context.Context, bracket interface{}) error
}

// Recurring transfer hooks

// OnRecurringCreated is called when a recurring transfer is scheduled.
type OnRecurringCreated interface {
	Plugin
	OnRecurringCreated(ctx context.Context, t interface{}) error
}

// OnRecurringCanceled is called when a recurring transfer is canceled,
// either explicitly or because a scheduled payment could not be made.
type OnRecurringCanceled interface {
	Plugin
	OnRecurringCanceled(ctx context.Context, t interface{}, reason string) error
}

// OnTick is called after each scheduler pass over the recurring
// transfers, with the number of payments applied and the elapsed time.
type OnTick interface {
	Plugin
	OnTick(ctx context.Context, applied int, elapsed time.Duration) error
}
