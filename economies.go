package mint

import (
	"context"

	"github.com/xraph/mint/economy"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/permission"
	"github.com/xraph/mint/principal"
	"github.com/xraph/mint/transaction"
	"github.com/xraph/mint/types"
)

// CreateEconomy creates a new currency space owned by the given guild.
// Requires MANAGE_ECONOMIES at global scope. The owner guild must not
// already be bound to an economy. The creator is granted
// MANAGE_PERMISSIONS on the new economy via the console principal, which
// breaks the bootstrap circularity.
func (m *Mint) CreateEconomy(ctx context.Context, actorID int64, currencyName, currencyUnit string, ownerGuildID int64) (*economy.Economy, error) {
	if currencyName == "" || currencyUnit == "" {
		return nil, ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.authorize(ctx, actorID, permission.KindManageEconomies, nil, id.ID{}); err != nil {
		return nil, err
	}
	if _, err := m.store.GetEconomyByGuild(ctx, ownerGuildID); err == nil {
		return nil, ErrGuildBound
	}

	econ := &economy.Economy{
		Entity:       types.NewEntityAt(m.now()),
		ID:           id.NewEconomyID(),
		CurrencyName: currencyName,
		CurrencyUnit: currencyUnit,
		OwnerGuildID: ownerGuildID,
	}
	if err := m.store.CreateEconomy(ctx, econ); err != nil {
		return nil, err
	}
	if err := m.store.BindGuild(ctx, ownerGuildID, econ.ID); err != nil {
		return nil, err
	}

	if actorID != principal.ConsoleID {
		entry := &permission.Entry{
			ID:          id.NewPermissionID(),
			PrincipalID: actorID,
			Kind:        permission.KindManagePermissions,
			EconomyID:   econ.ID,
			Allowed:     true,
		}
		if err := m.store.UpsertPermission(ctx, entry); err != nil {
			return nil, err
		}
	}

	record := m.newRecord(actorID, transaction.ActionUpdateEconomy, transaction.ChangeCreate, econ.ID)
	record.Metadata = map[string]any{
		"currency_name": currencyName,
		"currency_unit": currencyUnit,
		"owner_guild":   ownerGuildID,
	}
	if err := m.store.AppendTransaction(ctx, record); err != nil {
		return nil, err
	}

	m.logger.Info("economy created",
		"economy", econ.ID,
		"currency", currencyName,
		"owner_guild", ownerGuildID,
		"visibility", "public",
	)
	m.plugins.EmitEconomyCreated(ctx, econ)
	return econ, nil
}

// DeleteEconomy removes an economy and everything inside it: guild
// bindings, accounts, brackets and permission entries. Audit rows are
// retained. Requires MANAGE_ECONOMIES at the economy.
func (m *Mint) DeleteEconomy(ctx context.Context, actorID int64, economyID id.EconomyID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	econ, err := m.store.GetEconomy(ctx, economyID)
	if err != nil {
		return err
	}
	if err := m.authorize(ctx, actorID, permission.KindManageEconomies, nil, economyID); err != nil {
		return err
	}

	// Audit first: the economy's owner guild scope is gone after the
	// cascade runs.
	record := m.newRecord(actorID, transaction.ActionUpdateEconomy, transaction.ChangeDelete, economyID)
	record.Metadata = map[string]any{"currency_name": econ.CurrencyName}
	if err := m.store.AppendTransaction(ctx, record); err != nil {
		return err
	}
	if err := m.store.DeleteEconomy(ctx, economyID); err != nil {
		return err
	}

	m.logger.Info("economy deleted", "economy", economyID, "visibility", "public")
	m.plugins.EmitEconomyDeleted(ctx, economyID.String())
	return nil
}

// RegisterGuild binds a guild to an economy. A guild already bound to a
// different economy is unbound first. Requires MANAGE_ECONOMIES at the
// target economy.
func (m *Mint) RegisterGuild(ctx context.Context, actorID, guildID int64, economyID id.EconomyID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.store.GetEconomy(ctx, economyID); err != nil {
		return err
	}
	if err := m.authorize(ctx, actorID, permission.KindManageEconomies, nil, economyID); err != nil {
		return err
	}

	if prev, err := m.store.GetEconomyByGuild(ctx, guildID); err == nil {
		if prev.ID == economyID {
			return nil
		}
		if prev.OwnerGuildID == guildID {
			return ErrOwnerGuild
		}
	}
	if err := m.store.BindGuild(ctx, guildID, economyID); err != nil {
		return err
	}

	record := m.newRecord(actorID, transaction.ActionUpdateEconomy, transaction.ChangeUpdate, economyID)
	record.Metadata = map[string]any{"guild_bound": guildID}
	if err := m.store.AppendTransaction(ctx, record); err != nil {
		return err
	}

	m.plugins.EmitGuildBound(ctx, guildID, economyID.String())
	return nil
}

// UnregisterGuild removes a guild binding. The economy's owner guild
// cannot be unbound. Requires MANAGE_ECONOMIES at the bound economy.
func (m *Mint) UnregisterGuild(ctx context.Context, actorID, guildID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	econ, err := m.store.GetEconomyByGuild(ctx, guildID)
	if err != nil {
		return ErrGuildNotBound
	}
	if err := m.authorize(ctx, actorID, permission.KindManageEconomies, nil, econ.ID); err != nil {
		return err
	}
	if econ.OwnerGuildID == guildID {
		return ErrOwnerGuild
	}
	if err := m.store.UnbindGuild(ctx, guildID); err != nil {
		return err
	}

	record := m.newRecord(actorID, transaction.ActionUpdateEconomy, transaction.ChangeUpdate, econ.ID)
	record.Metadata = map[string]any{"guild_unbound": guildID}
	if err := m.store.AppendTransaction(ctx, record); err != nil {
		return err
	}

	m.plugins.EmitGuildUnbound(ctx, guildID, econ.ID.String())
	return nil
}

// GetEconomy retrieves an economy by ID.
func (m *Mint) GetEconomy(ctx context.Context, economyID id.EconomyID) (*economy.Economy, error) {
	return m.store.GetEconomy(ctx, economyID)
}

// GetEconomyByName retrieves an economy by its unique currency name.
func (m *Mint) GetEconomyByName(ctx context.Context, currencyName string) (*economy.Economy, error) {
	return m.store.GetEconomyByName(ctx, currencyName)
}

// EconomyForGuild retrieves the economy a guild is bound to.
func (m *Mint) EconomyForGuild(ctx context.Context, guildID int64) (*economy.Economy, error) {
	return m.store.GetEconomyByGuild(ctx, guildID)
}

// ListEconomies returns all economies.
func (m *Mint) ListEconomies(ctx context.Context) ([]*economy.Economy, error) {
	return m.store.ListEconomies(ctx)
}

// ListGuilds returns the guild bindings of an economy.
func (m *Mint) ListGuilds(ctx context.Context, economyID id.EconomyID) ([]*economy.Guild, error) {
	return m.store.ListGuilds(ctx, economyID)
}
