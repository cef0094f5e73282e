package mint

import (
	"context"
	"errors"

	"github.com/xraph/mint/account"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/permission"
	"github.com/xraph/mint/transaction"
)

// Scope narrows a permission question or grant to an account and/or
// economy. Both fields are optional; an account implies its economy.
type Scope struct {
	AccountID id.AccountID
	EconomyID id.EconomyID
}

// resolveScope loads the scoped account (if any) and infers the economy
// from it. An explicitly given economy must match the account's.
func (m *Mint) resolveScope(ctx context.Context, scope Scope) (*account.Account, id.EconomyID, error) {
	if scope.AccountID.IsNil() {
		return nil, scope.EconomyID, nil
	}
	acct, err := m.store.GetAccount(ctx, scope.AccountID)
	if err != nil {
		return nil, id.ID{}, err
	}
	if !scope.EconomyID.IsNil() && scope.EconomyID != acct.EconomyID {
		return nil, id.ID{}, ErrCrossEconomy
	}
	return acct, acct.EconomyID, nil
}

// HasPermission reports whether the principal holds the permission at
// the given scope, per the stored entries and built-in defaults.
func (m *Mint) HasPermission(ctx context.Context, principalID int64, kind permission.Kind, scope Scope) (bool, error) {
	acct, economyID, err := m.resolveScope(ctx, scope)
	if err != nil {
		return false, err
	}
	err = m.authorize(ctx, principalID, kind, acct, economyID)
	if errors.Is(err, ErrPermissionDenied) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ChangePermission grants or denies one permission for a principal,
// replacing any existing entry for the same scope. Requires
// MANAGE_PERMISSIONS at the target economy.
func (m *Mint) ChangePermission(ctx context.Context, actorID, principalID int64, kind permission.Kind, allowed bool, scope Scope) error {
	return m.ChangePermissions(ctx, actorID, principalID, []permission.Kind{kind}, allowed, scope)
}

// ChangePermissions grants or denies several permissions at once,
// audited as a single change.
func (m *Mint) ChangePermissions(ctx context.Context, actorID, principalID int64, kinds []permission.Kind, allowed bool, scope Scope) error {
	if len(kinds) == 0 {
		return ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acct, economyID, err := m.resolveScope(ctx, scope)
	if err != nil {
		return err
	}
	if err := m.authorize(ctx, actorID, permission.KindManagePermissions, nil, economyID); err != nil {
		return err
	}

	var accountID id.AccountID
	if acct != nil {
		accountID = acct.ID
	}
	for _, kind := range kinds {
		entry := &permission.Entry{
			ID:          id.NewPermissionID(),
			PrincipalID: principalID,
			Kind:        kind,
			AccountID:   accountID,
			EconomyID:   economyID,
			Allowed:     allowed,
		}
		if err := m.store.UpsertPermission(ctx, entry); err != nil {
			return err
		}
	}

	record := m.newRecord(actorID, transaction.ActionUpdatePermission, transaction.ChangeUpdate, economyID)
	record.ToAccountID = accountID
	record.Metadata = map[string]any{
		"principal": principalID,
		"kinds":     kindStrings(kinds),
		"allowed":   allowed,
	}
	if err := m.store.AppendTransaction(ctx, record); err != nil {
		return err
	}

	m.logger.Info("permissions updated",
		"actor", actorID,
		"principal", principalID,
		"kinds", kindStrings(kinds),
		"allowed", allowed,
		"visibility", "public",
	)
	m.plugins.EmitPermissionsUpdated(ctx, record)
	return nil
}

// ResetPermission deletes the stored entry for the given scope,
// reverting the principal to the built-in defaults. Deleting a missing
// entry is not an error.
func (m *Mint) ResetPermission(ctx context.Context, actorID, principalID int64, kind permission.Kind, scope Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, economyID, err := m.resolveScope(ctx, scope)
	if err != nil {
		return err
	}
	if err := m.authorize(ctx, actorID, permission.KindManagePermissions, nil, economyID); err != nil {
		return err
	}

	var accountID id.AccountID
	if acct != nil {
		accountID = acct.ID
	}
	if err := m.store.DeletePermission(ctx, principalID, kind, accountID, economyID); err != nil {
		return err
	}

	record := m.newRecord(actorID, transaction.ActionUpdatePermission, transaction.ChangeDelete, economyID)
	record.ToAccountID = accountID
	record.Metadata = map[string]any{
		"principal": principalID,
		"kinds":     []string{string(kind)},
	}
	if err := m.store.AppendTransaction(ctx, record); err != nil {
		return err
	}

	m.plugins.EmitPermissionsUpdated(ctx, record)
	return nil
}

func kindStrings(kinds []permission.Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
