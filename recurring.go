package mint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/mint/id"
	"github.com/xraph/mint/permission"
	"github.com/xraph/mint/transaction"
	"github.com/xraph/mint/transfer"
	"github.com/xraph/mint/types"
)

// CreateRecurringTransfer schedules a repeating transfer and applies
// the first payment immediately; scheduling fails if that payment does.
// A nil count repeats forever. Each later payment is replayed by Tick
// under the authorizer's permissions. Requires CREATE_RECURRING_TRANSFER
// on the source account (plus TRANSFER_FUNDS for each payment).
func (m *Mint) CreateRecurringTransfer(ctx context.Context, actorID int64, fromID, toID id.AccountID, amount int64, interval time.Duration, count *int, kind transfer.Kind) (*transfer.RecurringTransfer, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if count != nil && *count < 1 {
		return nil, ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	from, err := m.store.GetAccount(ctx, fromID)
	if err != nil {
		return nil, err
	}
	if err := m.authorize(ctx, actorID, permission.KindCreateRecurringTransfer, from, id.ID{}); err != nil {
		return nil, err
	}

	if err := m.performTransactionLocked(ctx, actorID, fromID, toID, amount, kind); err != nil {
		return nil, err
	}

	var paymentsLeft *int
	if count != nil {
		n := *count - 1
		paymentsLeft = &n
	}
	rt := &transfer.RecurringTransfer{
		Entity:       types.NewEntityAt(m.now()),
		ID:           id.NewRecurringID(),
		AuthorizerID: actorID,
		FromID:       fromID,
		ToID:         toID,
		Amount:       amount,
		Kind:         kind,
		LastPaidAt:   m.now(),
		Interval:     interval,
		PaymentsLeft: paymentsLeft,
	}
	if err := m.store.CreateRecurringTransfer(ctx, rt); err != nil {
		return nil, err
	}

	m.logger.Info("recurring transfer created",
		"transfer", rt.ID,
		"from", fromID,
		"to", toID,
		"amount", amount,
		"interval", interval,
		"visibility", "public",
	)
	m.plugins.EmitRecurringCreated(ctx, rt)
	return rt, nil
}

// CancelRecurringTransfer deletes a scheduled transfer. Allowed for its
// authorizer, or for anyone holding CLOSE_ACCOUNT on the source account.
func (m *Mint) CancelRecurringTransfer(ctx context.Context, actorID int64, transferID id.RecurringID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rt, err := m.store.GetRecurringTransfer(ctx, transferID)
	if err != nil {
		return err
	}
	if actorID != rt.AuthorizerID {
		from, err := m.store.GetAccount(ctx, rt.FromID)
		if err != nil {
			return err
		}
		if err := m.authorize(ctx, actorID, permission.KindCloseAccount, from, id.ID{}); err != nil {
			return err
		}
	}
	if err := m.store.DeleteRecurringTransfer(ctx, transferID); err != nil {
		return err
	}

	from, _ := m.store.GetAccount(ctx, rt.FromID)
	economyID := id.ID{}
	if from != nil {
		economyID = from.EconomyID
	}
	record := m.newRecord(actorID, transaction.ActionTransfer, transaction.ChangeDelete, economyID)
	record.FromAccountID = rt.FromID
	record.ToAccountID = rt.ToID
	record.Metadata = map[string]any{"recurring": rt.ID.String()}
	if err := m.store.AppendTransaction(ctx, record); err != nil {
		return err
	}

	m.plugins.EmitRecurringCanceled(ctx, rt, "canceled")
	return nil
}

// GetRecurringTransfer retrieves a scheduled transfer by ID.
func (m *Mint) GetRecurringTransfer(ctx context.Context, transferID id.RecurringID) (*transfer.RecurringTransfer, error) {
	return m.store.GetRecurringTransfer(ctx, transferID)
}

// ListRecurringTransfers returns the transfers drawing on an account.
func (m *Mint) ListRecurringTransfers(ctx context.Context, fromID id.AccountID) ([]*transfer.RecurringTransfer, error) {
	return m.store.ListRecurringTransfersByAccount(ctx, fromID)
}

// Tick replays every due recurring transfer, applying exactly the
// number of whole periods elapsed since its last payment. A transfer
// whose payment budget runs out is deleted; a transfer whose payment
// fails (permission revoked, insufficient funds, closed account) is
// deleted and its authorizer notified, without attempting the remaining
// periods. Re-running Tick with no time advance is a no-op.
//
// The engine mutex guarantees ticks never run concurrently with each
// other or with any other mutation.
func (m *Mint) Tick(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	start := time.Now()

	transfers, err := m.store.ListRecurringTransfers(ctx)
	if err != nil {
		return err
	}

	applied := 0
	for _, rt := range transfers {
		periods := rt.PeriodsDue(now)
		if periods == 0 {
			continue
		}

		broke := false
		for i := 0; i < periods; i++ {
			if rt.Exhausted() {
				if err := m.store.DeleteRecurringTransfer(ctx, rt.ID); err != nil {
					return err
				}
				m.logger.Info("recurring transfer exhausted",
					"transfer", rt.ID, "visibility", "private")
				m.plugins.EmitRecurringCanceled(ctx, rt, "exhausted")
				broke = true
				break
			}

			err := m.performTransactionLocked(ctx, rt.AuthorizerID, rt.FromID, rt.ToID, rt.Amount, rt.Kind)
			if err != nil {
				if !cancelsRecurring(err) {
					return err
				}
				if derr := m.store.DeleteRecurringTransfer(ctx, rt.ID); derr != nil {
					return derr
				}
				m.logger.Warn("recurring transfer canceled",
					"transfer", rt.ID, "reason", err, "visibility", "private")
				m.notify(ctx, rt.AuthorizerID, "Recurring transfer canceled",
					fmt.Sprintf("A scheduled payment of %d failed: %v", rt.Amount, err))
				m.plugins.EmitRecurringCanceled(ctx, rt, err.Error())
				broke = true
				break
			}

			applied++
			if rt.PaymentsLeft != nil {
				*rt.PaymentsLeft--
			}
		}

		if !broke {
			rt.LastPaidAt = now
			rt.Touch()
			if err := m.store.UpdateRecurringTransfer(ctx, rt); err != nil {
				return err
			}
		}
	}

	elapsed := time.Since(start)
	if applied > 0 {
		m.logger.Info("tick pass complete",
			"applied", applied,
			"transfers", len(transfers),
			"elapsed_ms", elapsed.Milliseconds(),
		)
	}
	m.plugins.EmitTick(ctx, applied, elapsed)
	return nil
}

// cancelsRecurring reports whether a payment failure cancels the
// schedule rather than aborting the tick pass. Storage failures abort;
// expected ledger conditions cancel.
func cancelsRecurring(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrAccountClosed) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrCrossEconomy) ||
		errors.Is(err, ErrInvalidAmount)
}
