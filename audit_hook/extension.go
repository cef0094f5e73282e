// Package audithook bridges Mint lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/mint/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnEconomyCreated       = (*Extension)(nil)
	_ plugin.OnEconomyDeleted       = (*Extension)(nil)
	_ plugin.OnGuildBound           = (*Extension)(nil)
	_ plugin.OnGuildUnbound         = (*Extension)(nil)
	_ plugin.OnAccountOpened        = (*Extension)(nil)
	_ plugin.OnAccountClosed        = (*Extension)(nil)
	_ plugin.OnOwnershipTransferred = (*Extension)(nil)
	_ plugin.OnTransferPerformed    = (*Extension)(nil)
	_ plugin.OnFundsManaged         = (*Extension)(nil)
	_ plugin.OnTaxesPerformed       = (*Extension)(nil)
	_ plugin.OnPermissionsUpdated   = (*Extension)(nil)
	_ plugin.OnTaxBracketsUpdated   = (*Extension)(nil)
	_ plugin.OnRecurringCreated     = (*Extension)(nil)
	_ plugin.OnRecurringCanceled    = (*Extension)(nil)
	_ plugin.OnTick                 = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly; callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Mint lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Economy lifecycle hooks
// ──────────────────────────────────────────────────

// OnEconomyCreated implements plugin.OnEconomyCreated.
func (e *Extension) OnEconomyCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionEconomyCreated, SeverityInfo, OutcomeSuccess,
		ResourceEconomy, "", CategoryEconomy, nil,
		"event", "economy_created",
	)
}

// OnEconomyDeleted implements plugin.OnEconomyDeleted.
func (e *Extension) OnEconomyDeleted(ctx context.Context, economyID string) error {
	return e.record(ctx, ActionEconomyDeleted, SeverityWarning, OutcomeSuccess,
		ResourceEconomy, economyID, CategoryEconomy, nil,
		"economy_id", economyID,
	)
}

// OnGuildBound implements plugin.OnGuildBound.
func (e *Extension) OnGuildBound(ctx context.Context, guildID int64, economyID string) error {
	return e.record(ctx, ActionGuildBound, SeverityInfo, OutcomeSuccess,
		ResourceGuild, economyID, CategoryEconomy, nil,
		"guild_id", guildID,
		"economy_id", economyID,
	)
}

// OnGuildUnbound implements plugin.OnGuildUnbound.
func (e *Extension) OnGuildUnbound(ctx context.Context, guildID int64, economyID string) error {
	return e.record(ctx, ActionGuildUnbound, SeverityInfo, OutcomeSuccess,
		ResourceGuild, economyID, CategoryEconomy, nil,
		"guild_id", guildID,
		"economy_id", economyID,
	)
}

// ──────────────────────────────────────────────────
// Account lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccountOpened implements plugin.OnAccountOpened.
func (e *Extension) OnAccountOpened(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionAccountOpened, SeverityInfo, OutcomeSuccess,
		ResourceAccount, "", CategoryAccount, nil,
		"event", "account_opened",
	)
}

// OnAccountClosed implements plugin.OnAccountClosed.
func (e *Extension) OnAccountClosed(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionAccountClosed, SeverityInfo, OutcomeSuccess,
		ResourceAccount, "", CategoryAccount, nil,
		"event", "account_closed",
	)
}

// OnOwnershipTransferred implements plugin.OnOwnershipTransferred.
func (e *Extension) OnOwnershipTransferred(ctx context.Context, _ interface{}, previousOwner int64) error {
	return e.record(ctx, ActionOwnershipTransferred, SeverityWarning, OutcomeSuccess,
		ResourceAccount, "", CategoryAccount, nil,
		"event", "ownership_transferred",
		"previous_owner", previousOwner,
	)
}

// ──────────────────────────────────────────────────
// Money movement hooks
// ──────────────────────────────────────────────────

// OnTransferPerformed implements plugin.OnTransferPerformed.
func (e *Extension) OnTransferPerformed(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionTransferPerformed, SeverityInfo, OutcomeSuccess,
		ResourceTransfer, "", CategoryMoney, nil,
		"event", "transfer_performed",
	)
}

// OnFundsManaged implements plugin.OnFundsManaged.
func (e *Extension) OnFundsManaged(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionFundsManaged, SeverityWarning, OutcomeSuccess,
		ResourceTransfer, "", CategoryMoney, nil,
		"event", "funds_managed",
	)
}

// OnTaxesPerformed implements plugin.OnTaxesPerformed.
func (e *Extension) OnTaxesPerformed(ctx context.Context, economyID string, collected int64) error {
	return e.record(ctx, ActionTaxesPerformed, SeverityInfo, OutcomeSuccess,
		ResourceEconomy, economyID, CategoryTax, nil,
		"economy_id", economyID,
		"collected", collected,
	)
}

// ──────────────────────────────────────────────────
// Permission and tax bracket hooks
// ──────────────────────────────────────────────────

// OnPermissionsUpdated implements plugin.OnPermissionsUpdated.
func (e *Extension) OnPermissionsUpdated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionPermissionsUpdated, SeverityWarning, OutcomeSuccess,
		ResourcePermission, "", CategoryAccess, nil,
		"event", "permissions_updated",
	)
}

// OnTaxBracketsUpdated implements plugin.OnTaxBracketsUpdated.
func (e *Extension) OnTaxBracketsUpdated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionTaxBracketsUpdated, SeverityInfo, OutcomeSuccess,
		ResourceTaxBracket, "", CategoryTax, nil,
		"event", "tax_brackets_updated",
	)
}

// ──────────────────────────────────────────────────
// Recurring transfer hooks
// ──────────────────────────────────────────────────

// OnRecurringCreated implements plugin.OnRecurringCreated.
func (e *Extension) OnRecurringCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionRecurringCreated, SeverityInfo, OutcomeSuccess,
		ResourceRecurring, "", CategoryScheduling, nil,
		"event", "recurring_created",
	)
}

// OnRecurringCanceled implements plugin.OnRecurringCanceled.
func (e *Extension) OnRecurringCanceled(ctx context.Context, _ interface{}, reason string) error {
	severity := SeverityInfo
	if reason != "canceled" && reason != "exhausted" {
		severity = SeverityWarning
	}
	return e.record(ctx, ActionRecurringCanceled, severity, OutcomeSuccess,
		ResourceRecurring, "", CategoryScheduling, nil,
		"event", "recurring_canceled",
		"cancel_reason", reason,
	)
}

// OnTick implements plugin.OnTick.
func (e *Extension) OnTick(ctx context.Context, applied int, elapsed time.Duration) error {
	// Idle passes would swamp the trail.
	if applied == 0 {
		return nil
	}
	return e.record(ctx, ActionTickCompleted, SeverityInfo, OutcomeSuccess,
		ResourceScheduler, "", CategoryScheduling, nil,
		"applied", applied,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
