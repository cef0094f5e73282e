// Package observability provides a metrics extension for Mint that records
// lifecycle event counts via a MetricFactory.
package observability

import (
	"context"
	"time"

	"github.com/xraph/mint/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                 = (*MetricsExtension)(nil)
	_ plugin.OnInit                 = (*MetricsExtension)(nil)
	_ plugin.OnEconomyCreated       = (*MetricsExtension)(nil)
	_ plugin.OnEconomyDeleted       = (*MetricsExtension)(nil)
	_ plugin.OnGuildBound           = (*MetricsExtension)(nil)
	_ plugin.OnGuildUnbound         = (*MetricsExtension)(nil)
	_ plugin.OnAccountOpened        = (*MetricsExtension)(nil)
	_ plugin.OnAccountClosed        = (*MetricsExtension)(nil)
	_ plugin.OnOwnershipTransferred = (*MetricsExtension)(nil)
	_ plugin.OnTransferPerformed    = (*MetricsExtension)(nil)
	_ plugin.OnFundsManaged         = (*MetricsExtension)(nil)
	_ plugin.OnTaxesPerformed       = (*MetricsExtension)(nil)
	_ plugin.OnPermissionsUpdated   = (*MetricsExtension)(nil)
	_ plugin.OnTaxBracketsUpdated   = (*MetricsExtension)(nil)
	_ plugin.OnRecurringCreated     = (*MetricsExtension)(nil)
	_ plugin.OnRecurringCanceled    = (*MetricsExtension)(nil)
	_ plugin.OnTick                 = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Mint plugin to automatically track economy metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Economy metrics
	EconomyCreated Counter
	EconomyDeleted Counter
	GuildBound     Counter
	GuildUnbound   Counter

	// Account metrics
	AccountOpened        Counter
	AccountClosed        Counter
	OwnershipTransferred Counter

	// Money movement metrics
	TransfersPerformed Counter
	FundsManaged       Counter
	TaxPasses          Counter
	TaxCollected       Histogram

	// Permission metrics
	PermissionsUpdated Counter

	// Tax bracket metrics
	TaxBracketsUpdated Counter

	// Scheduler metrics
	RecurringCreated  Counter
	RecurringCanceled Counter
	TickPayments      Histogram
	TickLatency       Histogram

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Economy metrics
		EconomyCreated: factory.Counter("mint.economy.created"),
		EconomyDeleted: factory.Counter("mint.economy.deleted"),
		GuildBound:     factory.Counter("mint.guild.bound"),
		GuildUnbound:   factory.Counter("mint.guild.unbound"),

		// Account metrics
		AccountOpened:        factory.Counter("mint.account.opened"),
		AccountClosed:        factory.Counter("mint.account.closed"),
		OwnershipTransferred: factory.Counter("mint.account.ownership_transferred"),

		// Money movement metrics
		TransfersPerformed: factory.Counter("mint.transfer.performed"),
		FundsManaged:       factory.Counter("mint.funds.managed"),
		TaxPasses:          factory.Counter("mint.taxes.passes"),
		TaxCollected:       factory.Histogram("mint.taxes.collected"),

		// Permission metrics
		PermissionsUpdated: factory.Counter("mint.permissions.updated"),

		// Tax bracket metrics
		TaxBracketsUpdated: factory.Counter("mint.tax_brackets.updated"),

		// Scheduler metrics
		RecurringCreated:  factory.Counter("mint.recurring.created"),
		RecurringCanceled: factory.Counter("mint.recurring.canceled"),
		TickPayments:      factory.Histogram("mint.tick.payments"),
		TickLatency:       factory.Histogram("mint.tick.latency_ms"),

		// Error metrics
		StoreErrors:  factory.Counter("mint.store.errors"),
		PluginErrors: factory.Counter("mint.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Economy lifecycle hooks
// ──────────────────────────────────────────────────

// OnEconomyCreated implements plugin.OnEconomyCreated.
func (m *MetricsExtension) OnEconomyCreated(_ context.Context, _ interface{}) error {
	m.EconomyCreated.Inc()
	return nil
}

// OnEconomyDeleted implements plugin.OnEconomyDeleted.
func (m *MetricsExtension) OnEconomyDeleted(_ context.Context, _ string) error {
	m.EconomyDeleted.Inc()
	return nil
}

// OnGuildBound implements plugin.OnGuildBound.
func (m *MetricsExtension) OnGuildBound(_ context.Context, _ int64, _ string) error {
	m.GuildBound.Inc()
	return nil
}

// OnGuildUnbound implements plugin.OnGuildUnbound.
func (m *MetricsExtension) OnGuildUnbound(_ context.Context, _ int64, _ string) error {
	m.GuildUnbound.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Account lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccountOpened implements plugin.OnAccountOpened.
func (m *MetricsExtension) OnAccountOpened(_ context.Context, _ interface{}) error {
	m.AccountOpened.Inc()
	return nil
}

// OnAccountClosed implements plugin.OnAccountClosed.
func (m *MetricsExtension) OnAccountClosed(_ context.Context, _ interface{}) error {
	m.AccountClosed.Inc()
	return nil
}

// OnOwnershipTransferred implements plugin.OnOwnershipTransferred.
func (m *MetricsExtension) OnOwnershipTransferred(_ context.Context, _ interface{}, _ int64) error {
	m.OwnershipTransferred.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Money movement hooks
// ──────────────────────────────────────────────────

// OnTransferPerformed implements plugin.OnTransferPerformed.
func (m *MetricsExtension) OnTransferPerformed(_ context.Context, _ interface{}) error {
	m.TransfersPerformed.Inc()
	return nil
}

// OnFundsManaged implements plugin.OnFundsManaged.
func (m *MetricsExtension) OnFundsManaged(_ context.Context, _ interface{}) error {
	m.FundsManaged.Inc()
	return nil
}

// OnTaxesPerformed implements plugin.OnTaxesPerformed.
func (m *MetricsExtension) OnTaxesPerformed(_ context.Context, _ string, collected int64) error {
	m.TaxPasses.Inc()
	m.TaxCollected.Observe(float64(collected))
	return nil
}

// ──────────────────────────────────────────────────
// Permission and tax bracket hooks
// ──────────────────────────────────────────────────

// OnPermissionsUpdated implements plugin.OnPermissionsUpdated.
func (m *MetricsExtension) OnPermissionsUpdated(_ context.Context, _ interface{}) error {
	m.PermissionsUpdated.Inc()
	return nil
}

// OnTaxBracketsUpdated implements plugin.OnTaxBracketsUpdated.
func (m *MetricsExtension) OnTaxBracketsUpdated(_ context.Context, _ interface{}) error {
	m.TaxBracketsUpdated.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Scheduler hooks
// ──────────────────────────────────────────────────

// OnRecurringCreated implements plugin.OnRecurringCreated.
func (m *MetricsExtension) OnRecurringCreated(_ context.Context, _ interface{}) error {
	m.RecurringCreated.Inc()
	return nil
}

// OnRecurringCanceled implements plugin.OnRecurringCanceled.
func (m *MetricsExtension) OnRecurringCanceled(_ context.Context, _ interface{}, _ string) error {
	m.RecurringCanceled.Inc()
	return nil
}

// OnTick implements plugin.OnTick.
func (m *MetricsExtension) OnTick(_ context.Context, applied int, elapsed time.Duration) error {
	m.TickPayments.Observe(float64(applied))
	m.TickLatency.Observe(float64(elapsed.Milliseconds()))
	return nil
}
