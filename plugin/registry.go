package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                 []OnInit
	onShutdown             []OnShutdown
	onEconomyCreated       []OnEconomyCreated
	onEconomyDeleted       []OnEconomyDeleted
	onGuildBound           []OnGuildBound
	onGuildUnbound         []OnGuildUnbound
	onAccountOpened        []OnAccountOpened
	onAccountClosed        []OnAccountClosed
	onOwnershipTransferred []OnOwnershipTransferred
	onTransferPerformed    []OnTransferPerformed
	onFundsManaged         []OnFundsManaged
	onTaxesPerformed       []OnTaxesPerformed
	onPermissionsUpdated   []OnPermissionsUpdated
	onTaxBracketsUpdated   []OnTaxBracketsUpdated
	onRecurringCreated     []OnRecurringCreated
	onRecurringCanceled    []OnRecurringCanceled
	onTick                 []OnTick
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnEconomyCreated); ok {
		r.onEconomyCreated = append(r.onEconomyCreated, v)
	}
	if v, ok := p.(OnEconomyDeleted); ok {
		r.onEconomyDeleted = append(r.onEconomyDeleted, v)
	}
	if v, ok := p.(OnGuildBound); ok {
		r.onGuildBound = append(r.onGuildBound, v)
	}
	if v, ok := p.(OnGuildUnbound); ok {
		r.onGuildUnbound = append(r.onGuildUnbound, v)
	}
	if v, ok := p.(OnAccountOpened); ok {
		r.onAccountOpened = append(r.onAccountOpened, v)
	}
	if v, ok := p.(OnAccountClosed); ok {
		r.onAccountClosed = append(r.onAccountClosed, v)
	}
	if v, ok := p.(OnOwnershipTransferred); ok {
		r.onOwnershipTransferred = append(r.onOwnershipTransferred, v)
	}
	if v, ok := p.(OnTransferPerformed); ok {
		r.onTransferPerformed = append(r.onTransferPerformed, v)
	}
	if v, ok := p.(OnFundsManaged); ok {
		r.onFundsManaged = append(r.onFundsManaged, v)
	}
	if v, ok := p.(OnTaxesPerformed); ok {
		r.onTaxesPerformed = append(r.onTaxesPerformed, v)
	}
	if v, ok := p.(OnPermissionsUpdated); ok {
		r.onPermissionsUpdated = append(r.onPermissionsUpdated, v)
	}
	if v, ok := p.(OnTaxBracketsUpdated); ok {
		r.onTaxBracketsUpdated = append(r.onTaxBracketsUpdated, v)
	}
	if v, ok := p.(OnRecurringCreated); ok {
		r.onRecurringCreated = append(r.onRecurringCreated, v)
	}
	if v, ok := p.(OnRecurringCanceled); ok {
		r.onRecurringCanceled = append(r.onRecurringCanceled, v)
	}
	if v, ok := p.(OnTick); ok {
		r.onTick = append(r.onTick, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnEconomyCreated)(nil)).Elem(), "OnEconomyCreated")
	checkInterface(reflect.TypeOf((*OnAccountOpened)(nil)).Elem(), "OnAccountOpened")
	checkInterface(reflect.TypeOf((*OnTransferPerformed)(nil)).Elem(), "OnTransferPerformed")
	checkInterface(reflect.TypeOf((*OnFundsManaged)(nil)).Elem(), "OnFundsManaged")
	checkInterface(reflect.TypeOf((*OnTaxesPerformed)(nil)).Elem(), "OnTaxesPerformed")
	checkInterface(reflect.TypeOf((*OnPermissionsUpdated)(nil)).Elem(), "OnPermissionsUpdated")
	checkInterface(reflect.TypeOf((*OnRecurringCreated)(nil)).Elem(), "OnRecurringCreated")
	checkInterface(reflect.TypeOf((*OnTick)(nil)).Elem(), "OnTick")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// Event emission methods

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, m interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, m)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitEconomyCreated emits an economy created event.
func (r *Registry) EmitEconomyCreated(ctx context.Context, econ interface{}) {
	r.mu.RLock()
	plugins := r.onEconomyCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEconomyCreated(ctx, econ)
		}); err != nil {
			r.logger.Warn("plugin OnEconomyCreated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitEconomyDeleted emits an economy deleted event.
func (r *Registry) EmitEconomyDeleted(ctx context.Context, economyID string) {
	r.mu.RLock()
	plugins := r.onEconomyDeleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEconomyDeleted(ctx, economyID)
		}); err != nil {
			r.logger.Warn("plugin OnEconomyDeleted failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitGuildBound emits a guild bound event.
func (r *Registry) EmitGuildBound(ctx context.Context, guildID int64, economyID string) {
	r.mu.RLock()
	plugins := r.onGuildBound
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnGuildBound(ctx, guildID, economyID)
		}); err != nil {
			r.logger.Warn("plugin OnGuildBound failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitGuildUnbound emits a guild unbound event.
func (r *Registry) EmitGuildUnbound(ctx context.Context, guildID int64, economyID string) {
	r.mu.RLock()
	plugins := r.onGuildUnbound
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnGuildUnbound(ctx, guildID, economyID)
		}); err != nil {
			r.logger.Warn("plugin OnGuildUnbound failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitAccountOpened emits an account opened event.
func (r *Registry) EmitAccountOpened(ctx context.Context, acct interface{}) {
	r.mu.RLock()
	plugins := r.onAccountOpened
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAccountOpened(ctx, acct)
		}); err != nil {
			r.logger.Warn("plugin OnAccountOpened failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitAccountClosed emits an account closed event.
func (r *Registry) EmitAccountClosed(ctx context.Context, acct interface{}) {
	r.mu.RLock()
	plugins := r.onAccountClosed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAccountClosed(ctx, acct)
		}); err != nil {
			r.logger.Warn("plugin OnAccountClosed failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitOwnershipTransferred emits an ownership transferred event.
func (r *Registry) EmitOwnershipTransferred(ctx context.Context, acct interface{}, previousOwner int64) {
	r.mu.RLock()
	plugins := r.onOwnershipTransferred
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOwnershipTransferred(ctx, acct, previousOwner)
		}); err != nil {
			r.logger.Warn("plugin OnOwnershipTransferred failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitTransferPerformed emits a transfer performed event.
func (r *Registry) EmitTransferPerformed(ctx context.Context, record interface{}) {
	r.mu.RLock()
	plugins := r.onTransferPerformed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTransferPerformed(ctx, record)
		}); err != nil {
			r.logger.Warn("plugin OnTransferPerformed failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitFundsManaged emits a funds managed event.
func (r *Registry) EmitFundsManaged(ctx context.Context, record interface{}) {
	r.mu.RLock()
	plugins := r.onFundsManaged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnFundsManaged(ctx, record)
		}); err != nil {
			r.logger.Warn("plugin OnFundsManaged failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitTaxesPerformed emits a taxes performed event.
func (r *Registry) EmitTaxesPerformed(ctx context.Context, economyID string, collected int64) {
	r.mu.RLock()
	plugins := r.onTaxesPerformed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTaxesPerformed(ctx, economyID, collected)
		}); err != nil {
			r.logger.Warn("plugin OnTaxesPerformed failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitPermissionsUpdated emits a permissions updated event.
func (r *Registry) EmitPermissionsUpdated(ctx context.Context, entry interface{}) {
	r.mu.RLock()
	plugins := r.onPermissionsUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPermissionsUpdated(ctx, entry)
		}); err != nil {
			r.logger.Warn("plugin OnPermissionsUpdated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitTaxBracketsUpdated emits a tax brackets updated event.
func (r *Registry) EmitTaxBracketsUpdated(ctx context.Context, bracket interface{}) {
	r.mu.RLock()
	plugins := r.onTaxBracketsUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTaxBracketsUpdated(ctx, bracket)
		}); err != nil {
			r.logger.Warn("plugin OnTaxBracketsUpdated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitRecurringCreated emits a recurring transfer created event.
func (r *Registry) EmitRecurringCreated(ctx context.Context, t interface{}) {
	r.mu.RLock()
	plugins := r.onRecurringCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRecurringCreated(ctx, t)
		}); err != nil {
			r.logger.Warn("plugin OnRecurringCreated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitRecurringCanceled emits a recurring transfer canceled event.
func (r *Registry) EmitRecurringCanceled(ctx context.Context, t interface{}, reason string) {
	r.mu.RLock()
	plugins := r.onRecurringCanceled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRecurringCanceled(ctx, t, reason)
		}); err != nil {
			r.logger.Warn("plugin OnRecurringCanceled failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitTick emits a scheduler tick event.
func (r *Registry) EmitTick(ctx context.Context, applied int, elapsed time.Duration) {
	r.mu.RLock()
	plugins := r.onTick
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTick(ctx, applied, elapsed)
		}); err != nil {
			r.logger.Warn("plugin OnTick failed", "plugin", p.Name(), "error", err)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the ledger pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
