package mint

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/mint/account"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/permission"
	"github.com/xraph/mint/plugin"
	"github.com/xraph/mint/principal"
	"github.com/xraph/mint/store"
	"github.com/xraph/mint/transaction"
)

// Mint is the main economy engine.
type Mint struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// External collaborators
	directory principal.Directory
	ranker    principal.Ranker
	notifier  principal.Notifier

	clock func() time.Time

	// Background scheduler
	tickInterval time.Duration
	stopChan     chan struct{}
	wg           sync.WaitGroup

	// mu serializes every mutating operation. Single-writer
	// serializability also guarantees ticks never run concurrently.
	mu sync.Mutex
}

// New creates a new Mint instance.
func New(s store.Store, opts ...Option) *Mint {
	m := &Mint{
		store:     s,
		plugins:   plugin.NewRegistry(),
		logger:    slog.Default(),
		directory: principal.NopDirectory{},
		ranker:    principal.NopRanker{},
		notifier:  principal.NopNotifier{},
		clock:     time.Now,
		stopChan:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Option configures a Mint instance.
type Option func(*Mint)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mint) {
		m.logger = logger
		m.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(m *Mint) {
		_ = m.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithDirectory sets the principal directory.
func WithDirectory(d principal.Directory) Option {
	return func(m *Mint) {
		m.directory = d
	}
}

// WithRanker sets the group precedence comparator.
func WithRanker(r principal.Ranker) Option {
	return func(m *Mint) {
		m.ranker = r
	}
}

// WithNotifier sets the notification sink.
func WithNotifier(n principal.Notifier) Option {
	return func(m *Mint) {
		m.notifier = n
	}
}

// WithClock overrides the time source. Used by tests and embedders that
// drive the scheduler deterministically.
func WithClock(clock func() time.Time) Option {
	return func(m *Mint) {
		m.clock = clock
	}
}

// WithTickInterval enables the built-in recurring transfer scheduler,
// running a tick pass at the given interval. Zero disables it; embedders
// may instead call Tick from their own scheduler.
func WithTickInterval(interval time.Duration) Option {
	return func(m *Mint) {
		m.tickInterval = interval
	}
}

// Start migrates the store and begins background workers.
func (m *Mint) Start(ctx context.Context) error {
	if err := m.store.Migrate(ctx); err != nil {
		return err
	}

	m.plugins.EmitInit(ctx, m)

	if m.tickInterval > 0 {
		m.wg.Add(1)
		go m.tickWorker(ctx)
	}

	m.logger.Info("mint started",
		"tick_interval", m.tickInterval,
		"plugins", m.plugins.Count(),
	)

	return nil
}

// Stop shuts down the engine.
func (m *Mint) Stop() error {
	close(m.stopChan)
	m.wg.Wait()

	ctx := context.Background()
	m.plugins.EmitShutdown(ctx)

	return m.store.Close()
}

// Plugins returns the plugin registry.
func (m *Mint) Plugins() *plugin.Registry {
	return m.plugins
}

// tickWorker drives the recurring transfer scheduler.
func (m *Mint) tickWorker(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			if err := m.Tick(ctx); err != nil {
				m.logger.Error("tick pass failed", "error", err)
			}
		}
	}
}

func (m *Mint) now() time.Time {
	return m.clock()
}

// resolvePrincipal looks the actor up in the directory, degrading to a
// stand-in with no group memberships when the directory cannot resolve
// it. Permission checks then fall through to defaults.
func (m *Mint) resolvePrincipal(ctx context.Context, principalID, scopeGuildID int64) principal.Principal {
	if principalID == principal.ConsoleID {
		return principal.Principal{ID: principal.ConsoleID}
	}
	p, err := m.directory.Resolve(ctx, principalID, scopeGuildID)
	if err != nil {
		if !errors.Is(err, principal.ErrNotFound) {
			m.logger.Warn("directory lookup failed", "principal", principalID, "error", err)
		}
		return principal.StandIn(principalID)
	}
	return p
}

// authorize answers whether the actor may perform the given action on
// the given scope, returning ErrPermissionDenied when it may not. The
// economy is inferred from the account when omitted.
func (m *Mint) authorize(ctx context.Context, actorID int64, kind permission.Kind, acct *account.Account, economyID id.EconomyID) error {
	if actorID == principal.ConsoleID {
		return nil
	}
	if acct != nil && economyID.IsNil() {
		economyID = acct.EconomyID
	}

	// The economy's owner guild is the scope groups are ranked within.
	var scopeGuildID int64
	if !economyID.IsNil() {
		if econ, err := m.store.GetEconomy(ctx, economyID); err == nil {
			scopeGuildID = econ.OwnerGuildID
		}
	}

	p := m.resolvePrincipal(ctx, actorID, scopeGuildID)
	principalIDs := append([]int64{p.ID}, p.Groups...)
	entries, err := m.store.ListPermissionsFor(ctx, principalIDs, kind)
	if err != nil {
		return err
	}

	req := permission.Request{Kind: kind, Account: acct, EconomyID: economyID}
	rank := func(a, b int64) int {
		return m.ranker.Compare(ctx, scopeGuildID, a, b)
	}
	if !permission.Resolve(p, req, entries, rank) {
		return ErrPermissionDenied
	}
	return nil
}

// newRecord builds an audit row stamped with the engine clock.
func (m *Mint) newRecord(actorID int64, action transaction.Action, change transaction.Change, economyID id.EconomyID) *transaction.Transaction {
	return &transaction.Transaction{
		ID:        id.NewTransactionID(),
		ActorID:   actorID,
		Timestamp: m.now(),
		Action:    action,
		Change:    change,
		EconomyID: economyID,
	}
}

// notify delivers one best-effort notification. Failures are logged and
// never affect ledger outcomes.
func (m *Mint) notify(ctx context.Context, principalID int64, title, message string) {
	if principalID == principal.ConsoleID {
		return
	}
	if err := m.notifier.Notify(ctx, principalID, title, message); err != nil {
		m.logger.Warn("notification delivery failed",
			"principal", principalID,
			"title", title,
			"error", err,
		)
	}
}

// notifySubscribers fans a balance-change message out to an account's
// subscribers, best-effort.
func (m *Mint) notifySubscribers(ctx context.Context, accountID id.AccountID, title, message string) {
	subscribers, err := m.store.ListSubscribers(ctx, accountID)
	if err != nil {
		m.logger.Warn("subscriber lookup failed", "account", accountID, "error", err)
		return
	}
	for _, principalID := range subscribers {
		m.notify(ctx, principalID, title, message)
	}
}
