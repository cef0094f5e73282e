// Package mint provides an embeddable multi-tenant virtual-currency
// ledger for Go applications.
//
// Mint is designed as a library, not a service. Import it directly into
// your Go application (a chat bot, a game server, an API backend) for
// maximum flexibility. It provides:
//
//   - Isolated economies, each with its own currency, accounts and taxes
//   - Fine-grained grant/deny permissions with most-specific-wins resolution
//   - Integer minor-unit accounting with an append-only audit trail
//   - Tiered WEALTH/INCOME/VAT taxation with floor-division arithmetic
//   - A recurring-transfer scheduler that replays missed periods exactly
//   - Pluggable lifecycle hooks and audit mirroring
//
// # Quick Start
//
// Create a mint instance with your preferred store:
//
//	import (
//	    "github.com/xraph/mint"
//	    "github.com/xraph/mint/store/sqlite"
//	)
//
//	// Initialize store (db is a *grove.DB opened with the sqlite driver)
//	store := sqlite.New(db)
//
//	// Create the engine
//	m := mint.New(store, mint.WithTickInterval(24*time.Hour))
//
//	// Start it (runs migrations, begins the scheduler)
//	if err := m.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Stop()
//
// # Core Concepts
//
// Economies are isolated currency spaces owned by an external guild:
//
//	econ, err := m.CreateEconomy(ctx, actor, "tau", "τ", guildID)
//
// Accounts hold balances within one economy:
//
//	acct, err := m.OpenAccount(ctx, actor, &actor, econ.ID, "", account.KindUser)
//
// Transfers move funds atomically, with permission checks and audit:
//
//	err := m.PerformTransaction(ctx, actor, from.ID, to.ID, 100, transfer.KindPersonal)
//
// Every operation is gated by the permission resolver: stored grant/deny
// entries scoped to an account, an economy, or globally, with the most
// specific entry winning, falling back to sensible defaults (anyone may
// open their own account; owners may act on their own accounts).
//
// # Arithmetic
//
// All monetary amounts are integers in the economy's minor unit. Tax
// computations use floor division throughout: fractional remainders are
// lost to the payer's benefit, never rounded up.
//
// # External Collaborators
//
// Identity resolution, group precedence and notification delivery are
// injected via the principal package interfaces. The engine degrades
// gracefully when they are absent: unknown principals fall back to
// permission defaults, and failed notifications are logged, never
// affecting ledger outcomes.
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	econ_01h2xcejqtf2nbrexx3vqjhp41  // Economy ID
//	acct_01h2xcejqtf2nbrexx3vqjhp41  // Account ID
//	txn_01h455vb4pex5vsknk084sn02q   // Transaction ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package mint
