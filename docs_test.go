package mint_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/mint"
	"github.com/xraph/mint/account"
	"github.com/xraph/mint/principal"
	"github.com/xraph/mint/store/memory"
	"github.com/xraph/mint/transfer"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from the package docs
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use sqlite or postgres in production)
		store := memory.New()

		// Initialize the engine
		m := mint.New(store,
			mint.WithLogger(slog.Default()),
			mint.WithTickInterval(24*time.Hour),
		)

		// Start the engine
		ctx := context.Background()
		if err := m.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer m.Stop()

		// Create an economy owned by a guild
		econ, err := m.CreateEconomy(ctx, principal.ConsoleID, "tau", "τ", 500)
		if err != nil {
			t.Fatal(err)
		}

		// Open accounts for two users
		var alice, bob int64 = 11, 12
		from, err := m.OpenAccount(ctx, alice, &alice, econ.ID, "", account.KindUser)
		if err != nil {
			t.Fatal(err)
		}
		to, err := m.OpenAccount(ctx, bob, &bob, econ.ID, "", account.KindUser)
		if err != nil {
			t.Fatal(err)
		}

		// Fund the source and transfer
		if err := m.PrintMoney(ctx, principal.ConsoleID, from.ID, 1000); err != nil {
			t.Fatal(err)
		}
		if err := m.PerformTransaction(ctx, alice, from.ID, to.ID, 100, transfer.KindPersonal); err != nil {
			t.Fatal(err)
		}

		// Owners may read their own balance
		bal, err := m.Balance(ctx, bob, to.ID)
		if err != nil {
			t.Fatal(err)
		}
		if bal.Amount != 100 || bal.Unit != "τ" {
			t.Fatalf("balance = %d %s, want 100 τ", bal.Amount, bal.Unit)
		}
	})
}
