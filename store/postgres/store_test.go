package postgres

import (
	"strings"
	"testing"

	"github.com/xraph/grove/drivers/pgdriver"
)

// The driver sends select where clauses to the server exactly as
// written, so every read in this package must carry positional $N
// markers. A ? in a select reaches PostgreSQL as a syntax error.
func TestSelectPlaceholders(t *testing.T) {
	db := pgdriver.New()

	t.Run("QuestionMarkSurvivesVerbatim", func(t *testing.T) {
		query, args, _ := db.NewSelect((*economyModel)(nil)).
			Where("id = ?", "econ_x").
			Build()
		if !strings.Contains(query, "?") {
			t.Fatalf("expected the ? to pass through unrewritten: %s", query)
		}
		if len(args) != 1 {
			t.Fatalf("args = %v, want one", args)
		}
	})

	t.Run("PositionalMarkersReachTheServer", func(t *testing.T) {
		query, args, _ := db.NewSelect((*economyModel)(nil)).
			Where("id = $1", "econ_x").
			Build()
		if strings.Contains(query, "?") {
			t.Fatalf("unexpected ? in query: %s", query)
		}
		if !strings.Contains(query, "$1") {
			t.Fatalf("expected $1 in query: %s", query)
		}
		if len(args) != 1 {
			t.Fatalf("args = %v, want one", args)
		}
	})

	t.Run("ChainedWheresNumberSequentially", func(t *testing.T) {
		query, args, _ := db.NewSelect((*accountModel)(nil)).
			Where("economy_id = $1", "econ_x").
			Where("name = $2", "treasury").
			Build()
		if !strings.Contains(query, "$1") || !strings.Contains(query, "$2") {
			t.Fatalf("expected $1 and $2 in query: %s", query)
		}
		if len(args) != 2 {
			t.Fatalf("args = %v, want two", args)
		}
	})
}
