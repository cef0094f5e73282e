// Package principal defines the contracts Mint consumes from an external
// identity platform: principal resolution, group precedence, and
// notification delivery.
//
// The engine never resolves identities itself. It receives opaque
// Principal values and degrades to permission defaults when the directory
// cannot resolve one. Notification delivery is fire-and-forget: failures
// are logged by the engine and never affect ledger outcomes.
package principal

import (
	"context"
	"errors"
	"slices"
)

// ConsoleID is the distinguished principal that bypasses all permission
// checks. It is reserved for the hosting process itself (migrations,
// schedulers, bootstrap grants) and must never be handed to end users.
const ConsoleID int64 = 0

// ErrNotFound is returned by Directory implementations when a principal
// cannot be resolved within the requested scope. Callers substitute a
// stand-in principal so permission checks degrade to defaults.
var ErrNotFound = errors.New("principal: not found")

// Principal is an actor that can hold permissions: a user together with
// the groups it belongs to within one scope. Users and groups share a
// single snowflake ID space by construction of the upstream platform.
type Principal struct {
	ID     int64   `json:"id"`
	Groups []int64 `json:"groups,omitempty"`
}

// StandIn returns the fallback principal used when the directory cannot
// resolve an ID: the bare ID with no group memberships.
func StandIn(principalID int64) Principal {
	return Principal{ID: principalID}
}

// IsConsole reports whether this is the console principal.
func (p Principal) IsConsole() bool { return p.ID == ConsoleID }

// MemberOf reports whether the principal belongs to the given group.
func (p Principal) MemberOf(groupID int64) bool {
	return slices.Contains(p.Groups, groupID)
}

// Directory resolves principals from the external identity platform.
type Directory interface {
	// Resolve returns the principal with its group memberships within the
	// given scope group (e.g. a chat guild). Returns ErrNotFound when the
	// principal is unknown there.
	Resolve(ctx context.Context, principalID, scopeGroupID int64) (Principal, error)
}

// Ranker supplies the total precedence order of groups within a scope,
// used only for permission tie-breaks between two group-granted entries.
type Ranker interface {
	// Compare returns a negative value if group a has lower precedence
	// than b, zero if equal, positive if higher.
	Compare(ctx context.Context, scopeGroupID, a, b int64) int
}

// Notifier delivers notifications to principals. Implementations are
// best-effort; the engine swallows and logs any error.
type Notifier interface {
	Notify(ctx context.Context, principalID int64, title, message string) error
}

// ──────────────────────────────────────────────────
// Built-in implementations
// ──────────────────────────────────────────────────

// NopDirectory resolves nothing; every lookup degrades to a stand-in.
type NopDirectory struct{}

// Resolve implements Directory.
func (NopDirectory) Resolve(_ context.Context, _, _ int64) (Principal, error) {
	return Principal{}, ErrNotFound
}

// NopRanker treats all groups as equal precedence.
type NopRanker struct{}

// Compare implements Ranker.
func (NopRanker) Compare(_ context.Context, _, _, _ int64) int { return 0 }

// NopNotifier discards all notifications.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(_ context.Context, _ int64, _, _ string) error { return nil }

// StaticDirectory is a map-backed Directory and Ranker for tests and
// single-process embeddings. Group precedence follows slice position in
// Ranks: later entries outrank earlier ones.
type StaticDirectory struct {
	Members map[int64][]int64 // principal ID -> group IDs
	Ranks   []int64           // ascending precedence
}

// Resolve implements Directory.
func (d *StaticDirectory) Resolve(_ context.Context, principalID, _ int64) (Principal, error) {
	groups, ok := d.Members[principalID]
	if !ok {
		return Principal{}, ErrNotFound
	}
	return Principal{ID: principalID, Groups: groups}, nil
}

// Compare implements Ranker.
func (d *StaticDirectory) Compare(_ context.Context, _, a, b int64) int {
	return d.rank(a) - d.rank(b)
}

func (d *StaticDirectory) rank(groupID int64) int {
	for i, g := range d.Ranks {
		if g == groupID {
			return i
		}
	}
	return -1
}
