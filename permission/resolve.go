package permission

import (
	"github.com/xraph/mint/account"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/principal"
)

// Request is the scope of a permission question. Account may be nil.
// EconomyID should already be inferred from the account when the caller
// omitted it.
type Request struct {
	Kind      Kind
	Account   *account.Account
	EconomyID id.EconomyID
}

// RankFunc compares the precedence of two group IDs within the scope the
// request was made in: negative if a ranks below b, positive if above.
type RankFunc func(a, b int64) int

// Resolve decides whether the principal holds the requested permission,
// given every stored entry that could apply. It is deterministic and
// side-effect-free for a fixed entry set.
//
// The console principal is always allowed. With no applicable entry the
// built-in defaults answer. Otherwise the most specific entry wins:
// account scope beats economy scope beats global scope; among equally
// specific entries a direct grant beats a group grant, and between two
// group grants the higher-precedence group wins.
func Resolve(p principal.Principal, req Request, entries []*Entry, rank RankFunc) bool {
	if p.IsConsole() {
		return true
	}

	var best *Entry
	for _, e := range entries {
		if !applies(p, req, e) {
			continue
		}
		if best == nil || outranks(p, e, best, rank) {
			best = e
		}
	}

	if best != nil {
		return best.Allowed
	}

	if GlobalDefaults[req.Kind] {
		return true
	}
	if OwnerDefaults[req.Kind] && req.Account != nil && req.Account.OwnedBy(p.ID) {
		return true
	}
	return false
}

// applies reports whether an entry is a candidate for the request: the
// principal (directly or via a group) matches, the kind matches, and each
// scope field is either unset or equal to the requested scope.
func applies(p principal.Principal, req Request, e *Entry) bool {
	if e.Kind != req.Kind {
		return false
	}
	if e.PrincipalID != p.ID && !p.MemberOf(e.PrincipalID) {
		return false
	}
	if !e.AccountID.IsNil() {
		if req.Account == nil || e.AccountID != req.Account.ID {
			return false
		}
	}
	if !e.EconomyID.IsNil() && e.EconomyID != req.EconomyID {
		return false
	}
	return true
}

// outranks reports whether candidate a beats the current best b.
func outranks(p principal.Principal, a, b *Entry, rank RankFunc) bool {
	if sa, sb := a.Specificity(), b.Specificity(); sa != sb {
		return sa > sb
	}

	aDirect := a.PrincipalID == p.ID
	bDirect := b.PrincipalID == p.ID
	if aDirect != bDirect {
		return aDirect
	}

	if !aDirect && rank != nil {
		return rank(a.PrincipalID, b.PrincipalID) > 0
	}
	return false
}
