package datastore

import "github.com/openconfig/goyang/pkg/yang"

// derivesFrom reports whether candidate is base itself or is (directly
// or transitively) derived from it. goyang resolves identity
// derivation at schema-load time into Identity.Values, the list of
// identities declared to derive directly from base; this walks that
// already-built tree rather than re-deriving anything from the raw
// "base" statement.
func derivesFrom(candidate, base *yang.Identity) bool {
	if candidate == base {
		return true
	}
	for _, child := range base.Values {
		if derivesFrom(candidate, child) {
			return true
		}
	}
	return false
}
