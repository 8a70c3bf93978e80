// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feeder

import (
	"strings"

	"github.com/pdiddy/supplier-resolver/internal/anchor"
)

// distinctiveTokens returns the whitespace tokens of s that are not
// generic business vocabulary (legal forms, activities, descriptors,
// nationalities).
func distinctiveTokens(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		if anchor.IsGeneric(tok) {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}

// sharesDistinctiveKeyword reports whether two names may be fuzzy-matched.
// When both names contain at least one non-generic word, they must share
// one. When either side is entirely generic the guard does not apply.
func sharesDistinctiveKeyword(a, b string) bool {
	da, db := distinctiveTokens(a), distinctiveTokens(b)
	if len(da) == 0 || len(db) == 0 {
		return true
	}
	for tok := range da {
		if _, ok := db[tok]; ok {
			return true
		}
	}
	return false
}
