// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes free-text supplier names so that equal
// names written with different Arabic letter variants, diacritics, case,
// or punctuation compare equal.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Func adapts a plain function to the Normalizer interface used by the
// resolver and the store.
type Func func(string) string

// Normalize calls f(s).
func (f Func) Normalize(s string) string { return f(s) }

// Default is the normalizer used when none is configured.
var Default = Func(Name)

var letterFolds = map[rune]rune{
	'أ': 'ا',
	'إ': 'ا',
	'آ': 'ا',
	'ٱ': 'ا',
	'ى': 'ي',
	'ئ': 'ي',
	'ؤ': 'و',
	'ة': 'ه',
}

// Name returns the canonical form of a supplier name. It is idempotent.
func Name(s string) string {
	s = norm.NFKC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case isArabicMark(r), r == 'ـ':
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if f, ok := letterFolds[r]; ok {
				r = f
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			// Punctuation, symbols and whitespace all separate words.
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// isArabicMark reports harakat, tanween, shadda, sukun and the superscript alef.
func isArabicMark(r rune) bool {
	return (r >= 0x064B && r <= 0x0652) || r == 0x0670
}
