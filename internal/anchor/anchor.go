// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package anchor extracts entity anchors from normalized supplier names.
//
// An anchor is a token (or an adjacent token pair) that identifies the
// entity behind a name rather than its legal form, activity, location or
// marketing vocabulary. Words are rejected against four closed lists and
// a minimum length; survivors are classified as PERSON or BRAND.
//
// Extraction may legitimately return nothing. Callers must treat an empty
// result as "no anchor evidence" and never fall back to a guess.
package anchor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/supplier-resolver/pkg/types"
)

// Class is the classification of a single word.
type Class string

const (
	ClassPerson     Class = "PERSON"
	ClassBrand      Class = "BRAND"
	ClassDescriptor Class = "DESCRIPTOR"
	ClassGeneric    Class = "GENERIC"
)

// Rejection names the list that rejected a word.
type Rejection string

const (
	RejectNone       Rejection = ""
	RejectStructural Rejection = "structural"
	RejectActivity   Rejection = "activity"
	RejectDescriptor Rejection = "descriptor"
	RejectGeography  Rejection = "geography"
	RejectLength     Rejection = "length"
)

// Token is one classified word of an input.
type Token struct {
	Word      string    `json:"word"`
	Class     Class     `json:"class"`
	Rejection Rejection `json:"rejection,omitempty"`
}

// Extractor extracts anchors from normalized text.
type Extractor struct {
	minLength int
}

// NewExtractor returns an Extractor using cfg.MinLength (default 4).
func NewExtractor(cfg types.AnchorConfig) *Extractor {
	minLength := cfg.MinLength
	if minLength <= 0 {
		minLength = 4
	}
	return &Extractor{minLength: minLength}
}

// Extract returns the de-duplicated single-word and compound anchors of
// text in order of first appearance.
func (e *Extractor) Extract(text string) []string {
	words := strings.Fields(text)
	tokens := make([]Token, len(words))
	for i, w := range words {
		tokens[i] = e.Classify(w)
	}

	seen := make(map[string]struct{})
	var anchors []string
	add := func(a string) {
		if _, ok := seen[a]; ok {
			return
		}
		seen[a] = struct{}{}
		anchors = append(anchors, a)
	}

	for i, tok := range tokens {
		// The word after a name prefix only identifies anyone together
		// with the prefix: "الله" alone matches every Abdullah.
		prefixTail := i > 0 && namePrefixes.has(tokens[i-1].Word) && e.compoundAllowed(tokens[i-1], tok)
		if tok.isAnchor() && !prefixTail {
			add(tok.Word)
		}
		if i+1 < len(tokens) && e.compoundAllowed(tok, tokens[i+1]) {
			add(tok.Word + " " + tokens[i+1].Word)
		}
	}
	return anchors
}

// Analyze classifies every word of text.
func (e *Extractor) Analyze(text string) []Token {
	words := strings.Fields(text)
	tokens := make([]Token, len(words))
	for i, w := range words {
		tokens[i] = e.Classify(w)
	}
	return tokens
}

// Classify classifies a single normalized word.
func (e *Extractor) Classify(word string) Token {
	tok := Token{Word: word}

	if r := listRejection(word); r != RejectNone {
		tok.Rejection = r
		tok.Class = ClassGeneric
		if r == RejectDescriptor {
			tok.Class = ClassDescriptor
		}
		return tok
	}

	if isPersonName(word) {
		tok.Class = ClassPerson
		if utf8.RuneCountInString(word) < e.minLength {
			tok.Rejection = RejectLength
		}
		return tok
	}

	if utf8.RuneCountInString(word) < e.minLength || !hasLetter(word) {
		tok.Class = ClassGeneric
		tok.Rejection = RejectLength
		return tok
	}

	tok.Class = ClassBrand
	return tok
}

func (t Token) isAnchor() bool {
	return t.Rejection == RejectNone && (t.Class == ClassPerson || t.Class == ClassBrand)
}

// compoundAllowed reports whether two adjacent tokens form a compound
// anchor. List rejections always disqualify. Otherwise the pair qualifies
// when both are anchors in their own right, when both are person names
// (short ones such as "علي حسن" included), or when a name prefix opens it.
func (e *Extractor) compoundAllowed(a, b Token) bool {
	if isListRejection(a.Rejection) || isListRejection(b.Rejection) {
		return false
	}
	switch {
	case a.isAnchor() && b.isAnchor():
		return true
	case a.Class == ClassPerson && b.Class == ClassPerson:
		return true
	default:
		return namePrefixes.has(a.Word) && hasLetter(b.Word)
	}
}

func isListRejection(r Rejection) bool {
	return r != RejectNone && r != RejectLength
}

// listRejection returns the first list containing word, also trying the
// word with a leading article stripped.
func listRejection(word string) Rejection {
	for _, w := range articleForms(word) {
		switch {
		case structural.has(w):
			return RejectStructural
		case activity.has(w):
			return RejectActivity
		case descriptors.has(w):
			return RejectDescriptor
		case geography.has(w):
			return RejectGeography
		}
	}
	return RejectNone
}

func articleForms(word string) []string {
	forms := []string{word}
	for _, p := range articles {
		rest, ok := strings.CutPrefix(word, p)
		if ok && utf8.RuneCountInString(rest) >= 2 {
			forms = append(forms, rest)
		}
	}
	return forms
}

func isPersonName(word string) bool {
	if knownNames.has(word) {
		return true
	}
	for _, stem := range nameStems {
		if strings.HasPrefix(word, stem) && utf8.RuneCountInString(word) > utf8.RuneCountInString(stem) {
			return true
		}
	}
	return false
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
