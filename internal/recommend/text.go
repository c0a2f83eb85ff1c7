// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package recommend

import (
	"strings"
	"unicode"
)

// MinTokenLength is the exclusive lower bound on token length: only words
// longer than this take part in phrase matching.
const MinTokenLength = 3

// dimensionDomains maps normalized dimension labels to domains.
var dimensionDomains = map[string]Domain{
	"design":             DomainDesign,
	"design_language":    DomainDesign,
	"aesthetic":          DomainDesign,
	"architecture":       DomainDesign,
	"character":          DomainCharacter,
	"character_identity": DomainCharacter,
	"identity":           DomainCharacter,
	"atmosphere":         DomainCharacter,
	"service":            DomainService,
	"service_philosophy": DomainService,
	"hospitality":        DomainService,
	"food":               DomainFood,
	"food_drink":         DomainFood,
	"cuisine":            DomainFood,
	"dining":             DomainFood,
	"location":           DomainLocation,
	"location_context":   DomainLocation,
	"setting":            DomainLocation,
	"neighborhood":       DomainLocation,
	"wellness":           DomainWellness,
	"wellness_body":      DomainWellness,
	"spa":                DomainWellness,
}

// DomainForDimension maps an upstream dimension label such as "Food & Drink"
// or "design_language" to its domain.
func DomainForDimension(dimension string) (Domain, bool) {
	d, ok := dimensionDomains[normalizeDimension(dimension)]
	return d, ok
}

// normalizeDimension lowercases the label and joins its words with underscores,
// dropping punctuation such as "&".
func normalizeDimension(dimension string) string {
	words := strings.FieldsFunc(strings.ToLower(dimension), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, "_")
}

// Tokenize lowercases text and returns its words longer than MinTokenLength
// characters, in order. Duplicates are kept.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	tokens := words[:0]
	for _, w := range words {
		if len([]rune(w)) > MinTokenLength {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// TokenSet returns the distinct tokens of all phrases.
func TokenSet(phrases ...string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, p := range phrases {
		for _, tok := range Tokenize(p) {
			set[tok] = struct{}{}
		}
	}
	return set
}
