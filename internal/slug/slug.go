// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is returned when nothing usable survives slugification.
const Fallback = "n-a"

var (
	// nonLetterOrDigit matches runs of anything that isn't a unicode letter or digit.
	nonLetterOrDigit = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	// nonWord matches anything left that isn't ASCII word characters or hyphen.
	nonWord = regexp.MustCompile(`[^-\w]+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)

	// ligatures covers letters that have no canonical decomposition.
	ligatures = strings.NewReplacer(
		"ß", "ss", "ẞ", "SS",
		"æ", "ae", "Æ", "AE",
		"œ", "oe", "Œ", "OE",
		"ø", "o", "Ø", "O",
		"đ", "d", "Đ", "D",
		"ð", "d", "Ð", "D",
		"ł", "l", "Ł", "L",
		"þ", "th", "Þ", "TH",
		"ı", "i",
	)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World!" → "hello-world", "Crème Brûlée" → "creme-brulee".
// Generate never fails; input with no usable characters yields Fallback.
func Generate(s string) string {
	result := nonLetterOrDigit.ReplaceAllString(s, "-")
	result = toASCII(result)
	result = nonWord.ReplaceAllString(result, "")
	result = strings.Trim(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.ToLower(result)
	if result == "" {
		return Fallback
	}
	return result
}

// toASCII folds diacritics to their base letters.
func toASCII(s string) string {
	s = ligatures.Replace(s)
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
