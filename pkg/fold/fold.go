// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package fold reduces text to a search key so that "Défi" matches "defi"
// and vowelled Arabic matches its bare spelling.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var caser = cases.Fold()

// String lowercases s, strips combining marks and collapses whitespace.
func String(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMark), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	return strings.Join(strings.Fields(caser.String(result)), " ")
}

// Contains reports whether needle occurs in haystack once both are folded.
// An empty needle matches everything.
func Contains(haystack, needle string) bool {
	return strings.Contains(String(haystack), String(needle))
}

func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
