// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer covers the optional fields of wire types and partial updates.

  - To: address of a literal, for optional JSON fields.
  - Val: dereference with a zero default, for templates.
  - Assign: copy a patch field onto its target when it was given.
*/
package pointer

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Val returns *p, or the zero value when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Assign stores *src into dst when src is set and reports whether it did.
func Assign[T any](dst *T, src *T) bool {
	if src == nil {
		return false
	}
	*dst = *src
	return true
}
