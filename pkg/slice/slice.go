// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice adds the two generic helpers the standard [slices] package lacks:
converting between wire and domain types, and filtering.
*/
package slice

// Map converts every element of input. A nil input stays nil.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}
	return result
}

// Filter keeps the elements for which keep returns true, in order.
func Filter[T any](input []T, keep func(T) bool) []T {
	var result []T
	for _, v := range input {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}
