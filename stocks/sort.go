/*
Copyright 2024

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package stocks

import (
	"math"
	"slices"
)

// compareNaNLast orders a before b ascending (or descending when desc is set)
// with NaN values always placed after every defined value.
func compareNaNLast(a, b float64, desc bool) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	if desc {
		a, b = b, a
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// sortedBy returns a stably sorted copy of items; ties keep their input order.
func sortedBy[T any](items []T, key func(T) float64, desc bool) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return compareNaNLast(key(a), key(b), desc)
	})
	return out
}

func head[T any](items []T, n int) []T {
	if n < 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
