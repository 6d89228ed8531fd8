package domain

import "strings"

// NormalizeAddress collapses runs of whitespace so equivalent inputs share
// one cache key.
func NormalizeAddress(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
