package util

import "strings"

// CommaParts joins the comma separated parts of s in [from, to) back together.
// Out of range bounds are clamped.
func CommaParts(s string, from int, to int) string {
	parts := strings.Split(s, ",")

	if from > len(parts) {
		from = len(parts)
	}
	if to > len(parts) {
		to = len(parts)
	}
	if from >= to {
		return ""
	}

	return strings.Join(parts[from:to], ",")
}
