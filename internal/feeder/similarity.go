// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feeder

// LevenshteinDistance returns the edit distance between a and b counted in
// runes, so Arabic letters cost one edit each.
func LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	row := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[j] = min(row[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		row, prev = prev, row
	}
	return prev[len(rb)]
}

// Similarity returns 1 - distance/max(len(a), len(b)) clamped to [0, 1].
// Identical strings, including two empty strings, score exactly 1.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	s := 1.0 - float64(LevenshteinDistance(a, b))/float64(maxLen)
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
