package verification

// NameMatchThreshold is the minimum similarity each name pair must reach for
// the claimed and extracted identities to be considered consistent.
const NameMatchThreshold = 0.8

// EditDistance computes the Levenshtein distance between two strings with the
// classic O(n·m) dynamic-programming table. Implemented directly rather than
// through a library so tie-breaks and rounding stay reproducible.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	n, m := len(ra), len(rb)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	// Two-row rolling table; prev[j] is the distance between ra[:i-1] and rb[:j].
	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for j := 0; j <= m; j++ {
		prev[j] = j
	}

	for i := 1; i <= n; i++ {
		curr[0] = i
		for j := 1; j <= m; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[m]
}

// Similarity scores two strings as (maxLen - editDistance) / maxLen,
// case-sensitive. Two empty strings are defined as perfectly similar;
// a comparison involving exactly one empty string scores zero.
func Similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 && lb == 0 {
		return 1.0
	}
	if la == 0 || lb == 0 {
		return 0
	}
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	return float64(maxLen-EditDistance(a, b)) / float64(maxLen)
}

// NamesConsistent cross-validates the claimed first/last name against the
// provider's extracted first/last name. Both pairs must independently meet
// the threshold; a single strong match cannot compensate for a weak one.
func NamesConsistent(claimedFirst, claimedLast, extractedFirst, extractedLast string) bool {
	return Similarity(claimedFirst, extractedFirst) >= NameMatchThreshold &&
		Similarity(claimedLast, extractedLast) >= NameMatchThreshold
}
