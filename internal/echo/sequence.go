package echo

// sequenceRatio computes the Ratcliff–Obershelp similarity of two strings:
// twice the number of matching characters (found by recursively taking the
// longest common substring and matching what lies to either side of it)
// divided by the total length. The result is in [0, 1].
func sequenceRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	matched := matchingRunes(ra, rb)
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

// matchingRunes counts matching runes per Ratcliff–Obershelp, iteratively
// with an explicit work stack.
func matchingRunes(a, b []rune) int {
	type span struct {
		aLo, aHi int
		bLo, bHi int
	}

	total := 0
	stack := []span{{0, len(a), 0, len(b)}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.aLo >= s.aHi || s.bLo >= s.bHi {
			continue
		}

		ai, bi, size := longestCommonSubstring(a, b, s.aLo, s.aHi, s.bLo, s.bHi)
		if size == 0 {
			continue
		}
		total += size
		stack = append(stack,
			span{s.aLo, ai, s.bLo, bi},
			span{ai + size, s.aHi, bi + size, s.bHi},
		)
	}
	return total
}

// longestCommonSubstring finds the longest run of equal runes within the
// given windows of a and b, preferring the earliest occurrence in a, then in
// b, to mirror difflib's find_longest_match tie-breaking.
func longestCommonSubstring(a, b []rune, aLo, aHi, bLo, bHi int) (bestA, bestB, bestSize int) {
	bestA, bestB = aLo, bLo

	// lengths[j] is the length of the common suffix ending at a[i], b[j].
	lengths := make([]int, bHi-bLo)
	for i := aLo; i < aHi; i++ {
		// Walk b backwards so lengths[j-1] still holds the previous row.
		for j := bHi - 1; j >= bLo; j-- {
			idx := j - bLo
			if a[i] != b[j] {
				lengths[idx] = 0
				continue
			}
			run := 1
			if idx > 0 {
				run = lengths[idx-1] + 1
			}
			lengths[idx] = run
			if run > bestSize || (run == bestSize && i-run+1 == bestA && j-run+1 < bestB) {
				bestSize = run
				bestA = i - run + 1
				bestB = j - run + 1
			}
		}
	}
	return bestA, bestB, bestSize
}
