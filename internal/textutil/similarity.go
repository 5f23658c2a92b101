package textutil

// Ratio computes the Ratcliff/Obershelp similarity between two strings,
// matching the semantics of Python's difflib.SequenceMatcher.ratio():
// 2*M / (len(a)+len(b)) where M is the total number of matched runes found
// by recursively locating the longest common substring. Returns 1 when both
// strings are empty and 0 when exactly one is.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	matched := matchingRunes(ra, rb)
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

// matchingRunes returns the total length of matched blocks between a and b,
// found by anchoring on the longest common substring and recursing into the
// unmatched pieces on either side.
func matchingRunes(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingRunes(a[:ai], b[:bi])
	total += matchingRunes(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonBlock locates the longest common substring of a and b.
// Ties resolve to the earliest occurrence in a, then in b, mirroring
// difflib's find_longest_match.
func longestCommonBlock(a, b []rune) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// lengths[j] holds the common-suffix length ending at a[i-1], b[j-1]
	// for the previous row of the table.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > size {
					size = curr[j]
					ai = i - size
					bi = j - size
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return ai, bi, size
}
