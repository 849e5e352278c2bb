package align

func unit[T any](T) int { return 1 }

// Levenshtein aligns two lists with unit insert, delete and substitute
// costs.
func Levenshtein[T comparable](a, b []T) Alignment {
	return Align(a, b, Funcs[T]{
		Size: unit[T],
		Cost: func(x, y T) (int, bool) {
			if x == y {
				return 0, true
			}
			return 1, true
		},
		Equal: func(x, y T) bool { return x == y },
	})
}

// StringDistance is the Levenshtein distance between two strings, counted
// in runes.
func StringDistance(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}
	if len(r1) < len(r2) {
		r1, r2 = r2, r1
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
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

	return prev[len(r2)]
}
