package alias

import "strings"

// DefaultFuzzyDistance is the maximum-distance cutoff used by generic
// fuzzy candidate search over company lines.
const DefaultFuzzyDistance = 0.3

// Similarity returns a combined similarity score in [0,1] between two
// strings: normalized Levenshtein similarity, raised when the strings'
// Soundex codes agree, in which case the normalized edit distance is
// halved before conversion.
func Similarity(a, b string) float64 {
	na := strings.ToLower(strings.TrimSpace(a))
	nb := strings.ToLower(strings.TrimSpace(b))

	if na == "" && nb == "" {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}

	ra, rb := []rune(na), []rune(nb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	normDist := float64(levenshteinDistance(ra, rb)) / float64(maxLen)
	sim := 1.0 - normDist

	if soundexCode(na) == soundexCode(nb) {
		if boosted := 1.0 - normDist/2; boosted > sim {
			sim = boosted
		}
	}

	return sim
}

// BestFuzzyCandidate scores input against every candidate and returns the
// best acceptable one. A candidate is accepted only when its score is less
// than or equal to maxDistance: the threshold is documented as a distance
// ceiling but compared against the similarity score, and that historical
// behavior is kept intact at this call site. The resolver's own fuzzy tier
// compares the same score against a minimum-similarity bar instead.
func BestFuzzyCandidate(input string, candidates []string, maxDistance float64) (string, float64, bool) {
	bestScore := -1.0
	bestName := ""
	for _, cand := range candidates {
		score := Similarity(input, cand)
		if score > maxDistance {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestName = cand
		}
	}
	if bestScore < 0 {
		return "", 0, false
	}
	return bestName, bestScore, true
}

func levenshteinDistance(r1, r2 []rune) int {
	n, m := len(r1), len(r2)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for j := 0; j <= m; j++ {
		prev[j] = j
	}

	for i := 1; i <= n; i++ {
		curr[0] = i
		for j := 1; j <= m; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = minOf(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[m]
}

func minOf(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// soundexDigit maps a letter to its Soundex class, or 0 for letters that
// carry no code (vowels and near-vowels).
func soundexDigit(r rune) byte {
	switch r {
	case 'b', 'f', 'p', 'v':
		return '1'
	case 'c', 'g', 'j', 'k', 'q', 's', 'x', 'z':
		return '2'
	case 'd', 't':
		return '3'
	case 'l':
		return '4'
	case 'm', 'n':
		return '5'
	case 'r':
		return '6'
	}
	return 0
}

// soundexCode computes the classic 4-character Soundex code: first letter
// kept verbatim, subsequent letters mapped to digit classes with adjacent
// duplicates collapsed, padded with zeros or truncated to length 4.
func soundexCode(s string) string {
	var letters []rune
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, r)
		}
	}
	if len(letters) == 0 {
		return ""
	}

	code := []byte{byte(letters[0])}
	prev := soundexDigit(toLowerASCII(letters[0]))
	for _, r := range letters[1:] {
		d := soundexDigit(toLowerASCII(r))
		if d != 0 && d != prev {
			code = append(code, d)
			if len(code) == 4 {
				break
			}
		}
		prev = d
	}
	for len(code) < 4 {
		code = append(code, '0')
	}
	return string(code)
}

func toLowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
