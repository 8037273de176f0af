// Package fuzzy implements the deterministic, I/O-free similarity metrics
// of spec.md §4.9 between a target domain and a candidate domain.
package fuzzy

import (
	"math"
	"strings"

	"github.com/domainguard/domainguard/internal/model"
)

var qwertyRows = []string{
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm",
}

var keyPos = buildKeyPositions()

func buildKeyPositions() map[rune][2]int {
	m := map[rune][2]int{}
	for row, s := range qwertyRows {
		for col, r := range s {
			m[r] = [2]int{row, col}
		}
	}
	return m
}

func firstLabel(fqdn string) string {
	parts := strings.SplitN(fqdn, ".", 2)
	return parts[0]
}

// Score computes every fuzzy metric of spec.md §4.9 between target and
// candidate FQDNs.
func Score(target, candidate string) model.FuzzyScores {
	targetLabel := firstLabel(target)
	candidateLabel := firstLabel(candidate)

	return model.FuzzyScores{
		JaroWinkler:            jaro(target, candidate),
		Levenshtein:            levenshtein(targetLabel, candidateLabel),
		LevenshteinNormalized:  levenshteinNormalized(targetLabel, candidateLabel),
		CharDiff:               charDiff(targetLabel, candidateLabel),
		KeyboardProximity:      keyboardProximity(targetLabel, candidateLabel),
	}
}

// jaro computes the Jaro distance (0..1) between two strings.
func jaro(a, b string) float64 {
	ar, br := []rune(a), []rune(b)
	if len(ar) == 0 && len(br) == 0 {
		return 1
	}
	if len(ar) == 0 || len(br) == 0 {
		return 0
	}

	matchDistance := max(len(ar), len(br))/2 - 1
	if matchDistance < 0 {
		matchDistance = 0
	}

	aMatched := make([]bool, len(ar))
	bMatched := make([]bool, len(br))

	matches := 0
	for i, ca := range ar {
		start := max(0, i-matchDistance)
		end := min(len(br)-1, i+matchDistance)
		for j := start; j <= end; j++ {
			if bMatched[j] || br[j] != ca {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	var transpositions int
	k := 0
	for i := range ar {
		if !aMatched[i] {
			continue
		}
		for !bMatched[k] {
			k++
		}
		if ar[i] != br[k] {
			transpositions++
		}
		k++
	}
	transpositions /= 2

	m := float64(matches)
	return (m/float64(len(ar)) + m/float64(len(br)) + (m-float64(transpositions))/m) / 3
}

// levenshtein is the classic edit distance with unit insert/delete/
// substitute cost.
func levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	la, lb := len(ar), len(br)

	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func levenshteinNormalized(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	d := levenshtein(a, b)
	denom := max(len([]rune(a)), len([]rune(b)))
	return 1 - float64(d)/float64(denom)
}

// charDiff pads the shorter label with empty cells and counts positional
// mismatches.
func charDiff(a, b string) int {
	ar, br := []rune(a), []rune(b)
	n := max(len(ar), len(br))
	diff := 0
	for i := 0; i < n; i++ {
		var ca, cb rune = -1, -1
		if i < len(ar) {
			ca = ar[i]
		}
		if i < len(br) {
			cb = br[i]
		}
		if ca != cb {
			diff++
		}
	}
	return diff
}

// keyboardProximity scores QWERTY-adjacency similarity per spec.md §4.9.
func keyboardProximity(a, b string) float64 {
	ar, br := []rune(strings.ToLower(a)), []rune(strings.ToLower(b))
	n := min(len(ar), len(br))

	var total float64
	for i := 0; i < n; i++ {
		ca, cb := ar[i], br[i]
		switch {
		case ca == cb:
			// distance 0
		default:
			pa, oka := keyPos[ca]
			pb, okb := keyPos[cb]
			if !oka || !okb {
				total += 1.0
			} else {
				dr := float64(pa[0] - pb[0])
				dc := float64(pa[1] - pb[1])
				total += math.Hypot(dr, dc) / 5.0
			}
		}
	}

	mean := 0.0
	if n > 0 {
		mean = total / float64(n)
	}
	lengthPenalty := 0.1 * math.Abs(float64(len(ar)-len(br)))
	score := 1 - mean - lengthPenalty
	if score < 0 {
		score = 0
	}
	return score
}

func min3(a, b, c int) int {
	return min(a, min(b, c))
}
