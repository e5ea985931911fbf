package index

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"debatetxt/internal"
)

// MultiTermScore is reported when a boolean query matched several terms and
// no single frequency can be read off the explanation.
const MultiTermScore = 1

const (
	termFreqDescription = "freq, occurrences of term within document"
	weightPrefix        = "weight("
)

var (
	phraseFreqPattern = regexp.MustCompile(`phraseFreq=(-?[0-9]+(?:\.[0-9]+)?)`)
	termFreqPattern   = regexp.MustCompile(`termFreq=(-?[0-9]+(?:\.[0-9]+)?)`)
)

// DecodeScore reads the match frequency of a hit from its explanation tree.
// A phrase frequency wins; otherwise the frequency of the single matched term
// is used; anything else scores MultiTermScore.
func DecodeScore(exp *internal.Explanation) int {
	if exp == nil {
		return MultiTermScore
	}
	if v, ok := findPhraseFreq(exp); ok {
		return clampRound(v)
	}

	termFreqs := matchedTermFreqs(exp)
	if len(termFreqs) == 1 {
		return clampRound(termFreqs[0])
	}
	return MultiTermScore
}

func findPhraseFreq(exp *internal.Explanation) (float64, bool) {
	if m := phraseFreqPattern.FindStringSubmatch(exp.Description); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, true
		}
	}
	if strings.HasPrefix(exp.Description, "phraseFreq") {
		return exp.Value, true
	}
	for i := range exp.Details {
		if v, ok := findPhraseFreq(&exp.Details[i]); ok {
			return v, true
		}
	}
	return 0, false
}

// matchedTermFreqs returns one frequency per matched term. Each term is a
// "weight(field:term ...)" subtree, which may repeat its frequency in several
// nodes. A weight without a readable frequency yields nil. A tree without
// weight nodes counts every frequency node.
func matchedTermFreqs(exp *internal.Explanation) []float64 {
	var out []float64
	weights := 0
	var walk func(e *internal.Explanation)
	walk = func(e *internal.Explanation) {
		if strings.HasPrefix(e.Description, weightPrefix) {
			weights++
			if v, ok := firstTermFreq(e); ok {
				out = append(out, v)
			}
			return
		}
		for i := range e.Details {
			walk(&e.Details[i])
		}
	}
	walk(exp)
	if weights > 0 {
		if len(out) != weights {
			return nil
		}
		return out
	}
	collectTermFreqs(exp, &out)
	return out
}

func termFreqOf(e *internal.Explanation) (float64, bool) {
	if m := termFreqPattern.FindStringSubmatch(e.Description); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		return v, err == nil
	}
	if strings.HasPrefix(e.Description, termFreqDescription) {
		return e.Value, true
	}
	return 0, false
}

func firstTermFreq(e *internal.Explanation) (float64, bool) {
	if v, ok := termFreqOf(e); ok {
		return v, true
	}
	for i := range e.Details {
		if v, ok := firstTermFreq(&e.Details[i]); ok {
			return v, true
		}
	}
	return 0, false
}

func collectTermFreqs(e *internal.Explanation, out *[]float64) {
	if v, ok := termFreqOf(e); ok {
		*out = append(*out, v)
	}
	for i := range e.Details {
		collectTermFreqs(&e.Details[i], out)
	}
}

func clampRound(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int(math.Round(v))
}
