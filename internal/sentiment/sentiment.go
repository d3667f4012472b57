package sentiment

import (
	"strings"
	"unicode"
)

// Label is a discrete sentiment label.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Bullish  Label = "bullish"
	Bearish  Label = "bearish"
	Neutral  Label = "neutral"
)

// Polarity maps a label onto +1, -1 or 0 regardless of vocabulary.
func (l Label) Polarity() int {
	switch l {
	case Positive, Bullish:
		return 1
	case Negative, Bearish:
		return -1
	}
	return 0
}

// Result is the outcome of classifying a single text.
type Result struct {
	Label    Label `json:"label"`
	Positive int   `json:"positive_hits"`
	Negative int   `json:"negative_hits"`
}

// Report counts labels across a set of classified texts.
type Report struct {
	Label  Label         `json:"label"`
	Counts map[Label]int `json:"counts"`
	Total  int           `json:"total"`
}

// Score returns (positive - negative) / total, or 0 for an empty report.
func (r Report) Score() float64 {
	if r.Total == 0 {
		return 0
	}
	var pos, neg int
	for label, n := range r.Counts {
		switch label.Polarity() {
		case 1:
			pos += n
		case -1:
			neg += n
		}
	}
	return float64(pos-neg) / float64(r.Total)
}

// Vocabulary is a fixed keyword list together with the labels it emits.
type Vocabulary struct {
	Name     string
	Positive Label
	Negative Label

	positiveWords []string
	negativeWords []string
	// Marks are matched as raw substrings (emoji, ticker slang with symbols).
	positiveMarks []string
	negativeMarks []string
}

// ClassifyNews classifies text with the financial-news vocabulary.
func ClassifyNews(text string) Result {
	return News.Classify(text)
}

// ClassifySocial classifies text with the social-forum vocabulary.
func ClassifySocial(text string) Result {
	return Social.Classify(text)
}

// Classify counts keyword hits and returns the argmax label.
// Equal counts (including zero) yield Neutral. Phrases are matched first and
// their words are not counted again as single keywords.
func (v *Vocabulary) Classify(text string) Result {
	tokens := tokenize(text)
	used := make([]bool, len(tokens))

	r := Result{
		Positive: countPhrases(tokens, used, v.positiveWords),
		Negative: countPhrases(tokens, used, v.negativeWords),
	}
	r.Positive += countWords(tokens, used, v.positiveWords) + countMarks(text, v.positiveMarks)
	r.Negative += countWords(tokens, used, v.negativeWords) + countMarks(text, v.negativeMarks)

	switch {
	case r.Positive > r.Negative:
		r.Label = v.Positive
	case r.Negative > r.Positive:
		r.Label = v.Negative
	default:
		r.Label = Neutral
	}
	return r
}

// Tally aggregates labels into a Report whose overall label follows the same
// argmax rule as Classify.
func (v *Vocabulary) Tally(labels []Label) Report {
	r := Report{
		Counts: map[Label]int{v.Positive: 0, v.Negative: 0, Neutral: 0},
		Total:  len(labels),
	}
	for _, l := range labels {
		if l == "" {
			l = Neutral
		}
		r.Counts[l]++
	}

	pos, neg := r.Counts[v.Positive], r.Counts[v.Negative]
	switch {
	case pos > neg:
		r.Label = v.Positive
	case neg > pos:
		r.Label = v.Negative
	default:
		r.Label = Neutral
	}
	return r
}

// countPhrases counts multi-word keywords ("all-time high", "to the moon")
// and marks the tokens they cover as used.
func countPhrases(tokens []string, used []bool, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		words := tokenize(kw)
		if len(words) < 2 {
			continue
		}
		for i := 0; i+len(words) <= len(tokens); i++ {
			if !phraseAt(tokens, used, i, words) {
				continue
			}
			for j := range words {
				used[i+j] = true
			}
			hits++
			i += len(words) - 1
		}
	}
	return hits
}

func phraseAt(tokens []string, used []bool, i int, words []string) bool {
	for j, w := range words {
		if used[i+j] || !matchesStem(tokens[i+j], w) {
			return false
		}
	}
	return true
}

// countWords counts single-word keywords over tokens not yet used. Each token
// counts at most once.
func countWords(tokens []string, used []bool, keywords []string) int {
	hits := 0
	for i, t := range tokens {
		if used[i] {
			continue
		}
		for _, kw := range keywords {
			if strings.ContainsFunc(kw, isSeparator) {
				continue
			}
			if matchesStem(t, kw) {
				used[i] = true
				hits++
				break
			}
		}
	}
	return hits
}

func countMarks(text string, marks []string) int {
	hits := 0
	for _, m := range marks {
		hits += strings.Count(text, m)
	}
	return hits
}

var inflections = []string{"s", "es", "ed", "ing", "er", "ers"}

// matchesStem reports whether token is kw or a regular inflection of it:
// surge/surges/surged/surging, drop/dropped, beat/beats. A bare "d" is only
// accepted after a final "e", so "win" does not match "wind".
func matchesStem(token, kw string) bool {
	if token == kw {
		return true
	}
	if !strings.HasPrefix(token, kw) {
		if strings.HasSuffix(kw, "e") {
			base := kw[:len(kw)-1]
			return token == base+"ing" || token == base+"er" || token == base+"ers"
		}
		return false
	}

	rest := token[len(kw):]
	if rest == "d" {
		return strings.HasSuffix(kw, "e")
	}
	for _, suffix := range inflections {
		if rest == suffix {
			return true
		}
	}

	// Doubled final consonant: drop -> dropped, slip -> slipping.
	last := kw[len(kw)-1:]
	return rest == last+"ed" || rest == last+"ing"
}

// tokenize lowercases s and splits it into words. Hyphens separate words, so
// "all-time" yields "all" and "time".
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), isSeparator)
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
