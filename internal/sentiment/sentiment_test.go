package sentiment

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassifyNewsEarningsBeat(t *testing.T) {
	got := ClassifyNews("NVDA surges on earnings beat")
	want := Result{Label: Positive, Positive: 2, Negative: 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestClassifyNewsPolarity(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Label
	}{
		{"positive only", "Shares rally to record after analyst upgrade", Positive},
		{"negative only", "Stock plunges as company misses estimates and warns", Negative},
		{"inflected positive", "Revenue surged while margins climbed", Positive},
		{"inflected negative", "Shares dropped after the recall", Negative},
		{"empty", "", Neutral},
		{"no keywords", "Company schedules annual shareholder meeting", Neutral},
		{"multi-word phrase", "Apple hits an all-time high", Positive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyNews(tt.text)
			if got.Label != tt.want {
				t.Errorf("ClassifyNews(%q) = %s (pos=%d neg=%d), want %s",
					tt.text, got.Label, got.Positive, got.Negative, tt.want)
			}
		})
	}
}

func TestClassifyTieIsNeutral(t *testing.T) {
	got := ClassifyNews("Profit jumps but lawsuit and probe loom")
	if got.Positive != 2 || got.Negative != 2 {
		t.Fatalf("expected 2/2 hits, got %d/%d", got.Positive, got.Negative)
	}
	if got.Label != Neutral {
		t.Errorf("expected neutral on tie, got %s", got.Label)
	}
}

func TestClassifyDoesNotMatchUnrelatedWords(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		// "window", "cute" and "fellow" share prefixes with keywords.
		{"shared prefixes", "A cute window display for a fellow shopper"},
		{"bare d suffix", "Wind farm opens"},
		{"ly suffix", "Highly anticipated product launch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyNews(tt.text)
			if got.Positive != 0 || got.Negative != 0 {
				t.Errorf("ClassifyNews(%q): expected no hits, got pos=%d neg=%d",
					tt.text, got.Positive, got.Negative)
			}
		})
	}
}

func TestClassifyCountsPhraseOnce(t *testing.T) {
	tests := []struct {
		name  string
		vocab *Vocabulary
		text  string
		want  Result
	}{
		{"phrase against single word ties", News, "Apple hits all-time high despite lawsuit", Result{Label: Neutral, Positive: 1, Negative: 1}},
		{"negative phrase", News, "Retailer lowers guidance", Result{Label: Negative, Positive: 0, Negative: 1}},
		{"wind is not win", News, "Wind farm operator expands", Result{Label: Positive, Positive: 1, Negative: 0}},
		{"hyphenated phrase", News, "Chipmakers hit by sell-off", Result{Label: Negative, Positive: 0, Negative: 1}},
		{"social phrase", Social, "GME to the moon", Result{Label: Bullish, Positive: 1, Negative: 0}},
		{"e keyword takes d", News, "Shares surged", Result{Label: Positive, Positive: 1, Negative: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.vocab.Classify(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestClassifySocial(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Label
	}{
		{"slang bullish", "Loading up on calls, GME to the moon", Bullish},
		{"emoji bullish", "TSLA 🚀🚀🚀", Bullish},
		{"slang bearish", "Bought puts, this is a bubble. Bagholders everywhere", Bearish},
		{"emoji bearish", "My portfolio 📉", Bearish},
		{"neutral", "What do you think about the upcoming split?", Neutral},
		{"tie", "calls or puts?", Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifySocial(tt.text)
			if got.Label != tt.want {
				t.Errorf("ClassifySocial(%q) = %s (pos=%d neg=%d), want %s",
					tt.text, got.Label, got.Positive, got.Negative, tt.want)
			}
		})
	}
}

func TestVocabulariesAreSeparate(t *testing.T) {
	// Forum slang does not move the news classifier.
	if got := ClassifyNews("tendies lambo hodl"); got.Label != Neutral {
		t.Errorf("expected neutral news label for slang, got %s", got.Label)
	}
}

func TestTally(t *testing.T) {
	r := News.Tally([]Label{Positive, Positive, Negative, Neutral, ""})

	want := map[Label]int{Positive: 2, Negative: 1, Neutral: 2}
	if diff := cmp.Diff(want, r.Counts); diff != "" {
		t.Errorf("unexpected counts (-want +got):\n%s", diff)
	}
	if r.Label != Positive {
		t.Errorf("expected positive, got %s", r.Label)
	}
	if r.Total != 5 {
		t.Errorf("expected total 5, got %d", r.Total)
	}
	if got := r.Score(); got != 0.2 {
		t.Errorf("expected score 0.2, got %v", got)
	}
}

func TestTallyTieAndEmpty(t *testing.T) {
	tie := Social.Tally([]Label{Bullish, Bearish})
	if tie.Label != Neutral {
		t.Errorf("expected neutral on tie, got %s", tie.Label)
	}

	empty := Social.Tally(nil)
	if empty.Label != Neutral {
		t.Errorf("expected neutral for empty tally, got %s", empty.Label)
	}
	if empty.Score() != 0 {
		t.Errorf("expected zero score, got %v", empty.Score())
	}
}

func TestPolarity(t *testing.T) {
	if Positive.Polarity() != 1 || Bullish.Polarity() != 1 {
		t.Error("expected positive polarity")
	}
	if Negative.Polarity() != -1 || Bearish.Polarity() != -1 {
		t.Error("expected negative polarity")
	}
	if Neutral.Polarity() != 0 {
		t.Error("expected zero polarity for neutral")
	}
}
