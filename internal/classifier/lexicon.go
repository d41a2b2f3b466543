package classifier

import (
	"context"
	"math"
	"strings"
	"unicode"
)

// LexiconModel is a binary sentiment classifier over per-token log-odds
// weights. Scoring lowercases and tokenizes the input, sums the weights of
// known tokens (a negator flips the sign of the next weighted token), adds
// the bias, and squashes the sum through the logistic function to get
// P(positive). Immutable after construction; safe for concurrent use.
type LexiconModel struct {
	id       string
	bias     float64
	weights  map[string]float64
	negators map[string]struct{}
}

func (m *LexiconModel) ModelID() string { return m.id }

func (m *LexiconModel) Labels() []string {
	return []string{LabelPositive, LabelNegative}
}

// Classify scores text and returns both labels ordered by descending score.
// The same input always yields the same output.
func (m *LexiconModel) Classify(ctx context.Context, text string) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sum := m.bias
	// A negator flips the sign of the next weighted token, but only within
	// a two-token window ("not good" flips, "don't make me hate it" does
	// not reach past the window).
	negateWindow := 0
	for _, tok := range tokenize(text) {
		if m.isNegator(tok) {
			negateWindow = 2
			continue
		}
		w, ok := m.weights[tok]
		if !ok {
			if negateWindow > 0 {
				negateWindow--
			}
			continue
		}
		if negateWindow > 0 {
			w = -w
			negateWindow = 0
		}
		sum += w
	}
	p := 1 / (1 + math.Exp(-sum))
	if math.IsNaN(p) {
		return nil, errBadScore{sum: sum}
	}
	preds := []Prediction{
		{Label: LabelPositive, Score: p},
		{Label: LabelNegative, Score: 1 - p},
	}
	if preds[1].Score > preds[0].Score {
		preds[0], preds[1] = preds[1], preds[0]
	}
	return preds, nil
}

func (m *LexiconModel) isNegator(tok string) bool {
	if _, ok := m.negators[tok]; ok {
		return true
	}
	// contractions like "don't", "isn't"
	return strings.HasSuffix(tok, "n't")
}

// tokenize splits lowercased text on anything that is not a letter, digit
// or in-word apostrophe.
func tokenize(text string) []string {
	toks := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	for i, t := range toks {
		toks[i] = strings.Trim(t, "'")
	}
	return toks
}

// errBadScore signals a non-finite probability, which means the loaded
// weights were unusable.
type errBadScore struct{ sum float64 }

func (e errBadScore) Error() string { return "non-finite score from weight sum" }
