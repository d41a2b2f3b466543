package classifier

import "context"

// Fixed label set of the binary sentiment model.
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
)

// Prediction is one label/score pair. Score is a probability in [0,1].
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier maps an input text to label predictions sorted by descending
// score. Callers use element zero as the answer.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]Prediction, error)
	Labels() []string
	ModelID() string
}
