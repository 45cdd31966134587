package nlp

import (
	"context"
	"fmt"
)

const (
	// SentimentStageName is the name the sentiment stage registers under.
	SentimentStageName = "sentiment"
	// SentimentExtension holds the Sentiment assigned to a Doc.
	SentimentExtension = "sentiment"
)

// Sentiment is a classifier verdict: a label such as "POSITIVE" and the
// model's confidence in it.
type Sentiment struct {
	Label string
	Score float64
}

//go:generate mockgen -destination=mocks/classifier_mock.go -package=mocks github.com/msomdec/sentiment-board/internal/nlp Classifier

// Classifier is an external sentiment model.
type Classifier interface {
	Classify(ctx context.Context, text string) (Sentiment, error)
}

// NewSentimentStage returns a stage that classifies Doc.Text exactly as
// submitted and stores the result under SentimentExtension. Classifier errors
// are returned unchanged.
func NewSentimentStage(classifier Classifier) Stage {
	return StageFunc(func(ctx context.Context, doc *Doc) error {
		result, err := classifier.Classify(ctx, doc.Text)
		if err != nil {
			return err
		}
		if result.Score < 0 || result.Score > 1 {
			return fmt.Errorf("classifier score %v out of range [0, 1]", result.Score)
		}
		doc.Set(SentimentExtension, result)
		return nil
	})
}

// SentimentOf returns the Sentiment stored on doc, if any.
func SentimentOf(doc *Doc) (Sentiment, bool) {
	s, ok := doc.Get(SentimentExtension).(Sentiment)
	return s, ok
}
