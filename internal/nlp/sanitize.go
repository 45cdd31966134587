package nlp

import (
	"context"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const (
	SanitizeStageName  = "sanitize"
	CleanTextExtension = "clean_text"
)

// NewSanitizeStage returns a stage that strips all markup from the text and
// collapses runs of whitespace, storing the result under CleanTextExtension.
// It only annotates the Doc: Doc.Text is left untouched and is still what
// later stages analyze.
func NewSanitizeStage() Stage {
	policy := bluemonday.StrictPolicy()
	return StageFunc(func(_ context.Context, doc *Doc) error {
		stripped := html.UnescapeString(policy.Sanitize(doc.Text))
		doc.Set(CleanTextExtension, strings.Join(strings.Fields(stripped), " "))
		return nil
	})
}

// NewDefaultPipeline wires the standard stages: the sanitize annotation
// first, then the sentiment classifier last.
func NewDefaultPipeline(classifier Classifier) (*Pipeline, error) {
	p := New()
	if err := p.AddStage(SentimentStageName, NewSentimentStage(classifier), Last()); err != nil {
		return nil, err
	}
	if err := p.AddStage(SanitizeStageName, NewSanitizeStage(), First()); err != nil {
		return nil, err
	}
	return p, nil
}
