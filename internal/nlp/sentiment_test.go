package nlp_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/msomdec/sentiment-board/internal/nlp"
	"github.com/msomdec/sentiment-board/internal/nlp/mocks"
)

func TestSentimentStage_AttachesResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	classifier := mocks.NewMockClassifier(ctrl)

	classifier.EXPECT().
		Classify(gomock.Any(), "I love this").
		Return(nlp.Sentiment{Label: "POSITIVE", Score: 0.9998}, nil)

	doc := nlp.NewDoc("I love this")
	require.NoError(t, nlp.NewSentimentStage(classifier).Process(context.Background(), doc))

	s, ok := nlp.SentimentOf(doc)
	require.True(t, ok)
	require.Equal(t, nlp.Sentiment{Label: "POSITIVE", Score: 0.9998}, s)
}

func TestSentimentStage_PropagatesClassifierError(t *testing.T) {
	ctrl := gomock.NewController(t)
	classifier := mocks.NewMockClassifier(ctrl)
	unavailable := errors.New("model unavailable")

	classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(nlp.Sentiment{}, unavailable)

	doc := nlp.NewDoc("text")
	err := nlp.NewSentimentStage(classifier).Process(context.Background(), doc)
	require.ErrorIs(t, err, unavailable)

	_, ok := nlp.SentimentOf(doc)
	require.False(t, ok)
}

func TestSentimentStage_RejectsOutOfRangeScore(t *testing.T) {
	ctrl := gomock.NewController(t)
	classifier := mocks.NewMockClassifier(ctrl)

	classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(nlp.Sentiment{Label: "POSITIVE", Score: 1.5}, nil)

	err := nlp.NewSentimentStage(classifier).Process(context.Background(), nlp.NewDoc("text"))
	require.Error(t, err)
}

func TestDefaultPipeline_ClassifiesSubmittedText(t *testing.T) {
	tests := []string{
		"I rate it <not good> at all",
		"if a<b and c>d the movie is terrible",
		"<b>so   fast</b>\n &amp; easy",
		"<script>alert(1)</script>",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			classifier := mocks.NewMockClassifier(ctrl)

			classifier.EXPECT().
				Classify(gomock.Any(), raw).
				Return(nlp.Sentiment{Label: "NEGATIVE", Score: 0.91}, nil)

			p, err := nlp.NewDefaultPipeline(classifier)
			require.NoError(t, err)
			require.Equal(t, []string{nlp.SanitizeStageName, nlp.SentimentStageName}, p.StageNames())

			doc, err := p.Process(context.Background(), raw)
			require.NoError(t, err)
			require.Equal(t, raw, doc.Text)

			s, ok := nlp.SentimentOf(doc)
			require.True(t, ok)
			require.Equal(t, "NEGATIVE", s.Label)
		})
	}
}

func TestSanitizeStage_AnnotatesCleanText(t *testing.T) {
	raw := "<b>so   fast</b>\n &amp; easy"
	doc := nlp.NewDoc(raw)

	require.NoError(t, nlp.NewSanitizeStage().Process(context.Background(), doc))
	require.Equal(t, "so fast & easy", doc.Get(nlp.CleanTextExtension))
	require.Equal(t, raw, doc.Text)
}
