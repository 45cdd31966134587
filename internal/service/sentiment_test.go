package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/msomdec/sentiment-board/internal/domain"
	"github.com/msomdec/sentiment-board/internal/nlp"
	"github.com/msomdec/sentiment-board/internal/nlp/mocks"
	"github.com/msomdec/sentiment-board/internal/repository/sqlite"
	"github.com/msomdec/sentiment-board/internal/service"
)

func newTestSentimentService(t *testing.T) (*service.SentimentService, *mocks.MockClassifier, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)

	classifier := mocks.NewMockClassifier(gomock.NewController(t))
	pipeline, err := nlp.NewDefaultPipeline(classifier)
	require.NoError(t, err)

	return service.NewSentimentService(pipeline, db.Records(), nil), classifier, db
}

func createUser(t *testing.T, db *sqlite.DB, username string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, db.Users().Create(context.Background(), user))
	return user
}

func TestSentimentService_Analyze_SavesRecord(t *testing.T) {
	svc, classifier, db := newTestSentimentService(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")

	classifier.EXPECT().
		Classify(gomock.Any(), "I love this product").
		Return(nlp.Sentiment{Label: "POSITIVE", Score: 0.9998}, nil)

	record, err := svc.Analyze(ctx, user.ID, "  I love this product\n")
	require.NoError(t, err)
	require.NotZero(t, record.ID)
	require.Equal(t, user.ID, record.UserID)
	require.Equal(t, "I love this product", record.Text)
	require.Equal(t, "POSITIVE", record.Label)
	require.InDelta(t, 0.9998, record.Score, 1e-9)

	n, err := svc.Count(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestSentimentService_Analyze_EmptyText(t *testing.T) {
	svc, _, db := newTestSentimentService(t)
	ctx := context.Background()
	user := createUser(t, db, "bob")

	// The mock has no expectations, so any classifier call fails the test.
	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.Analyze(ctx, user.ID, text)
		require.ErrorIs(t, err, domain.ErrEmptyText)
	}

	n, err := svc.Count(ctx, user.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSentimentService_Analyze_ClassifierError(t *testing.T) {
	svc, classifier, db := newTestSentimentService(t)
	ctx := context.Background()
	user := createUser(t, db, "carol")

	unavailable := errors.New("model unavailable")
	classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(nlp.Sentiment{}, unavailable)

	_, err := svc.Analyze(ctx, user.ID, "hello")
	require.ErrorIs(t, err, unavailable)

	n, err := svc.Count(ctx, user.ID)
	require.NoError(t, err)
	require.Zero(t, n, "failed analysis must not be saved")
}

func TestSentimentService_Analyze_ClassifiesTextWithAngleBrackets(t *testing.T) {
	svc, classifier, db := newTestSentimentService(t)
	user := createUser(t, db, "dave")

	text := "I rate it <not good> at all"
	classifier.EXPECT().
		Classify(gomock.Any(), text).
		Return(nlp.Sentiment{Label: "NEGATIVE", Score: 0.95}, nil)

	record, err := svc.Analyze(context.Background(), user.ID, text)
	require.NoError(t, err)
	require.Equal(t, text, record.Text)
	require.Equal(t, "NEGATIVE", record.Label)
}

func TestSentimentService_History_ScopedAndNewestFirst(t *testing.T) {
	svc, classifier, db := newTestSentimentService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).
		Return(nlp.Sentiment{Label: "NEGATIVE", Score: 0.6}, nil).
		Times(4)

	for _, text := range []string{"first", "second", "third"} {
		_, err := svc.Analyze(ctx, alice.ID, text)
		require.NoError(t, err)
	}
	_, err := svc.Analyze(ctx, bob.ID, "bob's note")
	require.NoError(t, err)

	records, err := svc.History(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "third", records[0].Text)
	require.Equal(t, "second", records[1].Text)
	require.Equal(t, "first", records[2].Text)
	for _, r := range records {
		require.Equal(t, alice.ID, r.UserID)
	}
}

func TestSentimentService_History_ReturnsEveryRecord(t *testing.T) {
	svc, _, db := newTestSentimentService(t)
	ctx := context.Background()
	user := createUser(t, db, "erin")

	// Exactly two batches, then a partial third.
	for _, total := range []int{service.HistoryBatchSize * 2, service.HistoryBatchSize*2 + 5} {
		for n, err := svc.Count(ctx, user.ID); n < total; n, err = svc.Count(ctx, user.ID) {
			require.NoError(t, err)
			require.NoError(t, db.Records().Create(ctx, &domain.SentimentRecord{
				UserID: user.ID,
				Text:   fmt.Sprintf("entry %d", n),
				Label:  "POSITIVE",
				Score:  0.7,
			}))
		}

		records, err := svc.History(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, records, total)
		require.Equal(t, fmt.Sprintf("entry %d", total-1), records[0].Text)
		require.Equal(t, "entry 0", records[total-1].Text)
	}
}
