package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/msomdec/sentiment-board/internal/domain"
	"github.com/msomdec/sentiment-board/internal/metrics"
	"github.com/msomdec/sentiment-board/internal/nlp"
)

// HistoryBatchSize is how many records History reads per query.
const HistoryBatchSize = 50

// SentimentService runs submitted text through the pipeline and keeps the
// verdicts per user.
type SentimentService struct {
	pipeline *nlp.Pipeline
	records  domain.SentimentRecordRepository
	metrics  *metrics.Collector
}

// NewSentimentService creates a new SentimentService. m may be nil.
func NewSentimentService(pipeline *nlp.Pipeline, records domain.SentimentRecordRepository, m *metrics.Collector) *SentimentService {
	return &SentimentService{
		pipeline: pipeline,
		records:  records,
		metrics:  m,
	}
}

// Analyze classifies text and stores the result as a new record owned by
// userID. Blank text is rejected before the classifier is called.
func (s *SentimentService) Analyze(ctx context.Context, userID int64, text string) (*domain.SentimentRecord, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}

	doc, err := s.pipeline.Process(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("run pipeline: %w", err)
	}

	result, ok := nlp.SentimentOf(doc)
	if !ok {
		return nil, errors.New("pipeline produced no sentiment")
	}

	record := &domain.SentimentRecord{
		UserID: userID,
		Text:   text,
		Label:  result.Label,
		Score:  result.Score,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("save record: %w", err)
	}

	s.metrics.RecordAnalysis(record.Label)
	slog.Debug("text analyzed", "user_id", userID, "record_id", record.ID, "label", record.Label)
	return record, nil
}

// History returns all of the user's records, newest first.
func (s *SentimentService) History(ctx context.Context, userID int64) ([]domain.SentimentRecord, error) {
	var records []domain.SentimentRecord
	for offset := 0; ; offset += HistoryBatchSize {
		batch, err := s.records.ListByUser(ctx, userID, HistoryBatchSize, offset)
		if err != nil {
			return nil, fmt.Errorf("list records: %w", err)
		}
		records = append(records, batch...)
		if len(batch) < HistoryBatchSize {
			return records, nil
		}
	}
}

// Count returns how many records the user has saved.
func (s *SentimentService) Count(ctx context.Context, userID int64) (int, error) {
	n, err := s.records.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}
