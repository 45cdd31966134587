package domain

import (
	"context"
	"time"
)

// SentimentRecord is one saved analysis: the submitted text and the label and
// confidence the classifier assigned to it.
type SentimentRecord struct {
	ID        int64
	UserID    int64
	Text      string
	Label     string  // e.g. "POSITIVE", "NEGATIVE"
	Score     float64 // Classifier confidence in [0, 1]
	CreatedAt time.Time
}

// SentimentRecordRepository persists records. Records are never updated or
// deleted by the application.
type SentimentRecordRepository interface {
	Create(ctx context.Context, record *SentimentRecord) error
	// ListByUser returns the user's records newest first.
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]SentimentRecord, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}
