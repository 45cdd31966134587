package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/msomdec/sentiment-board/internal/domain"
)

// SentimentRecordRepository implements domain.SentimentRecordRepository using Postgres.
type SentimentRecordRepository struct {
	db *sql.DB
}

func (r *SentimentRecordRepository) Create(ctx context.Context, record *domain.SentimentRecord) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO sentiment_records (user_id, text, label, score)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		record.UserID, record.Text, record.Label, record.Score,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sentiment record: %w", err)
	}
	return nil
}

func (r *SentimentRecordRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.SentimentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, text, label, score, created_at
		 FROM sentiment_records
		 WHERE user_id = $1
		 ORDER BY id DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query sentiment records: %w", err)
	}
	defer rows.Close()

	var records []domain.SentimentRecord
	for rows.Next() {
		var rec domain.SentimentRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Text, &rec.Label, &rec.Score, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sentiment record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *SentimentRecordRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sentiment_records WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sentiment records: %w", err)
	}
	return count, nil
}
