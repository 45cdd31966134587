// Package postgres implements the domain repositories on PostgreSQL through
// the pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/msomdec/sentiment-board/internal/domain"
	"github.com/msomdec/sentiment-board/internal/repository/postgres/migrations"
)

// DB wraps a Postgres connection pool and implements domain.Database.
type DB struct {
	SqlDB *sql.DB

	users    *UserRepository
	records  *SentimentRecordRepository
	sessions *SessionRepository
}

// New opens a connection pool for dsn and verifies it with a ping.
func New(ctx context.Context, dsn string) (*DB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return Wrap(sqlDB), nil
}

// Wrap builds a DB around an existing pool. Tests use it with sqlmock.
func Wrap(sqlDB *sql.DB) *DB {
	return &DB{
		SqlDB:    sqlDB,
		users:    &UserRepository{db: sqlDB},
		records:  &SentimentRecordRepository{db: sqlDB},
		sessions: &SessionRepository{db: sqlDB},
	}
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

func (db *DB) Ping(ctx context.Context) error {
	return db.SqlDB.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.SqlDB.Close()
}

func (db *DB) Users() domain.UserRepository {
	return db.users
}

func (db *DB) Records() domain.SentimentRecordRepository {
	return db.records
}

func (db *DB) Sessions() domain.SessionRepository {
	return db.sessions
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
