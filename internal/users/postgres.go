package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/quizbot/core/logger"
)

const (
	selectUserSQL = `SELECT id, username, first_name, last_name, name, email, task, score
		FROM quiz_users WHERE id = $1`
	selectUsersSQL = `SELECT id, username, first_name, last_name, name, email, task, score
		FROM quiz_users`
	upsertUserSQL = `INSERT INTO quiz_users (id, username, first_name, last_name, name, email, task, score, updated_at)
		VALUES (:id, :username, :first_name, :last_name, :name, :email, :task, :score, now())
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			task = EXCLUDED.task,
			score = EXCLUDED.score,
			updated_at = now()`
)

// PostgresStore keeps records in the quiz_users table (see migrations/).
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open connection; schema is managed by migrations.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load fetches one row.
func (s *PostgresStore) Load(ctx context.Context, id int64) (Record, error) {
	var rec Record
	if err := s.db.GetContext(ctx, &rec, selectUserSQL, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("users: select %d: %w", id, err)
	}
	if err := checkLoaded(id, rec); err != nil {
		return Record{}, fmt.Errorf("users: load %d: %w", id, err)
	}
	return rec, nil
}

// Save upserts the whole row.
func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	if _, err := s.db.NamedExecContext(ctx, upsertUserSQL, rec); err != nil {
		logger.Error(ctx, "store", "store.save",
			slog.String("driver", DriverPostgres),
			slog.Int64("user_id", rec.ID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("users: upsert %d: %w", rec.ID, err)
	}
	logger.Debug(ctx, "store", "store.save",
		slog.String("driver", DriverPostgres),
		slog.Int64("user_id", rec.ID),
		slog.Int("task_index", rec.TaskIndex),
		slog.Int("score", rec.Score),
	)
	return nil
}

// List returns all rows. Rows that break the record invariants are skipped and logged.
func (s *PostgresStore) List(ctx context.Context) ([]Record, error) {
	var recs []Record
	if err := s.db.SelectContext(ctx, &recs, selectUsersSQL); err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	out := recs[:0]
	for _, rec := range recs {
		if err := rec.Validate(); err != nil {
			logger.Warn(ctx, "store", "store.list.skip",
				slog.String("driver", DriverPostgres),
				slog.Int64("user_id", rec.ID),
				slog.String("err", err.Error()),
			)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
