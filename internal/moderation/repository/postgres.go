package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"onboardflow/internal/moderation/domain"
)

const (
	uniqueViolation = "23505"

	addFlagSQL = `INSERT INTO card_flags (submission_id, card_id, user_id, reason, created_at)
VALUES ($1, $2, $3, $4, $5)`
	listFlagsByCardSQL = `SELECT submission_id, card_id, user_id, reason, created_at
FROM card_flags WHERE card_id = $1 ORDER BY created_seq`
	countFlagsSQL = `SELECT card_id, COUNT(*) FROM card_flags GROUP BY card_id`
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a flag repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add inserts the flag; a primary key violation on submission_id means a replayed submission.
func (r *PostgresRepository) Add(ctx context.Context, f domain.Flag) error {
	_, err := r.db.ExecContext(ctx, addFlagSQL, f.SubmissionID, f.CardID, f.UserID, string(f.Reason), f.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("submission %s: %w", f.SubmissionID, domain.ErrDuplicateFlag)
	}
	return err
}

func (r *PostgresRepository) ListByCard(ctx context.Context, cardID string) ([]domain.Flag, error) {
	rows, err := r.db.QueryContext(ctx, listFlagsByCardSQL, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Flag
	for rows.Next() {
		var (
			f      domain.Flag
			reason string
		)
		if err := rows.Scan(&f.SubmissionID, &f.CardID, &f.UserID, &reason, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Reason = domain.Reason(reason)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CountsByCard(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, countFlagsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var (
			id string
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}
