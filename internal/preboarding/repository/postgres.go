package repository

import (
	"context"
	"database/sql"
	"errors"

	"onboardflow/internal/preboarding/domain"
)

const (
	itemColumns        = `id, user_id, title, category, status, owner, eta, escalated_to, escalated_at, updated_at`
	getItemSQL         = `SELECT ` + itemColumns + ` FROM preboarding_items WHERE id = $1`
	listItemsByUserSQL = `SELECT ` + itemColumns + ` FROM preboarding_items WHERE user_id = $1 ORDER BY created_seq`
	saveItemSQL        = `INSERT INTO preboarding_items (` + itemColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, category = EXCLUDED.category,
	status = EXCLUDED.status, owner = EXCLUDED.owner, eta = EXCLUDED.eta,
	escalated_to = EXCLUDED.escalated_to, escalated_at = EXCLUDED.escalated_at,
	updated_at = EXCLUDED.updated_at`
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a preboarding item repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var (
		it          domain.Item
		category    string
		status      string
		eta         sql.NullTime
		escalatedTo sql.NullString
		escalatedAt sql.NullTime
	)
	if err := row.Scan(&it.ID, &it.UserID, &it.Title, &category, &status, &it.Owner,
		&eta, &escalatedTo, &escalatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Category = domain.Category(category)
	it.Status = domain.Status(status)
	if eta.Valid {
		t := eta.Time
		it.ETA = &t
	}
	it.EscalatedTo = escalatedTo.String
	if escalatedAt.Valid {
		t := escalatedAt.Time
		it.EscalatedAt = &t
	}
	return &it, nil
}

// GetByID returns the item for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, getItemSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return it, nil
}

// ListByUser returns the user's items in checklist order.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, listItemsByUserSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

// Save upserts the item.
func (r *PostgresRepository) Save(ctx context.Context, it domain.Item) error {
	var eta, escalatedAt sql.NullTime
	if it.ETA != nil {
		eta = sql.NullTime{Time: *it.ETA, Valid: true}
	}
	if it.EscalatedAt != nil {
		escalatedAt = sql.NullTime{Time: *it.EscalatedAt, Valid: true}
	}
	escalatedTo := sql.NullString{String: it.EscalatedTo, Valid: it.EscalatedTo != ""}
	_, err := r.db.ExecContext(ctx, saveItemSQL, it.ID, it.UserID, it.Title, string(it.Category),
		string(it.Status), it.Owner, eta, escalatedTo, escalatedAt, it.UpdatedAt)
	return err
}
