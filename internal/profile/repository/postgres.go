package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"onboardflow/internal/profile/domain"
)

const (
	getProfileSQL = `SELECT payload FROM user_profiles WHERE key = $1`
	setProfileSQL = `INSERT INTO user_profiles (key, payload, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a profile repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the profile for key, or nil if not found.
// It returns an error for database failures and ErrMalformedProfile for undecodable payloads.
func (r *PostgresRepository) Get(ctx context.Context, key string) (*domain.UserProfile, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, getProfileSQL, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return decode(payload)
}

// Set upserts the profile payload under key.
func (r *PostgresRepository) Set(ctx context.Context, key string, p *domain.UserProfile) error {
	payload, err := encode(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, setProfileSQL, key, payload, time.Now().UTC())
	return err
}
