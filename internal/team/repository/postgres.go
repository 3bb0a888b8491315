package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"onboardflow/internal/team/domain"
)

const (
	memberColumns  = `id, manager_id, name, burnout_score, current_load, skill_scores, burnout_signals`
	getMemberSQL   = `SELECT ` + memberColumns + ` FROM team_members WHERE id = $1`
	listMembersSQL = `SELECT ` + memberColumns + ` FROM team_members WHERE manager_id = $1 ORDER BY created_seq`
	saveMemberSQL  = `INSERT INTO team_members (` + memberColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET manager_id = EXCLUDED.manager_id, name = EXCLUDED.name,
	burnout_score = EXCLUDED.burnout_score, current_load = EXCLUDED.current_load,
	skill_scores = EXCLUDED.skill_scores, burnout_signals = EXCLUDED.burnout_signals`
	acknowledgeSQL = `INSERT INTO action_acknowledgements (manager_id, action_id, acknowledged_at)
VALUES ($1, $2, $3) ON CONFLICT (manager_id, action_id) DO NOTHING`
	listAcknowledgementsSQL = `SELECT action_id FROM action_acknowledgements WHERE manager_id = $1`
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a team repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*domain.Member, error) {
	var (
		m              domain.Member
		skills, signal []byte
	)
	if err := row.Scan(&m.ID, &m.ManagerID, &m.Name, &m.BurnoutScore, &m.CurrentLoad, &skills, &signal); err != nil {
		return nil, err
	}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &m.SkillScores); err != nil {
			return nil, err
		}
	}
	if len(signal) > 0 {
		if err := json.Unmarshal(signal, &m.BurnoutSignals); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// GetMember returns the member for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx, getMemberSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (r *PostgresRepository) ListByManager(ctx context.Context, managerID string) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, listMembersSQL, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func saveMember(ctx context.Context, db execer, m domain.Member) error {
	skills, err := json.Marshal(m.SkillScores)
	if err != nil {
		return err
	}
	signals, err := json.Marshal(m.BurnoutSignals)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, saveMemberSQL, m.ID, m.ManagerID, m.Name, m.BurnoutScore, m.CurrentLoad, skills, signals)
	return err
}

func (r *PostgresRepository) SaveMember(ctx context.Context, m domain.Member) error {
	return saveMember(ctx, r.db, m)
}

// SaveMembers upserts members in one transaction.
func (r *PostgresRepository) SaveMembers(ctx context.Context, members []domain.Member) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, m := range members {
		if err := saveMember(ctx, tx, m); err != nil {
			return fmt.Errorf("save member %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

func (r *PostgresRepository) Acknowledge(ctx context.Context, managerID, actionID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, acknowledgeSQL, managerID, actionID, at)
	return err
}

func (r *PostgresRepository) Acknowledgements(ctx context.Context, managerID string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, listAcknowledgementsSQL, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}
