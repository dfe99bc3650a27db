package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
)

// PostgresSessionRepository implements SessionRepository using PostgreSQL
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository
func NewPostgresSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

const sessionColumns = `id, user_id, access_token, refresh_token, device_info, ip_address, user_agent, is_active, expires_at, created_at, last_access_at`

func scanSession(row pgx.Row) (*domain.Session, error) {
	session := &domain.Session{}
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.AccessToken,
		&session.RefreshToken,
		&session.DeviceInfo,
		&session.IPAddress,
		&session.UserAgent,
		&session.IsActive,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.LastAccessAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	return session, nil
}

// Create creates a new session
func (r *PostgresSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.AccessToken,
		session.RefreshToken,
		session.DeviceInfo,
		session.IPAddress,
		session.UserAgent,
		session.IsActive,
		session.ExpiresAt,
		session.CreatedAt,
		session.LastAccessAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID retrieves a session by ID
func (r *PostgresSessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return scanSession(r.pool.QueryRow(ctx, query, id))
}

// FindByRefreshToken retrieves a session by its refresh token
func (r *PostgresSessionRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE refresh_token = $1`
	return scanSession(r.pool.QueryRow(ctx, query, refreshToken))
}

// FindActiveByUserID retrieves all active sessions of a user
func (r *PostgresSessionRepository) FindActiveByUserID(ctx context.Context, userID string) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE user_id = $1 AND is_active = true AND expires_at > NOW()
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// UpdateAccessToken stores a newly issued access token and bumps last access
func (r *PostgresSessionRepository) UpdateAccessToken(ctx context.Context, id, accessToken string) error {
	query := `
		UPDATE sessions SET access_token = $2, last_access_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, accessToken)
	if err != nil {
		return fmt.Errorf("failed to update access token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Deactivate marks a session inactive. Deactivation is terminal, there is no
// reverse operation.
func (r *PostgresSessionRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE sessions SET is_active = false WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// DeactivateAllByUserID marks every session of a user inactive
func (r *PostgresSessionRepository) DeactivateAllByUserID(ctx context.Context, userID string) error {
	query := `UPDATE sessions SET is_active = false WHERE user_id = $1 AND is_active = true`
	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to deactivate user sessions: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry
func (r *PostgresSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
