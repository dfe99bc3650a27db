package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
)

// PostgresPersonnelRepository implements PersonnelRepository using PostgreSQL
type PostgresPersonnelRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPersonnelRepository creates a new PostgresPersonnelRepository
func NewPostgresPersonnelRepository(pool *pgxpool.Pool) *PostgresPersonnelRepository {
	return &PostgresPersonnelRepository{pool: pool}
}

// Create creates a new personnel record
func (r *PostgresPersonnelRepository) Create(ctx context.Context, p *domain.Personnel) error {
	query := `
		INSERT INTO personnel (id, rg, name, rank_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.RG,
		p.Name,
		p.RankID,
		p.IsActive,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRG
		}
		return fmt.Errorf("failed to create personnel: %w", err)
	}
	return nil
}

// FindByID retrieves a personnel record with its rank
func (r *PostgresPersonnelRepository) FindByID(ctx context.Context, id string) (*domain.Personnel, error) {
	query := personnelSelect + ` WHERE p.id = $1`
	return scanPersonnel(r.pool.QueryRow(ctx, query, id))
}

// FindByRG retrieves a personnel record by its registry identifier
func (r *PostgresPersonnelRepository) FindByRG(ctx context.Context, rg string) (*domain.Personnel, error) {
	query := personnelSelect + ` WHERE p.rg = $1`
	return scanPersonnel(r.pool.QueryRow(ctx, query, rg))
}

// List retrieves all personnel ordered by rank hierarchy then name
func (r *PostgresPersonnelRepository) List(ctx context.Context) ([]*domain.Personnel, error) {
	query := personnelSelect + ` ORDER BY rk.hierarchy_order, p.name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list personnel: %w", err)
	}
	defer rows.Close()

	var result []*domain.Personnel
	for rows.Next() {
		p, err := scanPersonnel(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// Update updates a personnel record
func (r *PostgresPersonnelRepository) Update(ctx context.Context, p *domain.Personnel) error {
	query := `
		UPDATE personnel SET rg = $2, name = $3, rank_id = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, p.ID, p.RG, p.Name, p.RankID, p.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRG
		}
		return fmt.Errorf("failed to update personnel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPersonnelNotFound
	}
	return nil
}

// Delete removes a personnel record
func (r *PostgresPersonnelRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM personnel WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete personnel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPersonnelNotFound
	}
	return nil
}

const personnelSelect = `
	SELECT p.id, p.rg, p.name, p.rank_id, p.is_active, p.created_at, p.updated_at,
	       rk.id, rk.name, rk.abbreviation, rk.hierarchy_order, rk.created_at, rk.updated_at
	FROM personnel p
	JOIN ranks rk ON rk.id = p.rank_id
`

func scanPersonnel(row pgx.Row) (*domain.Personnel, error) {
	p := &domain.Personnel{Rank: &domain.Rank{}}
	err := row.Scan(
		&p.ID,
		&p.RG,
		&p.Name,
		&p.RankID,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Rank.ID,
		&p.Rank.Name,
		&p.Rank.Abbreviation,
		&p.Rank.Order,
		&p.Rank.CreatedAt,
		&p.Rank.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPersonnelNotFound
		}
		return nil, fmt.Errorf("failed to scan personnel: %w", err)
	}
	return p, nil
}
