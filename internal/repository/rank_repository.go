package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
)

// PostgresRankRepository implements RankRepository using PostgreSQL
type PostgresRankRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRankRepository creates a new PostgresRankRepository
func NewPostgresRankRepository(pool *pgxpool.Pool) *PostgresRankRepository {
	return &PostgresRankRepository{pool: pool}
}

// Create creates a new rank
func (r *PostgresRankRepository) Create(ctx context.Context, rank *domain.Rank) error {
	query := `
		INSERT INTO ranks (id, name, abbreviation, hierarchy_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		rank.ID,
		rank.Name,
		rank.Abbreviation,
		rank.Order,
		rank.CreatedAt,
		rank.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create rank: %w", err)
	}
	return nil
}

// FindByID retrieves a rank by ID
func (r *PostgresRankRepository) FindByID(ctx context.Context, id string) (*domain.Rank, error) {
	query := `
		SELECT id, name, abbreviation, hierarchy_order, created_at, updated_at
		FROM ranks WHERE id = $1
	`
	return scanRank(r.pool.QueryRow(ctx, query, id))
}

// FindByName retrieves a rank by name
func (r *PostgresRankRepository) FindByName(ctx context.Context, name string) (*domain.Rank, error) {
	query := `
		SELECT id, name, abbreviation, hierarchy_order, created_at, updated_at
		FROM ranks WHERE name = $1
	`
	return scanRank(r.pool.QueryRow(ctx, query, name))
}

// List retrieves all ranks ordered by hierarchy
func (r *PostgresRankRepository) List(ctx context.Context) ([]*domain.Rank, error) {
	query := `
		SELECT id, name, abbreviation, hierarchy_order, created_at, updated_at
		FROM ranks ORDER BY hierarchy_order
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ranks: %w", err)
	}
	defer rows.Close()

	var result []*domain.Rank
	for rows.Next() {
		rank, err := scanRank(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rank)
	}
	return result, rows.Err()
}

// Delete removes a rank
func (r *PostgresRankRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ranks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rank: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRankNotFound
	}
	return nil
}

func scanRank(row pgx.Row) (*domain.Rank, error) {
	rank := &domain.Rank{}
	err := row.Scan(
		&rank.ID,
		&rank.Name,
		&rank.Abbreviation,
		&rank.Order,
		&rank.CreatedAt,
		&rank.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRankNotFound
		}
		return nil, fmt.Errorf("failed to scan rank: %w", err)
	}
	return rank, nil
}
