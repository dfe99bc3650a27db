package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
)

// PostgresVehicleRepository implements VehicleRepository using PostgreSQL
type PostgresVehicleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresVehicleRepository creates a new PostgresVehicleRepository
func NewPostgresVehicleRepository(pool *pgxpool.Pool) *PostgresVehicleRepository {
	return &PostgresVehicleRepository{pool: pool}
}

// Create creates a new vehicle
func (r *PostgresVehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, plate, model, personnel_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		v.ID,
		v.Plate,
		v.Model,
		nullableID(v.PersonnelID),
		v.CreatedAt,
		v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePlate
		}
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// FindByID retrieves a vehicle by ID
func (r *PostgresVehicleRepository) FindByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `
		SELECT id, plate, model, personnel_id, created_at, updated_at
		FROM vehicles WHERE id = $1
	`
	return scanVehicle(r.pool.QueryRow(ctx, query, id))
}

// FindByPlate retrieves a vehicle by plate
func (r *PostgresVehicleRepository) FindByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	query := `
		SELECT id, plate, model, personnel_id, created_at, updated_at
		FROM vehicles WHERE plate = $1
	`
	return scanVehicle(r.pool.QueryRow(ctx, query, plate))
}

// List retrieves all vehicles ordered by plate
func (r *PostgresVehicleRepository) List(ctx context.Context) ([]*domain.Vehicle, error) {
	query := `
		SELECT id, plate, model, personnel_id, created_at, updated_at
		FROM vehicles ORDER BY plate
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	var result []*domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

// Update updates a vehicle
func (r *PostgresVehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `
		UPDATE vehicles SET plate = $2, model = $3, personnel_id = $4, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, v.ID, v.Plate, v.Model, nullableID(v.PersonnelID))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePlate
		}
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

// Delete removes a vehicle
func (r *PostgresVehicleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

func nullableID(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	var personnelID sql.NullString
	err := row.Scan(
		&v.ID,
		&v.Plate,
		&v.Model,
		&personnelID,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to scan vehicle: %w", err)
	}
	v.PersonnelID = personnelID.String
	return v, nil
}
