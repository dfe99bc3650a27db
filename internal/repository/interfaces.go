package repository

import (
	"context"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
)

// UserRepository defines data access for login accounts
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// FindByMilitaryIDWithPassword loads the account bound to a personnel
	// record, password hash included. Every other read path omits the hash.
	FindByMilitaryIDWithPassword(ctx context.Context, militaryID string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

// PersonnelRepository defines data access for the personnel registry
type PersonnelRepository interface {
	Create(ctx context.Context, p *domain.Personnel) error
	FindByID(ctx context.Context, id string) (*domain.Personnel, error)
	FindByRG(ctx context.Context, rg string) (*domain.Personnel, error)
	List(ctx context.Context) ([]*domain.Personnel, error)
	Update(ctx context.Context, p *domain.Personnel) error
	Delete(ctx context.Context, id string) error
}

// RankRepository defines data access for military ranks
type RankRepository interface {
	Create(ctx context.Context, r *domain.Rank) error
	FindByID(ctx context.Context, id string) (*domain.Rank, error)
	FindByName(ctx context.Context, name string) (*domain.Rank, error)
	List(ctx context.Context) ([]*domain.Rank, error)
	Delete(ctx context.Context, id string) error
}

// VehicleRepository defines data access for the fleet registry
type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	FindByID(ctx context.Context, id string) (*domain.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)
	List(ctx context.Context) ([]*domain.Vehicle, error)
	Update(ctx context.Context, v *domain.Vehicle) error
	Delete(ctx context.Context, id string) error
}

// SessionRepository defines data access for authenticated sessions
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	FindActiveByUserID(ctx context.Context, userID string) ([]*domain.Session, error)
	// UpdateAccessToken stores the newly issued access token and bumps the
	// session's last access time
	UpdateAccessToken(ctx context.Context, id, accessToken string) error
	Deactivate(ctx context.Context, id string) error
	DeactivateAllByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
