package seed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/repository"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/service"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/logger"
)

// defaultRanks is the baseline catalog installed on an empty database,
// ordered highest first
var defaultRanks = []struct {
	name         string
	abbreviation string
	order        int
}{
	{"Colonel", "COL", 1},
	{"Lieutenant Colonel", "LTC", 2},
	{"Major", "MAJ", 3},
	{"Captain", "CPT", 4},
	{"Lieutenant", "LT", 5},
	{"Sergeant", "SGT", 6},
	{"Corporal", "CPL", 7},
	{"Private", "PVT", 8},
}

// Config holds the bootstrap admin credentials
type Config struct {
	AdminRG       string
	AdminPassword string
}

// Seeder installs the rank catalog and a bootstrap admin account. Every step
// is idempotent so the seeder can run on every start.
type Seeder struct {
	personnelRepo repository.PersonnelRepository
	rankRepo      repository.RankRepository
	userRepo      repository.UserRepository
	hasher        service.PasswordHasher
	config        *Config
	log           *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(
	personnelRepo repository.PersonnelRepository,
	rankRepo repository.RankRepository,
	userRepo repository.UserRepository,
	hasher service.PasswordHasher,
	config *Config,
) *Seeder {
	return &Seeder{
		personnelRepo: personnelRepo,
		rankRepo:      rankRepo,
		userRepo:      userRepo,
		hasher:        hasher,
		config:        config,
		log:           logger.Get().Named("seed"),
	}
}

// Run installs missing ranks and the admin account
func (s *Seeder) Run(ctx context.Context) error {
	topRank, err := s.seedRanks(ctx)
	if err != nil {
		return err
	}
	return s.seedAdmin(ctx, topRank)
}

func (s *Seeder) seedRanks(ctx context.Context) (*domain.Rank, error) {
	var top *domain.Rank

	for _, r := range defaultRanks {
		existing, err := s.rankRepo.FindByName(ctx, r.name)
		if err == nil {
			if top == nil {
				top = existing
			}
			continue
		}
		if !errors.Is(err, domain.ErrRankNotFound) {
			return nil, err
		}

		now := time.Now()
		rank := &domain.Rank{
			ID:           uuid.NewString(),
			Name:         r.name,
			Abbreviation: r.abbreviation,
			Order:        r.order,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.rankRepo.Create(ctx, rank); err != nil {
			return nil, err
		}
		s.log.Info("rank seeded", zap.String("name", rank.Name))

		if top == nil {
			top = rank
		}
	}

	return top, nil
}

func (s *Seeder) seedAdmin(ctx context.Context, rank *domain.Rank) error {
	existing, err := s.personnelRepo.FindByRG(ctx, s.config.AdminRG)
	if err == nil {
		// Admin personnel already present; assume the account is too
		_, err = s.userRepo.FindByMilitaryIDWithPassword(ctx, existing.ID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return s.createAdminUser(ctx, existing.ID)
	}
	if !errors.Is(err, domain.ErrPersonnelNotFound) {
		return err
	}

	now := time.Now()
	p := &domain.Personnel{
		ID:        uuid.NewString(),
		RG:        s.config.AdminRG,
		Name:      "System Administrator",
		RankID:    rank.ID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.personnelRepo.Create(ctx, p); err != nil {
		return err
	}

	return s.createAdminUser(ctx, p.ID)
}

func (s *Seeder) createAdminUser(ctx context.Context, personnelID string) error {
	hash, err := s.hasher.Hash(s.config.AdminPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		MilitaryID:   personnelID,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	s.log.Info("admin account seeded", zap.String("user_id", user.ID))
	return nil
}
