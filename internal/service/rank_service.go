package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/dto"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/repository"
)

// RankService defines operations on the rank catalog
type RankService interface {
	Create(ctx context.Context, req *dto.CreateRankRequest) (*domain.Rank, error)
	GetByID(ctx context.Context, id string) (*domain.Rank, error)
	List(ctx context.Context) ([]*domain.Rank, error)
	Delete(ctx context.Context, id string) error
}

type rankService struct {
	rankRepo repository.RankRepository
}

// NewRankService creates a new RankService
func NewRankService(rankRepo repository.RankRepository) RankService {
	return &rankService{rankRepo: rankRepo}
}

func (s *rankService) Create(ctx context.Context, req *dto.CreateRankRequest) (*domain.Rank, error) {
	now := time.Now()
	rank := &domain.Rank{
		ID:           uuid.NewString(),
		Name:         dto.SanitizeName(req.Name),
		Abbreviation: req.Abbreviation,
		Order:        req.Order,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.rankRepo.Create(ctx, rank); err != nil {
		return nil, err
	}
	return rank, nil
}

func (s *rankService) GetByID(ctx context.Context, id string) (*domain.Rank, error) {
	return s.rankRepo.FindByID(ctx, id)
}

func (s *rankService) List(ctx context.Context) ([]*domain.Rank, error) {
	return s.rankRepo.List(ctx)
}

func (s *rankService) Delete(ctx context.Context, id string) error {
	return s.rankRepo.Delete(ctx, id)
}
