package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/dto"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/repository"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/logger"
)

// PersonnelService defines registry operations for force members
type PersonnelService interface {
	Create(ctx context.Context, req *dto.CreatePersonnelRequest) (*domain.Personnel, error)
	GetByID(ctx context.Context, id string) (*domain.Personnel, error)
	List(ctx context.Context) ([]*domain.Personnel, error)
	Update(ctx context.Context, id string, req *dto.UpdatePersonnelRequest) (*domain.Personnel, error)
	Delete(ctx context.Context, id string) error
}

type personnelService struct {
	personnelRepo repository.PersonnelRepository
	rankRepo      repository.RankRepository
	log           *zap.Logger
}

// NewPersonnelService creates a new PersonnelService
func NewPersonnelService(personnelRepo repository.PersonnelRepository, rankRepo repository.RankRepository) PersonnelService {
	return &personnelService{
		personnelRepo: personnelRepo,
		rankRepo:      rankRepo,
		log:           logger.Get().Named("personnel"),
	}
}

// Create registers a new force member
func (s *personnelService) Create(ctx context.Context, req *dto.CreatePersonnelRequest) (*domain.Personnel, error) {
	rg := dto.SanitizeRG(req.RG)
	if ok, _ := dto.ValidateRG(rg); !ok {
		return nil, domain.ErrInvalidRG
	}

	if _, err := s.rankRepo.FindByID(ctx, req.RankID); err != nil {
		return nil, err
	}

	if _, err := s.personnelRepo.FindByRG(ctx, rg); err == nil {
		return nil, domain.ErrDuplicateRG
	} else if !errors.Is(err, domain.ErrPersonnelNotFound) {
		return nil, err
	}

	now := time.Now()
	p := &domain.Personnel{
		ID:        uuid.NewString(),
		RG:        rg,
		Name:      dto.SanitizeName(req.Name),
		RankID:    req.RankID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.personnelRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("personnel registered", zap.String("id", p.ID))
	return s.personnelRepo.FindByID(ctx, p.ID)
}

// GetByID retrieves a force member
func (s *personnelService) GetByID(ctx context.Context, id string) (*domain.Personnel, error) {
	return s.personnelRepo.FindByID(ctx, id)
}

// List retrieves all force members
func (s *personnelService) List(ctx context.Context) ([]*domain.Personnel, error) {
	return s.personnelRepo.List(ctx)
}

// Update modifies a force member record. Zero-value fields are left as-is.
func (s *personnelService) Update(ctx context.Context, id string, req *dto.UpdatePersonnelRequest) (*domain.Personnel, error) {
	p, err := s.personnelRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		p.Name = dto.SanitizeName(req.Name)
	}
	if req.RankID != "" {
		if _, err := s.rankRepo.FindByID(ctx, req.RankID); err != nil {
			return nil, err
		}
		p.RankID = req.RankID
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.personnelRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	return s.personnelRepo.FindByID(ctx, id)
}

// Delete removes a force member record
func (s *personnelService) Delete(ctx context.Context, id string) error {
	if err := s.personnelRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("personnel removed", zap.String("id", id))
	return nil
}
