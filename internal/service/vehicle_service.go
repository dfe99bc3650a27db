package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/dto"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/repository"
)

// VehicleService defines operations on the fleet registry
type VehicleService interface {
	Create(ctx context.Context, req *dto.CreateVehicleRequest) (*domain.Vehicle, error)
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
	List(ctx context.Context) ([]*domain.Vehicle, error)
	Update(ctx context.Context, id string, req *dto.UpdateVehicleRequest) (*domain.Vehicle, error)
	Delete(ctx context.Context, id string) error
}

type vehicleService struct {
	vehicleRepo   repository.VehicleRepository
	personnelRepo repository.PersonnelRepository
}

// NewVehicleService creates a new VehicleService
func NewVehicleService(vehicleRepo repository.VehicleRepository, personnelRepo repository.PersonnelRepository) VehicleService {
	return &vehicleService{
		vehicleRepo:   vehicleRepo,
		personnelRepo: personnelRepo,
	}
}

func (s *vehicleService) Create(ctx context.Context, req *dto.CreateVehicleRequest) (*domain.Vehicle, error) {
	plate := dto.SanitizePlate(req.Plate)
	if ok, _ := dto.ValidatePlate(plate); !ok {
		return nil, domain.ErrInvalidPlate
	}

	if _, err := s.vehicleRepo.FindByPlate(ctx, plate); err == nil {
		return nil, domain.ErrDuplicatePlate
	} else if !errors.Is(err, domain.ErrVehicleNotFound) {
		return nil, err
	}

	if req.PersonnelID != "" {
		if _, err := s.personnelRepo.FindByID(ctx, req.PersonnelID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	v := &domain.Vehicle{
		ID:          uuid.NewString(),
		Plate:       plate,
		Model:       dto.SanitizeName(req.Model),
		PersonnelID: req.PersonnelID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.vehicleRepo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *vehicleService) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	return s.vehicleRepo.FindByID(ctx, id)
}

func (s *vehicleService) List(ctx context.Context) ([]*domain.Vehicle, error) {
	return s.vehicleRepo.List(ctx)
}

// Update modifies a vehicle. An empty personnel id unassigns the vehicle.
func (s *vehicleService) Update(ctx context.Context, id string, req *dto.UpdateVehicleRequest) (*domain.Vehicle, error) {
	v, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Model != "" {
		v.Model = dto.SanitizeName(req.Model)
	}
	if req.PersonnelID != "" {
		if _, err := s.personnelRepo.FindByID(ctx, req.PersonnelID); err != nil {
			return nil, err
		}
	}
	v.PersonnelID = req.PersonnelID

	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *vehicleService) Delete(ctx context.Context, id string) error {
	return s.vehicleRepo.Delete(ctx, id)
}
