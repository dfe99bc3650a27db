package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/dto"
)

// mockRankRepository is a mock implementation of RankRepository
type mockRankRepository struct {
	ranks map[string]*domain.Rank
}

func newMockRankRepository() *mockRankRepository {
	return &mockRankRepository{ranks: make(map[string]*domain.Rank)}
}

func (r *mockRankRepository) Create(ctx context.Context, rank *domain.Rank) error {
	r.ranks[rank.ID] = rank
	return nil
}

func (r *mockRankRepository) FindByID(ctx context.Context, id string) (*domain.Rank, error) {
	rank, ok := r.ranks[id]
	if !ok {
		return nil, domain.ErrRankNotFound
	}
	return rank, nil
}

func (r *mockRankRepository) FindByName(ctx context.Context, name string) (*domain.Rank, error) {
	for _, rank := range r.ranks {
		if rank.Name == name {
			return rank, nil
		}
	}
	return nil, domain.ErrRankNotFound
}

func (r *mockRankRepository) List(ctx context.Context) ([]*domain.Rank, error) {
	var result []*domain.Rank
	for _, rank := range r.ranks {
		result = append(result, rank)
	}
	return result, nil
}

func (r *mockRankRepository) Delete(ctx context.Context, id string) error {
	if _, ok := r.ranks[id]; !ok {
		return domain.ErrRankNotFound
	}
	delete(r.ranks, id)
	return nil
}

func newPersonnelFixture(t *testing.T) (PersonnelService, *mockPersonnelRepository, *mockRankRepository) {
	t.Helper()

	personnel := newMockPersonnelRepository()
	ranks := newMockRankRepository()

	rank := &domain.Rank{
		ID:           "rank-sgt",
		Name:         "Sergeant",
		Abbreviation: "SGT",
		Order:        5,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := ranks.Create(context.Background(), rank); err != nil {
		t.Fatalf("failed to seed rank: %v", err)
	}

	return NewPersonnelService(personnel, ranks), personnel, ranks
}

func TestPersonnelService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, _, _ := newPersonnelFixture(t)

		p, err := svc.Create(ctx, &dto.CreatePersonnelRequest{
			RG:     "12.345-6",
			Name:   "  Maria   Silva ",
			RankID: "rank-sgt",
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if p.RG != "123456" {
			t.Errorf("expected sanitized rg 123456, got %s", p.RG)
		}
		if p.Name != "Maria Silva" {
			t.Errorf("expected sanitized name, got %q", p.Name)
		}
		if !p.IsActive {
			t.Error("expected new personnel to be active")
		}
	})

	t.Run("malformed rg", func(t *testing.T) {
		svc, _, _ := newPersonnelFixture(t)

		_, err := svc.Create(ctx, &dto.CreatePersonnelRequest{
			RG:     "12",
			Name:   "Maria Silva",
			RankID: "rank-sgt",
		})
		if !errors.Is(err, domain.ErrInvalidRG) {
			t.Fatalf("expected ErrInvalidRG, got %v", err)
		}
	})

	t.Run("unknown rank", func(t *testing.T) {
		svc, _, _ := newPersonnelFixture(t)

		_, err := svc.Create(ctx, &dto.CreatePersonnelRequest{
			RG:     "123456",
			Name:   "Maria Silva",
			RankID: "rank-missing",
		})
		if !errors.Is(err, domain.ErrRankNotFound) {
			t.Fatalf("expected ErrRankNotFound, got %v", err)
		}
	})

	t.Run("duplicate rg", func(t *testing.T) {
		svc, _, _ := newPersonnelFixture(t)

		req := &dto.CreatePersonnelRequest{RG: "123456", Name: "Maria Silva", RankID: "rank-sgt"}
		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatalf("first create failed: %v", err)
		}

		_, err := svc.Create(ctx, req)
		if !errors.Is(err, domain.ErrDuplicateRG) {
			t.Fatalf("expected ErrDuplicateRG, got %v", err)
		}
	})
}

func TestPersonnelService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPersonnelFixture(t)

	created, err := svc.Create(ctx, &dto.CreatePersonnelRequest{
		RG:     "123456",
		Name:   "Maria Silva",
		RankID: "rank-sgt",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	inactive := false
	updated, err := svc.Update(ctx, created.ID, &dto.UpdatePersonnelRequest{
		Name:     "Maria Souza",
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Maria Souza" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
	if updated.IsActive {
		t.Error("expected personnel to be deactivated")
	}
	if updated.RankID != "rank-sgt" {
		t.Error("expected rank to be unchanged")
	}

	t.Run("unknown personnel", func(t *testing.T) {
		_, err := svc.Update(ctx, "missing", &dto.UpdatePersonnelRequest{Name: "X"})
		if !errors.Is(err, domain.ErrPersonnelNotFound) {
			t.Fatalf("expected ErrPersonnelNotFound, got %v", err)
		}
	})
}

func TestPersonnelService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPersonnelFixture(t)

	created, err := svc.Create(ctx, &dto.CreatePersonnelRequest{
		RG:     "123456",
		Name:   "Maria Silva",
		RankID: "rank-sgt",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, domain.ErrPersonnelNotFound) {
		t.Fatalf("expected ErrPersonnelNotFound after delete, got %v", err)
	}
}
