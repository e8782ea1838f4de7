package kits

import (
	"context"

	"github.com/merenda-app/merenda/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Kit, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Kit, error) {
	if id <= 0 {
		return Kit{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, kit Kit) (Kit, error) {
	if err := s.validate(kit); err != nil {
		return Kit{}, err
	}
	return s.repo.Create(ctx, kit)
}

func (s *Service) Update(ctx context.Context, id int64, kit Kit) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.validate(kit); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, kit)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}
