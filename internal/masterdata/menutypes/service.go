package menutypes

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

func (s *Service) List(ctx context.Context) ([]MenuType, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (MenuType, error) {
	if id <= 0 {
		return MenuType{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, mt MenuType) (MenuType, error) {
	if err := s.validate(mt); err != nil {
		return MenuType{}, err
	}
	return s.repo.Create(ctx, mt)
}

func (s *Service) Update(ctx context.Context, id int64, mt MenuType) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.validate(mt); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, mt)
}

// Delete removes a menu type. Deletion is refused while any daily menu still
// references the type.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	inUse, err := s.repo.HasMenus(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrInUse
	}
	return s.repo.Delete(ctx, id)
}
