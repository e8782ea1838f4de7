package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/merenda-app/merenda/internal/masterdata/kits"
	"github.com/merenda-app/merenda/internal/masterdata/products"
	mdshared "github.com/merenda-app/merenda/internal/masterdata/shared"
	"github.com/merenda-app/merenda/internal/shared"
)

// Repository is the read/write port for menus.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*DailyMenu, error)
	FindIDByDateAndType(ctx context.Context, date time.Time, menuTypeID *int64) (int64, error)
	ListRange(ctx context.Context, from, to time.Time, menuTypeID *int64) ([]DailyMenu, error)
	FindKitLink(ctx context.Context, menuID, kitID int64) (int64, error)
	Create(ctx context.Context, m DailyMenu) (*DailyMenu, error)
	UpdateDescription(ctx context.Context, id int64, description string) error
	Delete(ctx context.Context, id int64) error
}

// TxPort runs line mutations together with the total recompute.
type TxPort interface {
	AddIngredient(ctx context.Context, ing Ingredient) (int64, float64, error)
	RemoveIngredient(ctx context.Context, menuID, lineID int64) (float64, error)
	AddKit(ctx context.Context, link KitLink) (float64, error)
	RemoveKit(ctx context.Context, menuID, linkID int64) (float64, error)
	InsertCopy(ctx context.Context, m DailyMenu) (int64, error)
}

// ProductCatalog resolves products for cost snapshots. Satisfied by the
// masterdata products service.
type ProductCatalog interface {
	Get(ctx context.Context, id int64) (products.Product, error)
}

// KitCatalog resolves kits for cost snapshots.
type KitCatalog interface {
	Get(ctx context.Context, id int64) (kits.Kit, error)
}

// CacheInvalidator bumps the report cache version after any menu mutation.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// Auditor records mutating operations.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service implements menu planning operations.
type Service struct {
	logger   *slog.Logger
	repo     Repository
	tx       TxPort
	products ProductCatalog
	kits     KitCatalog
	cache    CacheInvalidator
	audit    Auditor
}

// NewService wires a menu Service.
func NewService(logger *slog.Logger, repo Repository, tx TxPort, prods ProductCatalog, kitCatalog KitCatalog, cache CacheInvalidator, audit Auditor) *Service {
	return &Service{
		logger:   logger,
		repo:     repo,
		tx:       tx,
		products: prods,
		kits:     kitCatalog,
		cache:    cache,
		audit:    audit,
	}
}

// MonthMenus returns the menus of one month, optionally filtered by type,
// with nested lines loaded.
func (s *Service) MonthMenus(ctx context.Context, year int, month time.Month, menuTypeID *int64) ([]DailyMenu, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return s.repo.ListRange(ctx, from, from.AddDate(0, 1, 0), menuTypeID)
}

// GetMenu loads one menu with its lines.
func (s *Service) GetMenu(ctx context.Context, id int64) (*DailyMenu, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.repo.FindByID(ctx, id)
}

// CreateInput carries the fields for a new menu.
type CreateInput struct {
	Date        time.Time
	MenuTypeID  *int64
	Description string
	ActorID     int64
}

// CreateMenu inserts an empty menu for a date and type. The slot must be
// free; occupied slots return ErrConflict.
func (s *Service) CreateMenu(ctx context.Context, in CreateInput) (*DailyMenu, error) {
	if _, err := s.repo.FindIDByDateAndType(ctx, in.Date, in.MenuTypeID); err == nil {
		return nil, conflictError(in.Date, in.MenuTypeID)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	created, err := s.repo.Create(ctx, DailyMenu{
		MenuDate:    in.Date,
		MenuTypeID:  in.MenuTypeID,
		Description: in.Description,
		CreatedBy:   &in.ActorID,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.record(ctx, in.ActorID, shared.AuditMenuCreate, created.ID, map[string]any{"menu_date": created.DateKey()})
	return created, nil
}

// UpdateMenu changes a menu description.
func (s *Service) UpdateMenu(ctx context.Context, id int64, description string, actorID int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if err := s.repo.UpdateDescription(ctx, id, description); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.record(ctx, actorID, shared.AuditMenuUpdate, id, nil)
	return nil
}

// DeleteMenu removes a menu and its lines.
func (s *Service) DeleteMenu(ctx context.Context, id int64, actorID int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.record(ctx, actorID, shared.AuditMenuDelete, id, nil)
	return nil
}

// AddIngredient puts a product on a menu. The line cost is the per-capita
// quantity times the current product price, frozen from then on. Returns the
// stored line and the new menu total.
func (s *Service) AddIngredient(ctx context.Context, menuID, productID int64, perCapita float64, actorID int64) (Ingredient, float64, error) {
	if menuID <= 0 {
		return Ingredient{}, 0, ErrInvalidID
	}
	if perCapita <= 0 {
		return Ingredient{}, 0, ErrInvalidQuantity
	}
	if _, err := s.repo.FindByID(ctx, menuID); err != nil {
		return Ingredient{}, 0, err
	}
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, mdshared.ErrNotFound) || errors.Is(err, mdshared.ErrInvalidID) {
			return Ingredient{}, 0, ErrProductNotFound
		}
		return Ingredient{}, 0, err
	}

	ing := Ingredient{
		MenuID:      menuID,
		ProductID:   productID,
		PerCapita:   perCapita,
		Cost:        perCapita * product.Price,
		ProductName: product.Name,
		Unit:        product.Unit,
	}
	lineID, total, err := s.tx.AddIngredient(ctx, ing)
	if err != nil {
		return Ingredient{}, 0, err
	}
	ing.ID = lineID
	s.invalidate(ctx)
	s.record(ctx, actorID, shared.AuditMenuUpdate, menuID, map[string]any{"ingredient_added": productID})
	return ing, total, nil
}

// RemoveIngredient deletes a line and returns the new menu total.
func (s *Service) RemoveIngredient(ctx context.Context, menuID, lineID int64, actorID int64) (float64, error) {
	if menuID <= 0 || lineID <= 0 {
		return 0, ErrInvalidID
	}
	total, err := s.tx.RemoveIngredient(ctx, menuID, lineID)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	s.record(ctx, actorID, shared.AuditMenuUpdate, menuID, map[string]any{"ingredient_removed": lineID})
	return total, nil
}

// ToggleKit links the kit when absent and unlinks it when present. On link,
// the kit price of this moment is frozen on the row. Returns whether the kit
// is attached after the call, plus the new total.
func (s *Service) ToggleKit(ctx context.Context, menuID, kitID int64, actorID int64) (bool, float64, error) {
	if menuID <= 0 || kitID <= 0 {
		return false, 0, ErrInvalidID
	}
	if _, err := s.repo.FindByID(ctx, menuID); err != nil {
		return false, 0, err
	}

	linkID, err := s.repo.FindKitLink(ctx, menuID, kitID)
	switch {
	case err == nil:
		total, err := s.tx.RemoveKit(ctx, menuID, linkID)
		if err != nil {
			return false, 0, err
		}
		s.invalidate(ctx)
		s.record(ctx, actorID, shared.AuditMenuUpdate, menuID, map[string]any{"kit_removed": kitID})
		return false, total, nil
	case errors.Is(err, ErrLineNotFound):
		kit, err := s.kits.Get(ctx, kitID)
		if err != nil {
			if errors.Is(err, mdshared.ErrNotFound) || errors.Is(err, mdshared.ErrInvalidID) {
				return false, 0, ErrKitNotFound
			}
			return false, 0, err
		}
		total, err := s.tx.AddKit(ctx, KitLink{MenuID: menuID, KitID: kitID, Cost: kit.Price, KitName: kit.Name})
		if err != nil {
			return false, 0, err
		}
		s.invalidate(ctx)
		s.record(ctx, actorID, shared.AuditMenuUpdate, menuID, map[string]any{"kit_added": kitID})
		return true, total, nil
	default:
		return false, 0, err
	}
}

func conflictError(date time.Time, menuTypeID *int64) error {
	if menuTypeID == nil {
		return fmt.Errorf("%w: %s", ErrConflict, date.Format("2006-01-02"))
	}
	return fmt.Errorf("%w: %s (menu type %d)", ErrConflict, date.Format("2006-01-02"), *menuTypeID)
}

// invalidate bumps the report cache version. Failure never blocks the
// mutation; the cache expires on its own TTL.
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("report cache bump failed", slog.Any("error", err))
	}
}

func (s *Service) record(ctx context.Context, actorID int64, action string, menuID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "daily_menu",
		EntityID: strconv.FormatInt(menuID, 10),
		Meta:     meta,
	})
	if err != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
