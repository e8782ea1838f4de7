package menu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/merenda-app/merenda/internal/shared"
)

// ItemFailure reports one menu the batch duplication could not copy.
type ItemFailure struct {
	SourceMenuID int64  `json:"source_menu_id"`
	MenuDate     string `json:"menu_date"`
	Reason       string `json:"reason"`
}

// DuplicationResult summarises a menu type duplication run.
type DuplicationResult struct {
	Duplicated int           `json:"duplicated"`
	Skipped    int           `json:"skipped"`
	Failed     []ItemFailure `json:"failed,omitempty"`
}

// DuplicateMenu copies one menu to a target date, optionally switching the
// menu type. Description, total and every line with its frozen cost are
// copied verbatim in one transaction. An occupied target slot returns
// ErrConflict and creates nothing.
func (s *Service) DuplicateMenu(ctx context.Context, sourceID int64, targetDate time.Time, targetTypeID *int64, actorID int64) (*DailyMenu, error) {
	if sourceID <= 0 {
		return nil, ErrInvalidID
	}
	source, err := s.repo.FindByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	typeID := source.MenuTypeID
	if targetTypeID != nil {
		typeID = targetTypeID
	}
	if _, err := s.repo.FindIDByDateAndType(ctx, targetDate, typeID); err == nil {
		return nil, conflictError(targetDate, typeID)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	copyID, err := s.tx.InsertCopy(ctx, DailyMenu{
		MenuDate:    targetDate,
		MenuTypeID:  typeID,
		Description: source.Description,
		TotalCost:   source.TotalCost,
		CreatedBy:   &actorID,
		Ingredients: source.Ingredients,
		Kits:        source.Kits,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.record(ctx, actorID, shared.AuditMenuDuplicate, copyID, map[string]any{
		"source_menu_id": sourceID,
		"target_date":    targetDate.Format("2006-01-02"),
	})
	return s.repo.FindByID(ctx, copyID)
}

// DuplicateMenuType copies every menu of the source type in one month onto
// the target type. Each menu copies in its own transaction: occupied slots
// are skipped, copy errors are collected, and the batch always runs to the
// end. A month with no source menus returns ErrNoSourceMenus.
func (s *Service) DuplicateMenuType(ctx context.Context, sourceTypeID, targetTypeID int64, year int, month time.Month, actorID int64) (DuplicationResult, error) {
	var result DuplicationResult
	if sourceTypeID <= 0 || targetTypeID <= 0 {
		return result, ErrInvalidID
	}
	if sourceTypeID == targetTypeID {
		return result, ErrSameTypeTarget
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	sources, err := s.repo.ListRange(ctx, from, from.AddDate(0, 1, 0), &sourceTypeID)
	if err != nil {
		return result, err
	}
	if len(sources) == 0 {
		return result, ErrNoSourceMenus
	}

	for _, source := range sources {
		_, err := s.repo.FindIDByDateAndType(ctx, source.MenuDate, &targetTypeID)
		if err == nil {
			result.Skipped++
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			result.Failed = append(result.Failed, newItemFailure(source, err))
			continue
		}

		_, err = s.tx.InsertCopy(ctx, DailyMenu{
			MenuDate:    source.MenuDate,
			MenuTypeID:  &targetTypeID,
			Description: source.Description,
			TotalCost:   source.TotalCost,
			CreatedBy:   &actorID,
			Ingredients: source.Ingredients,
			Kits:        source.Kits,
		})
		if err != nil {
			result.Failed = append(result.Failed, newItemFailure(source, err))
			continue
		}
		result.Duplicated++
	}

	s.invalidate(ctx)
	s.record(ctx, actorID, shared.AuditMenuTypeDuplicate, targetTypeID, map[string]any{
		"source_type_id": sourceTypeID,
		"month":          fmt.Sprintf("%04d-%02d", year, int(month)),
		"duplicated":     result.Duplicated,
		"skipped":        result.Skipped,
		"failed":         len(result.Failed),
	})
	return result, nil
}

func newItemFailure(source DailyMenu, err error) ItemFailure {
	return ItemFailure{
		SourceMenuID: source.ID,
		MenuDate:     source.DateKey(),
		Reason:       err.Error(),
	}
}
