package reports

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Repository is the aggregation input port.
type Repository interface {
	MenuCosts(ctx context.Context, from, to time.Time, menuTypeID *int64) ([]MenuCost, error)
	CategoryTotals(ctx context.Context, from, to time.Time, menuTypeID *int64) ([]CategoryTotal, error)
}

// MonthlyReport combines the month summary with its category breakdown.
type MonthlyReport struct {
	Stats      MonthlyStats    `json:"stats"`
	Categories []CategorySlice `json:"categories"`
}

// Service coordinates report query execution with the cache layer.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService wires a Repository with a Cache helper.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Monthly builds the month report, served from cache while the version holds.
func (s *Service) Monthly(ctx context.Context, year int, month time.Month, menuTypeID *int64) (MonthlyReport, error) {
	var report MonthlyReport
	if month < time.January || month > time.December {
		return report, fmt.Errorf("reports: invalid month %d", month)
	}
	key, err := s.cache.BuildKey(ctx, keyMonthly(year, int(month), menuTypeID))
	if err != nil {
		return report, err
	}
	err = s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
		return s.loadMonthly(ctx, year, month, menuTypeID)
	})
	return report, err
}

func (s *Service) loadMonthly(ctx context.Context, year int, month time.Month, menuTypeID *int64) (MonthlyReport, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var (
		costs  []MenuCost
		totals []CategoryTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		costs, err = s.repo.MenuCosts(gctx, from, to, menuTypeID)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.repo.CategoryTotals(gctx, from, to, menuTypeID)
		return err
	})
	if err := g.Wait(); err != nil {
		return MonthlyReport{}, err
	}
	return MonthlyReport{
		Stats:      ComputeMonthly(year, month, costs),
		Categories: BreakdownByCategory(totals),
	}, nil
}

// Compare profiles every menu type over [from, to).
func (s *Service) Compare(ctx context.Context, from, to time.Time) ([]TypeComparison, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("reports: empty range %s..%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	key, err := s.cache.BuildKey(ctx, keyCompare(from.Format("2006-01-02"), to.Format("2006-01-02")))
	if err != nil {
		return nil, err
	}
	var result []TypeComparison
	err = s.cache.FetchJSON(ctx, key, &result, func(ctx context.Context) (interface{}, error) {
		costs, err := s.repo.MenuCosts(ctx, from, to, nil)
		if err != nil {
			return nil, err
		}
		return CompareTypes(costs), nil
	})
	return result, err
}

// Annual builds the year report with per-month stats and extremes.
func (s *Service) Annual(ctx context.Context, year int, menuTypeID *int64) (AnnualReport, error) {
	key, err := s.cache.BuildKey(ctx, keyAnnual(year, menuTypeID))
	if err != nil {
		return AnnualReport{}, err
	}
	var report AnnualReport
	err = s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		costs, err := s.repo.MenuCosts(ctx, from, from.AddDate(1, 0, 0), menuTypeID)
		if err != nil {
			return nil, err
		}
		return ComputeAnnual(year, costs), nil
	})
	return report, err
}
