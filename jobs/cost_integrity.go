package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/merenda-app/merenda/internal/jobs"
	"github.com/merenda-app/merenda/internal/menu"
)

// driftTolerance absorbs float accumulation noise when comparing a stored
// total against the line sum.
const driftTolerance = 0.005

// TotalFixer repairs one menu total inside a transaction.
type TotalFixer interface {
	RecomputeTotal(ctx context.Context, menuID int64) (float64, error)
}

// CacheBumper invalidates cached reports after repairs.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// CostIntegrityDeps collects what the integrity scan needs.
type CostIntegrityDeps struct {
	Pool    *pgxpool.Pool
	Fixer   TotalFixer
	Cache   CacheBumper
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewCostIntegrityHandler returns the asynq handler for TaskCostIntegrity.
// It compares every stored total with the clamped sum of its lines and
// recomputes the rows that drifted.
func NewCostIntegrityHandler(deps CostIntegrityDeps) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := deps.Metrics.Track(TaskCostIntegrity)
		var payload CostIntegrityPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return tracker.End(asynq.SkipRetry)
		}

		drifted, err := findDriftedMenus(ctx, deps.Pool, payload)
		if err != nil {
			return tracker.End(err)
		}
		if len(drifted) == 0 {
			deps.Logger.Info("cost integrity scan clean")
			return tracker.End(nil)
		}

		repaired := 0
		for _, id := range drifted {
			if _, err := deps.Fixer.RecomputeTotal(ctx, id); err != nil {
				deps.Logger.Error("cost integrity repair failed", slog.Int64("menu_id", id), slog.Any("error", err))
				continue
			}
			repaired++
		}
		deps.Logger.Warn("cost integrity repaired drifted totals",
			slog.Int("drifted", len(drifted)), slog.Int("repaired", repaired))

		if deps.Cache != nil && repaired > 0 {
			if err := deps.Cache.Bump(ctx); err != nil {
				deps.Logger.Warn("cost integrity cache bump failed", slog.Any("error", err))
			}
		}
		return tracker.End(nil)
	}
}

func findDriftedMenus(ctx context.Context, pool *pgxpool.Pool, payload CostIntegrityPayload) ([]int64, error) {
	query := `
		SELECT m.id, m.total_cost,
		       COALESCE((SELECT SUM(mi.cost) FROM menu_ingredients mi WHERE mi.menu_id = m.id), 0),
		       COALESCE((SELECT SUM(mk.cost) FROM menu_kits mk WHERE mk.menu_id = m.id), 0)
		FROM daily_menus m
	`
	var args []any
	if payload.Year > 0 && payload.Month >= 1 && payload.Month <= 12 {
		from := time.Date(payload.Year, time.Month(payload.Month), 1, 0, 0, 0, 0, time.UTC)
		query += ` WHERE m.menu_date >= $1 AND m.menu_date < $2`
		args = append(args, from, from.AddDate(0, 1, 0))
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drifted []int64
	for rows.Next() {
		var id int64
		var stored, ingredientSum, kitSum float64
		if err := rows.Scan(&id, &stored, &ingredientSum, &kitSum); err != nil {
			return nil, err
		}
		expected := menu.TotalCost([]menu.Ingredient{{Cost: ingredientSum}}, []menu.KitLink{{Cost: kitSum}})
		if math.Abs(stored-expected) > driftTolerance {
			drifted = append(drifted, id)
		}
	}
	return drifted, rows.Err()
}
