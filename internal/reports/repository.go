package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository reads aggregation inputs from PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository creates a PGRepository backed by the given pool.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// MenuCosts loads menu totals with menu_date in [from, to), optionally
// filtered by menu type.
func (r *PGRepository) MenuCosts(ctx context.Context, from, to time.Time, menuTypeID *int64) ([]MenuCost, error) {
	query := `
		SELECT m.menu_date, m.menu_type_id, mt.name, m.total_cost
		FROM daily_menus m
		LEFT JOIN menu_types mt ON mt.id = m.menu_type_id
		WHERE m.menu_date >= $1 AND m.menu_date < $2
	`
	args := []any{from, to}
	if menuTypeID != nil {
		query += ` AND m.menu_type_id = $3`
		args = append(args, *menuTypeID)
	}
	query += ` ORDER BY m.menu_date`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reports: menu costs: %w", err)
	}
	defer rows.Close()

	var costs []MenuCost
	for rows.Next() {
		var c MenuCost
		if err := rows.Scan(&c.MenuDate, &c.MenuTypeID, &c.MenuTypeName, &c.TotalCost); err != nil {
			return nil, fmt.Errorf("reports: scan menu cost: %w", err)
		}
		costs = append(costs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reports: menu cost rows: %w", err)
	}
	return costs, nil
}

// CategoryTotals sums frozen ingredient costs per product category over a
// date range, optionally filtered by menu type.
func (r *PGRepository) CategoryTotals(ctx context.Context, from, to time.Time, menuTypeID *int64) ([]CategoryTotal, error) {
	query := `
		SELECT c.name, SUM(mi.cost)
		FROM menu_ingredients mi
		JOIN daily_menus m ON m.id = mi.menu_id
		JOIN products p ON p.id = mi.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE m.menu_date >= $1 AND m.menu_date < $2
	`
	args := []any{from, to}
	if menuTypeID != nil {
		query += ` AND m.menu_type_id = $3`
		args = append(args, *menuTypeID)
	}
	query += ` GROUP BY c.name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reports: category totals: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var t CategoryTotal
		if err := rows.Scan(&t.Name, &t.Total); err != nil {
			return nil, fmt.Errorf("reports: scan category total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reports: category total rows: %w", err)
	}
	return totals, nil
}
