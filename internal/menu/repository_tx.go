package menu

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/merenda-app/merenda/internal/platform/db"
)

// TxRepository runs line mutations and the total recompute in a single
// transaction, so a stored total never disagrees with the lines it covers.
type TxRepository struct {
	pool *pgxpool.Pool
}

// NewTxRepository creates a TxRepository backed by the given pool.
func NewTxRepository(pool *pgxpool.Pool) *TxRepository {
	return &TxRepository{pool: pool}
}

// AddIngredient inserts a line and refreshes the menu total. Returns the new
// line ID and the recomputed total.
func (t *TxRepository) AddIngredient(ctx context.Context, ing Ingredient) (int64, float64, error) {
	var lineID int64
	var total float64
	err := db.WithTx(ctx, t.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO menu_ingredients (menu_id, product_id, per_capita, cost)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		if err := tx.QueryRow(ctx, query, ing.MenuID, ing.ProductID, ing.PerCapita, ing.Cost).Scan(&lineID); err != nil {
			return fmt.Errorf("menu: insert ingredient: %w", err)
		}
		var err error
		total, err = refreshTotal(ctx, tx, ing.MenuID)
		return err
	})
	return lineID, total, err
}

// RemoveIngredient deletes a line and refreshes the menu total.
func (t *TxRepository) RemoveIngredient(ctx context.Context, menuID, lineID int64) (float64, error) {
	var total float64
	err := db.WithTx(ctx, t.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM menu_ingredients WHERE id = $1 AND menu_id = $2`, lineID, menuID)
		if err != nil {
			return fmt.Errorf("menu: delete ingredient: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrLineNotFound
		}
		total, err = refreshTotal(ctx, tx, menuID)
		return err
	})
	return total, err
}

// AddKit links a kit and refreshes the menu total.
func (t *TxRepository) AddKit(ctx context.Context, link KitLink) (float64, error) {
	var total float64
	err := db.WithTx(ctx, t.pool, func(tx pgx.Tx) error {
		query := `INSERT INTO menu_kits (menu_id, kit_id, cost) VALUES ($1, $2, $3)`
		if _, err := tx.Exec(ctx, query, link.MenuID, link.KitID, link.Cost); err != nil {
			return fmt.Errorf("menu: insert kit link: %w", err)
		}
		var err error
		total, err = refreshTotal(ctx, tx, link.MenuID)
		return err
	})
	return total, err
}

// RemoveKit unlinks a kit and refreshes the menu total.
func (t *TxRepository) RemoveKit(ctx context.Context, menuID, linkID int64) (float64, error) {
	var total float64
	err := db.WithTx(ctx, t.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM menu_kits WHERE id = $1 AND menu_id = $2`, linkID, menuID)
		if err != nil {
			return fmt.Errorf("menu: delete kit link: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrLineNotFound
		}
		total, err = refreshTotal(ctx, tx, menuID)
		return err
	})
	return total, err
}

// InsertCopy writes a full menu copy (menu row plus every line) in one
// transaction and returns the new menu ID. Totals and frozen costs come from
// the source, so no recompute happens here.
func (t *TxRepository) InsertCopy(ctx context.Context, m DailyMenu) (int64, error) {
	var menuID int64
	err := db.WithTx(ctx, t.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO daily_menus (menu_date, menu_type_id, description, total_cost, created_by)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		if err := tx.QueryRow(ctx, query, m.MenuDate, m.MenuTypeID, m.Description, m.TotalCost, m.CreatedBy).Scan(&menuID); err != nil {
			return fmt.Errorf("menu: insert copy: %w", err)
		}
		for _, ing := range m.Ingredients {
			_, err := tx.Exec(ctx,
				`INSERT INTO menu_ingredients (menu_id, product_id, per_capita, cost) VALUES ($1, $2, $3, $4)`,
				menuID, ing.ProductID, ing.PerCapita, ing.Cost)
			if err != nil {
				return fmt.Errorf("menu: copy ingredient: %w", err)
			}
		}
		for _, kit := range m.Kits {
			_, err := tx.Exec(ctx,
				`INSERT INTO menu_kits (menu_id, kit_id, cost) VALUES ($1, $2, $3)`,
				menuID, kit.KitID, kit.Cost)
			if err != nil {
				return fmt.Errorf("menu: copy kit link: %w", err)
			}
		}
		return nil
	})
	return menuID, err
}

// RecomputeTotal refreshes one menu total outside a line mutation. Used by
// the integrity job to repair drifted rows.
func (t *TxRepository) RecomputeTotal(ctx context.Context, menuID int64) (float64, error) {
	var total float64
	err := db.WithTx(ctx, t.pool, func(tx pgx.Tx) error {
		var err error
		total, err = refreshTotal(ctx, tx, menuID)
		return err
	})
	return total, err
}

// refreshTotal reloads line costs inside the transaction, applies TotalCost
// and persists the result.
func refreshTotal(ctx context.Context, tx pgx.Tx, menuID int64) (float64, error) {
	ingredients, kits, err := loadLineCosts(ctx, tx, menuID)
	if err != nil {
		return 0, err
	}
	total := TotalCost(ingredients, kits)
	tag, err := tx.Exec(ctx, `UPDATE daily_menus SET total_cost = $1, updated_at = NOW() WHERE id = $2`, total, menuID)
	if err != nil {
		return 0, fmt.Errorf("menu: persist total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, ErrNotFound
	}
	return total, nil
}

func loadLineCosts(ctx context.Context, tx pgx.Tx, menuID int64) ([]Ingredient, []KitLink, error) {
	rows, err := tx.Query(ctx, `SELECT cost FROM menu_ingredients WHERE menu_id = $1`, menuID)
	if err != nil {
		return nil, nil, fmt.Errorf("menu: load ingredient costs: %w", err)
	}
	defer rows.Close()
	var ingredients []Ingredient
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.Cost); err != nil {
			return nil, nil, fmt.Errorf("menu: scan ingredient cost: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("menu: ingredient cost rows: %w", err)
	}

	kitRows, err := tx.Query(ctx, `SELECT cost FROM menu_kits WHERE menu_id = $1`, menuID)
	if err != nil {
		return nil, nil, fmt.Errorf("menu: load kit costs: %w", err)
	}
	defer kitRows.Close()
	var kits []KitLink
	for kitRows.Next() {
		var link KitLink
		if err := kitRows.Scan(&link.Cost); err != nil {
			return nil, nil, fmt.Errorf("menu: scan kit cost: %w", err)
		}
		kits = append(kits, link)
	}
	if err := kitRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("menu: kit cost rows: %w", err)
	}
	return ingredients, kits, nil
}
