package menu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository persists menus in PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository creates a PGRepository backed by the given pool.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const menuColumns = `
	m.id, m.menu_date, m.menu_type_id, mt.name, m.description,
	m.total_cost, m.created_by, m.created_at, m.updated_at
`

func scanMenu(row pgx.Row) (DailyMenu, error) {
	var m DailyMenu
	err := row.Scan(
		&m.ID, &m.MenuDate, &m.MenuTypeID, &m.MenuTypeName, &m.Description,
		&m.TotalCost, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

// FindByID loads one menu with its ingredient and kit lines.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*DailyMenu, error) {
	query := `
		SELECT ` + menuColumns + `
		FROM daily_menus m
		LEFT JOIN menu_types mt ON mt.id = m.menu_type_id
		WHERE m.id = $1
	`
	m, err := scanMenu(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("menu: find by id: %w", err)
	}
	if err := r.loadLines(ctx, map[int64]*DailyMenu{m.ID: &m}); err != nil {
		return nil, err
	}
	return &m, nil
}

// FindIDByDateAndType returns the menu ID occupying (date, type), or
// ErrNotFound. A nil menuTypeID matches menus without a type.
func (r *PGRepository) FindIDByDateAndType(ctx context.Context, date time.Time, menuTypeID *int64) (int64, error) {
	query := `
		SELECT id FROM daily_menus
		WHERE menu_date = $1 AND menu_type_id IS NOT DISTINCT FROM $2
	`
	var id int64
	if err := r.pool.QueryRow(ctx, query, date, menuTypeID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("menu: find by date and type: %w", err)
	}
	return id, nil
}

// ListRange loads menus with menu_date in [from, to), optionally filtered by
// menu type, with nested lines. Results are ordered by date.
func (r *PGRepository) ListRange(ctx context.Context, from, to time.Time, menuTypeID *int64) ([]DailyMenu, error) {
	query := `
		SELECT ` + menuColumns + `
		FROM daily_menus m
		LEFT JOIN menu_types mt ON mt.id = m.menu_type_id
		WHERE m.menu_date >= $1 AND m.menu_date < $2
	`
	args := []any{from, to}
	if menuTypeID != nil {
		query += ` AND m.menu_type_id = $3`
		args = append(args, *menuTypeID)
	}
	query += ` ORDER BY m.menu_date, m.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("menu: list range: %w", err)
	}
	defer rows.Close()

	var menus []DailyMenu
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("menu: scan menu: %w", err)
		}
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("menu: list range rows: %w", err)
	}

	index := make(map[int64]*DailyMenu, len(menus))
	for i := range menus {
		index[menus[i].ID] = &menus[i]
	}
	if err := r.loadLines(ctx, index); err != nil {
		return nil, err
	}
	return menus, nil
}

// loadLines attaches ingredient and kit lines to the indexed menus.
func (r *PGRepository) loadLines(ctx context.Context, menus map[int64]*DailyMenu) error {
	if len(menus) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(menus))
	for id := range menus {
		ids = append(ids, id)
	}

	ingQuery := `
		SELECT mi.id, mi.menu_id, mi.product_id, mi.per_capita, mi.cost,
		       p.name, p.unit, c.name
		FROM menu_ingredients mi
		JOIN products p ON p.id = mi.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE mi.menu_id = ANY($1)
		ORDER BY mi.id
	`
	rows, err := r.pool.Query(ctx, ingQuery, ids)
	if err != nil {
		return fmt.Errorf("menu: load ingredients: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ID, &ing.MenuID, &ing.ProductID, &ing.PerCapita, &ing.Cost, &ing.ProductName, &ing.Unit, &ing.CategoryName); err != nil {
			return fmt.Errorf("menu: scan ingredient: %w", err)
		}
		if m, ok := menus[ing.MenuID]; ok {
			m.Ingredients = append(m.Ingredients, ing)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("menu: ingredient rows: %w", err)
	}

	kitQuery := `
		SELECT mk.id, mk.menu_id, mk.kit_id, mk.cost, k.name
		FROM menu_kits mk
		JOIN kits k ON k.id = mk.kit_id
		WHERE mk.menu_id = ANY($1)
		ORDER BY mk.id
	`
	kitRows, err := r.pool.Query(ctx, kitQuery, ids)
	if err != nil {
		return fmt.Errorf("menu: load kits: %w", err)
	}
	defer kitRows.Close()
	for kitRows.Next() {
		var link KitLink
		if err := kitRows.Scan(&link.ID, &link.MenuID, &link.KitID, &link.Cost, &link.KitName); err != nil {
			return fmt.Errorf("menu: scan kit link: %w", err)
		}
		if m, ok := menus[link.MenuID]; ok {
			m.Kits = append(m.Kits, link)
		}
	}
	if err := kitRows.Err(); err != nil {
		return fmt.Errorf("menu: kit rows: %w", err)
	}
	return nil
}

// FindKitLink returns the link ID for (menu, kit), or ErrLineNotFound.
func (r *PGRepository) FindKitLink(ctx context.Context, menuID, kitID int64) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM menu_kits WHERE menu_id = $1 AND kit_id = $2`, menuID, kitID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrLineNotFound
		}
		return 0, fmt.Errorf("menu: find kit link: %w", err)
	}
	return id, nil
}

// Create inserts an empty menu and returns it.
func (r *PGRepository) Create(ctx context.Context, m DailyMenu) (*DailyMenu, error) {
	query := `
		INSERT INTO daily_menus (menu_date, menu_type_id, description, total_cost, created_by)
		VALUES ($1, $2, $3, 0, $4)
		RETURNING id, total_cost, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, m.MenuDate, m.MenuTypeID, m.Description, m.CreatedBy).
		Scan(&m.ID, &m.TotalCost, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("menu: create: %w", err)
	}
	return &m, nil
}

// UpdateDescription changes a menu description.
func (r *PGRepository) UpdateDescription(ctx context.Context, id int64, description string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE daily_menus SET description = $1, updated_at = NOW() WHERE id = $2`, description, id)
	if err != nil {
		return fmt.Errorf("menu: update description: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a menu. Line items cascade at the database level.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM daily_menus WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("menu: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
