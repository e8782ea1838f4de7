package products

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/merenda-app/merenda/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]WithCategory, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id int64, product Product) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]WithCategory, int, error) {
	query := `SELECT p.id, p.name, p.category_id, p.unit, p.price, p.price_updated_at, p.created_at, p.updated_at, c.name
		FROM products p LEFT JOIN categories c ON c.id = p.category_id WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM products p WHERE 1=1`
	args := []interface{}{}
	countArgs := []interface{}{}

	if filters.CategoryID != nil {
		args = append(args, *filters.CategoryID)
		countArgs = append(countArgs, *filters.CategoryID)
		query += ` AND p.category_id = $` + strconv.Itoa(len(args))
		countQuery += ` AND p.category_id = $` + strconv.Itoa(len(countArgs))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		countArgs = append(countArgs, "%"+filters.Search+"%")
		query += ` AND p.name ILIKE $` + strconv.Itoa(len(args))
		countQuery += ` AND p.name ILIKE $` + strconv.Itoa(len(countArgs))
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filters.Offset())
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []WithCategory
	for rows.Next() {
		var p WithCategory
		if err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &p.Unit, &p.Price, &p.PriceUpdatedAt, &p.CreatedAt, &p.UpdatedAt, &p.CategoryName); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.db.QueryRow(ctx,
		`SELECT id, name, category_id, unit, price, price_updated_at, created_at, updated_at FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.CategoryID, &p.Unit, &p.Price, &p.PriceUpdatedAt, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (name, category_id, unit, price, price_updated_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		product.Name, product.CategoryID, product.Unit, product.Price, now, now, now).Scan(&product.ID)
	if err != nil {
		return Product{}, err
	}
	product.PriceUpdatedAt = now
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

// Update persists product fields. price_updated_at is stamped only when the
// price actually changes; frozen menu line costs rely on that timestamp.
func (r *repository) Update(ctx context.Context, id int64, product Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET
			name = $1,
			category_id = $2,
			unit = $3,
			price_updated_at = CASE WHEN price IS DISTINCT FROM $4 THEN NOW() ELSE price_updated_at END,
			price = $4,
			updated_at = NOW()
		 WHERE id = $5`,
		product.Name, product.CategoryID, product.Unit, product.Price, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == shared.SortDesc {
		dir = "DESC"
	}
	switch sortBy {
	case "price":
		return "p.price " + dir
	case "price_updated_at":
		return "p.price_updated_at " + dir
	case "created_at":
		return "p.created_at " + dir
	default:
		return "p.name " + dir
	}
}
