package kits

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
	List(ctx context.Context, filters shared.ListFilters) ([]Kit, int, error)
	Get(ctx context.Context, id int64) (Kit, error)
	Create(ctx context.Context, kit Kit) (Kit, error)
	Update(ctx context.Context, id int64, kit Kit) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Kit, int, error) {
	query := `SELECT id, name, price, is_default, created_at, updated_at FROM kits WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM kits WHERE 1=1`
	args := []interface{}{}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		clause := ` AND name ILIKE $` + strconv.Itoa(len(args))
		query += clause
		countQuery += clause
	}
	if filters.IsDefault != nil {
		args = append(args, *filters.IsDefault)
		clause := ` AND is_default = $` + strconv.Itoa(len(args))
		query += clause
		countQuery += clause
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Kit
	for rows.Next() {
		var k Kit
		if err := rows.Scan(&k.ID, &k.Name, &k.Price, &k.IsDefault, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, k)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Kit, error) {
	var k Kit
	err := r.db.QueryRow(ctx, `SELECT id, name, price, is_default, created_at, updated_at FROM kits WHERE id = $1`, id).
		Scan(&k.ID, &k.Name, &k.Price, &k.IsDefault, &k.CreatedAt, &k.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Kit{}, shared.ErrNotFound
	}
	return k, err
}

func (r *repository) Create(ctx context.Context, kit Kit) (Kit, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx,
		`INSERT INTO kits (name, price, is_default, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		kit.Name, kit.Price, kit.IsDefault, now, now).Scan(&kit.ID)
	if err != nil {
		return Kit{}, err
	}
	kit.CreatedAt = now
	kit.UpdatedAt = now
	return kit, nil
}

func (r *repository) Update(ctx context.Context, id int64, kit Kit) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE kits SET name = $1, price = $2, is_default = $3, updated_at = $4 WHERE id = $5`,
		kit.Name, kit.Price, kit.IsDefault, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM kits WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
