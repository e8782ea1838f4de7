package menutypes

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/merenda-app/merenda/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context) ([]MenuType, error)
	Get(ctx context.Context, id int64) (MenuType, error)
	Create(ctx context.Context, mt MenuType) (MenuType, error)
	Update(ctx context.Context, id int64, mt MenuType) error
	Delete(ctx context.Context, id int64) error
	HasMenus(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]MenuType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM menu_types ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []MenuType
	for rows.Next() {
		var mt MenuType
		if err := rows.Scan(&mt.ID, &mt.Name, &mt.Description, &mt.CreatedAt, &mt.UpdatedAt); err != nil {
			return nil, err
		}
		types = append(types, mt)
	}
	return types, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (MenuType, error) {
	var mt MenuType
	err := r.db.QueryRow(ctx, `SELECT id, name, description, created_at, updated_at FROM menu_types WHERE id = $1`, id).
		Scan(&mt.ID, &mt.Name, &mt.Description, &mt.CreatedAt, &mt.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return MenuType{}, shared.ErrNotFound
	}
	return mt, err
}

func (r *repository) Create(ctx context.Context, mt MenuType) (MenuType, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx,
		`INSERT INTO menu_types (name, description, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		mt.Name, mt.Description, now, now).Scan(&mt.ID)
	if err != nil {
		return MenuType{}, err
	}
	mt.CreatedAt = now
	mt.UpdatedAt = now
	return mt, nil
}

func (r *repository) Update(ctx context.Context, id int64, mt MenuType) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE menu_types SET name = $1, description = $2, updated_at = $3 WHERE id = $4`,
		mt.Name, mt.Description, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM menu_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) HasMenus(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM daily_menus WHERE menu_type_id = $1)`, id).Scan(&exists)
	return exists, err
}
