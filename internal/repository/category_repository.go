package repository

import (
	"context"
	"errors"
	"fmt"

	"event-ticketing/internal/model"
	apperrors "event-ticketing/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository interface {
	// InsertIfAbsent 以 slug 為自然鍵，已存在時不做任何修改並回傳既有資料
	InsertIfAbsent(ctx context.Context, category *model.Category) (*model.Category, bool, error)
	List(ctx context.Context) ([]*model.Category, error)
	FindBySlug(ctx context.Context, slug string) (*model.Category, error)
}

type CategoryRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &CategoryRepositoryImpl{
		pool: pool,
	}
}

func scanCategory(row pgx.Row) (*model.Category, error) {
	var category model.Category
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.Color,
		&category.Icon,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) InsertIfAbsent(ctx context.Context, category *model.Category) (*model.Category, bool, error) {
	query := `
		INSERT INTO categories (name, slug, description, color, icon)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slug) DO NOTHING
		RETURNING id, name, slug, description, color, icon, created_at, updated_at
	`
	created, err := scanCategory(r.pool.QueryRow(ctx, query,
		category.Name, category.Slug, category.Description, category.Color, category.Icon,
	))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, apperrors.ErrCategoryNotFound) {
		return nil, false, fmt.Errorf("failed to insert category: %w", err)
	}

	existing, err := r.FindBySlug(ctx, category.Slug)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *CategoryRepositoryImpl) List(ctx context.Context) ([]*model.Category, error) {
	query := `
		SELECT id, name, slug, description, color, icon, created_at, updated_at
		FROM categories
		ORDER BY id ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*model.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	query := `
		SELECT id, name, slug, description, color, icon, created_at, updated_at
		FROM categories
		WHERE slug = $1
	`
	return scanCategory(r.pool.QueryRow(ctx, query, slug))
}
