package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"taskflow/internal/models"
	"taskflow/internal/store"
)

// CategoryService wraps category operations.
type CategoryService struct {
	store store.CategoryStore
}

func (s *CategoryService) List(ctx context.Context) (categories []models.Category, err error) {
	ctx, span := startSpan(ctx, "CategoryService.List")
	defer func() { endSpan(span, err) }()

	return s.store.ListCategories(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (cat *models.Category, err error) {
	ctx, span := startSpan(ctx, "CategoryService.Get", attribute.Int64("category.id", id))
	defer func() { endSpan(span, err) }()

	return s.store.GetCategory(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, in models.CategoryInput) (cat *models.Category, err error) {
	ctx, span := startSpan(ctx, "CategoryService.Create")
	defer func() { endSpan(span, err) }()

	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	return s.store.CreateCategory(ctx, in)
}

func (s *CategoryService) Update(ctx context.Context, id int64, patch models.CategoryPatch) (cat *models.Category, err error) {
	ctx, span := startSpan(ctx, "CategoryService.Update", attribute.Int64("category.id", id))
	defer func() { endSpan(span, err) }()

	if err := patch.Validate(); err != nil {
		return nil, invalid(err)
	}
	return s.store.UpdateCategory(ctx, id, patch)
}

func (s *CategoryService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := startSpan(ctx, "CategoryService.Delete", attribute.Int64("category.id", id))
	defer func() { endSpan(span, err) }()

	return s.store.DeleteCategory(ctx, id)
}
