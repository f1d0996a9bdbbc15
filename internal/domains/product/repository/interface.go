package repository

import (
	"context"

	"github.com/google/uuid"

	"pointhub-backend/internal/domains/product/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter model.ListFilter) ([]*model.Product, int, error)
	Update(ctx context.Context, p *model.Product) error
	// Delete soft-deletes; order items keep their snapshot either way.
	Delete(ctx context.Context, id uuid.UUID) error
}
