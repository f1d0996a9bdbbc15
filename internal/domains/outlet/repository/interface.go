package repository

import (
	"context"

	"github.com/google/uuid"

	"pointhub-backend/internal/domains/outlet/model"
)

type RepositoryInterface interface {
	List(ctx context.Context) ([]*model.Outlet, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Outlet, error)
	Create(ctx context.Context, o *model.Outlet) error
	Update(ctx context.Context, o *model.Outlet) error
	// Delete removes the outlet; cashiers assigned to it are left unassigned.
	Delete(ctx context.Context, id uuid.UUID) error
}
