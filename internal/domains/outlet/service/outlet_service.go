package service

import (
	"context"

	"github.com/google/uuid"

	"pointhub-backend/internal/domains/outlet/model"
	"pointhub-backend/internal/domains/outlet/repository"
	"pointhub-backend/internal/shared/clock"
	"pointhub-backend/pkg/logger"
)

type ServiceInterface interface {
	List(ctx context.Context) ([]*model.Outlet, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Outlet, error)
	Create(ctx context.Context, req model.CreateOutletRequest) (*model.Outlet, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateOutletRequest) (*model.Outlet, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Exists returns ErrOutletNotFound for an unknown id.
	Exists(ctx context.Context, id uuid.UUID) error
}

type outletService struct {
	repo  repository.RepositoryInterface
	clock clock.Clock
}

func NewOutletService(repo repository.RepositoryInterface, clk clock.Clock) ServiceInterface {
	return &outletService{repo: repo, clock: clk}
}

func (s *outletService) List(ctx context.Context) ([]*model.Outlet, error) {
	return s.repo.List(ctx)
}

func (s *outletService) Get(ctx context.Context, id uuid.UUID) (*model.Outlet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *outletService) Exists(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.GetByID(ctx, id)
	return err
}

func (s *outletService) Create(ctx context.Context, req model.CreateOutletRequest) (*model.Outlet, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	o := &model.Outlet{
		ID:        uuid.New(),
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	model.UpdateOutletRequest{Location: req.Location, ContactEmail: req.ContactEmail}.Apply(o)

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	logger.Info("outlet created", map[string]interface{}{"outlet_id": o.ID.String(), "name": o.Name})
	return o, nil
}

func (s *outletService) Update(ctx context.Context, id uuid.UUID, req model.UpdateOutletRequest) (*model.Outlet, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(o)
	o.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *outletService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("outlet deleted", map[string]interface{}{"outlet_id": id.String()})
	return nil
}
