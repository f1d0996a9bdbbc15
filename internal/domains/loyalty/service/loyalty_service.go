package service

import (
	"context"

	"github.com/google/uuid"

	"pointhub-backend/internal/domains/loyalty/model"
	orderModel "pointhub-backend/internal/domains/order/model"
	userModel "pointhub-backend/internal/domains/user/model"
	voucherModel "pointhub-backend/internal/domains/voucher/model"
)

type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*userModel.User, error)
}

type OrderSummarizer interface {
	PaidSummary(ctx context.Context, userID uuid.UUID) (orderModel.PaidSummary, error)
}

type ServiceInterface interface {
	GetUserStats(ctx context.Context, userID uuid.UUID) (*model.UserStats, error)
	GetPoints(ctx context.Context, userID uuid.UUID) (*model.Points, error)
}

type loyaltyService struct {
	users  UserReader
	orders OrderSummarizer
}

func NewLoyaltyService(users UserReader, orders OrderSummarizer) ServiceInterface {
	return &loyaltyService{users: users, orders: orders}
}

// GetUserStats aggregates PAID orders only; PENDING and CANCELLED orders
// never count toward totals.
func (s *loyaltyService) GetUserStats(ctx context.Context, userID uuid.UUID) (*model.UserStats, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary, err := s.orders.PaidSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.UserStats{
		UserID:              u.ID,
		PointsBalance:       u.PointsBalance,
		TotalOrders:         summary.TotalOrders,
		LifetimeSpent:       summary.LifetimeSpent,
		NextVoucherProgress: voucherModel.NextTierProgress(u.PointsBalance),
	}, nil
}

func (s *loyaltyService) GetPoints(ctx context.Context, userID uuid.UUID) (*model.Points, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.Points{UserID: u.ID, PointsBalance: u.PointsBalance}, nil
}
