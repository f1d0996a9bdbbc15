package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pointhub-backend/internal/domains/user/model"
	"pointhub-backend/internal/domains/user/repository"
	"pointhub-backend/internal/shared/apperr"
	"pointhub-backend/internal/shared/clock"
	"pointhub-backend/internal/shared/utils"
	"pointhub-backend/pkg/jwt"
	"pointhub-backend/pkg/logger"
)

const defaultBcryptCost = 12

type ServiceInterface interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, filter model.ListUsersFilter) ([]*model.User, int, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateUserRequest) (*model.User, error)
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	// FindOrCreateCustomer returns the user with that email, creating a
	// role=user account when none exists. Used by the POS terminal.
	FindOrCreateCustomer(ctx context.Context, email string) (*model.User, bool, error)
}

// OutletChecker confirms a cashier's outlet exists. Implemented by the outlet service.
type OutletChecker interface {
	Exists(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo       repository.RepositoryInterface
	outlets    OutletChecker
	jwtManager *jwt.Manager
	clock      clock.Clock
	bcryptCost int
}

func NewUserService(repo repository.RepositoryInterface, outlets OutletChecker, jwtManager *jwt.Manager, clk clock.Clock) ServiceInterface {
	return newUserService(repo, outlets, jwtManager, clk, defaultBcryptCost)
}

func newUserService(repo repository.RepositoryInterface, outlets OutletChecker, jwtManager *jwt.Manager, clk clock.Clock, cost int) *userService {
	return &userService{repo: repo, outlets: outlets, jwtManager: jwtManager, clock: clk, bcryptCost: cost}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.newUser(req.Email, req.Password, model.RoleUser, nil)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("user registered", map[string]interface{}{"user_id": u.ID.String()})
	return u, nil
}

// Login checks the credentials and issues an access token.
// Unknown email and wrong password return the same error.
func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &model.LoginResponse{
		AccessToken: token,
		ExpiresAt:   s.clock.Now().Add(s.jwtManager.TTL()),
		User:        u,
	}, nil
}

// ========================================
// USER MANAGEMENT
// ========================================

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *userService) List(ctx context.Context, filter model.ListUsersFilter) ([]*model.User, int, error) {
	if filter.Role != "" {
		if err := model.ValidateRole(filter.Role); err != nil {
			return nil, 0, err
		}
	}
	return s.repo.List(ctx, filter)
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, req model.UpdateUserRequest) (*model.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		if err := model.ValidateRole(*req.Role); err != nil {
			return nil, err
		}
		u.Role = *req.Role
	}
	if req.OutletID != nil {
		u.OutletID = req.OutletID
	}
	// outlet only means something for cashiers
	if u.Role != model.RolePOS {
		u.OutletID = nil
	}
	if req.OutletID != nil {
		if err := s.checkOutlet(ctx, u.OutletID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	u.UpdatedAt = s.clock.Now()
	return u, nil
}

func (s *userService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	u, err := s.newUser(req.Email, req.Password, role, req.OutletID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOutlet(ctx, u.OutletID); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("user created", map[string]interface{}{"user_id": u.ID.String(), "role": role})
	return u, nil
}

func (s *userService) FindOrCreateCustomer(ctx context.Context, email string) (*model.User, bool, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, false, err
	}

	u, err = s.Create(ctx, model.CreateUserRequest{Email: email, Role: model.RoleUser})
	if errors.Is(err, model.ErrEmailAlreadyExists) {
		// lost a race with another terminal creating the same customer
		u, err = s.repo.GetByEmail(ctx, email)
		return u, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func (s *userService) newUser(email, password, role string, outletID *uuid.UUID) (*model.User, error) {
	if password == "" {
		random, err := generateSecureToken(16)
		if err != nil {
			return nil, fmt.Errorf("generate password: %w", err)
		}
		password = random
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if role != model.RolePOS {
		outletID = nil
	}

	now := s.clock.Now()
	return &model.User{
		ID:           uuid.New(),
		Email:        utils.NormalizeEmail(email),
		PasswordHash: string(hash),
		Role:         role,
		OutletID:     outletID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *userService) checkOutlet(ctx context.Context, id *uuid.UUID) error {
	if id == nil || s.outlets == nil {
		return nil
	}
	err := s.outlets.Exists(ctx, *id)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return model.ErrUnknownOutlet
	}
	return err
}

func generateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
