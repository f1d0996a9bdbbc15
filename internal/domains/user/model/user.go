package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

const (
	RoleAdmin = "admin"
	RolePOS   = "pos"
	RoleUser  = "user"
)

var validRoles = []interface{}{RoleAdmin, RolePOS, RoleUser}

type User struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Role          string     `json:"role"`
	PointsBalance int64      `json:"pointsBalance"`
	OutletID      *uuid.UUID `json:"outletId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ValidateRole reports ErrInvalidRole for anything but admin, pos or user.
func ValidateRole(role string) error {
	if err := validation.Validate(role, validation.Required, validation.In(validRoles...)); err != nil {
		return ErrInvalidRole.WithMessage("invalid role %q", role)
	}
	return nil
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        *User     `json:"user"`
}

// CreateUserRequest is used by admins and POS cashiers. An empty password
// gets a random one, so the account cannot log in until the password is set.
type CreateUserRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     string     `json:"role"`
	OutletID *uuid.UUID `json:"outletId"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Length(8, 72)),
		validation.Field(&r.Role, validation.In(validRoles...)),
	)
}

type UpdateUserRequest struct {
	Role     *string    `json:"role"`
	OutletID *uuid.UUID `json:"outletId"`
}

type ListUsersFilter struct {
	Role   string
	Search string
	Limit  int
	Offset int
}
