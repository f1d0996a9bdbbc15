package model

import "pointhub-backend/internal/shared/apperr"

var (
	ErrUserNotFound       = apperr.NotFound("USER_NOT_FOUND", "user not found")
	ErrEmailAlreadyExists = apperr.Conflict("EMAIL_ALREADY_EXISTS", "email already registered")
	ErrInvalidCredentials = apperr.Validation("INVALID_CREDENTIALS", "invalid email or password")
	ErrInvalidRole        = apperr.Validation("INVALID_ROLE", "role must be admin, pos or user")
	ErrInsufficientPoints = apperr.BusinessRule("INSUFFICIENT_POINTS", "not enough points")
	ErrUnknownOutlet      = apperr.Validation("UNKNOWN_OUTLET", "outlet does not exist")
)
