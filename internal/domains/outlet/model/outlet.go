package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"pointhub-backend/internal/shared/apperr"
)

// Outlet is a physical store where cashiers ring up POS sales.
type Outlet struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Location     *string   `json:"location"`
	ContactEmail *string   `json:"contactEmail"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var ErrOutletNotFound = apperr.NotFound("OUTLET_NOT_FOUND", "outlet not found")

type CreateOutletRequest struct {
	Name         string  `json:"name"`
	Location     *string `json:"location"`
	ContactEmail *string `json:"contactEmail"`
}

func (r *CreateOutletRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.ContactEmail = normalizeEmail(r.ContactEmail)
}

func (r CreateOutletRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Location, validation.Length(0, 500)),
		validation.Field(&r.ContactEmail, is.EmailFormat),
	)
}

type UpdateOutletRequest struct {
	Name         *string `json:"name"`
	Location     *string `json:"location"`
	ContactEmail *string `json:"contactEmail"`
}

func (r *UpdateOutletRequest) Normalize() {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	r.ContactEmail = normalizeEmail(r.ContactEmail)
}

func (r UpdateOutletRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Location, validation.Length(0, 500)),
		validation.Field(&r.ContactEmail, is.EmailFormat),
	)
}

// Apply merges the non-nil fields into o. An empty location or email clears it.
func (r UpdateOutletRequest) Apply(o *Outlet) {
	if r.Name != nil {
		o.Name = *r.Name
	}
	if r.Location != nil {
		o.Location = emptyToNil(*r.Location)
	}
	if r.ContactEmail != nil {
		o.ContactEmail = emptyToNil(*r.ContactEmail)
	}
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	return &e
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
