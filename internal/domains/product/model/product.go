package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"pointhub-backend/internal/shared/apperr"
	"pointhub-backend/internal/shared/money"
)

type Product struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Price       money.Rupiah `json:"price"`
	ImageURL    *string      `json:"imageUrl"`
	IsActive    bool         `json:"isActive"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

var (
	ErrProductNotFound = apperr.NotFound("PRODUCT_NOT_FOUND", "product not found")
	ErrProductInactive = apperr.BusinessRule("PRODUCT_INACTIVE", "product is not for sale")
	ErrInvalidImage    = apperr.Validation("INVALID_IMAGE", "image must be a JPEG or PNG up to 5MB")
	ErrInvalidQuantity = apperr.Validation("INVALID_QUANTITY", "quantity must be at least 1")
	ErrImagesDisabled  = apperr.BusinessRule("IMAGE_STORAGE_DISABLED", "image storage is not configured")
)

type CreateProductRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Price       money.Rupiah `json:"price"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Category, validation.Length(0, 100)),
		validation.Field(&r.Price, validation.Min(int64(0))),
	)
}

type UpdateProductRequest struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Category    *string       `json:"category"`
	Price       *money.Rupiah `json:"price"`
	IsActive    *bool         `json:"isActive"`
}

func (r UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Category, validation.Length(0, 100)),
		validation.Field(&r.Price, validation.Min(int64(0))),
	)
}

// Apply merges the non-nil fields into p.
func (r UpdateProductRequest) Apply(p *Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
}

type ListFilter struct {
	Search          string `form:"search"`
	Category        string `form:"category"`
	IncludeInactive bool   `form:"-"`
	Page            int    `form:"page"`
	Limit           int    `form:"limit"`
}

// Normalize clamps paging to sane defaults.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	f.Search = strings.TrimSpace(f.Search)
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ============================================================
// Cache keys
// ============================================================

const (
	CacheKeyListPrefix   = "products:list"
	CacheKeyDetailPrefix = "products:detail"
)

// ListCacheKey hashes the filter into a short, stable key.
func ListCacheKey(f ListFilter) string {
	parts := []string{
		strings.ToLower(f.Search),
		strings.ToLower(f.Category),
		strconv.FormatBool(f.IncludeInactive),
		strconv.Itoa(f.Page),
		strconv.Itoa(f.Limit),
	}
	return fmt.Sprintf("%s:%x", CacheKeyListPrefix, hashString(strings.Join(parts, ":")))
}

func DetailCacheKey(id uuid.UUID) string {
	return CacheKeyDetailPrefix + ":" + id.String()
}

// djb2
func hashString(s string) uint32 {
	h := uint32(5381)
	for i := 0; i < len(s); i++ {
		h = ((h << 5) + h) + uint32(s[i])
	}
	return h
}
