package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pricingModel "pointhub-backend/internal/domains/pricing/model"
	"pointhub-backend/internal/domains/product/model"
	"pointhub-backend/internal/domains/product/repository"
	"pointhub-backend/internal/shared/clock"
	"pointhub-backend/pkg/cache"
	"pointhub-backend/pkg/logger"
)

// ImageStore is the object storage the product images live in (MinIO).
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// ImageProcessor validates and resizes uploads.
type ImageProcessor interface {
	ValidateImage(data []byte) error
	ProcessImage(data []byte) (map[string][]byte, error)
}

type ServiceInterface interface {
	List(ctx context.Context, filter model.ListFilter) ([]*model.Product, int, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UploadImage(ctx context.Context, id uuid.UUID, data []byte) (*model.Product, error)
	BuildCartItem(ctx context.Context, id uuid.UUID, quantity int) (*pricingModel.CartItem, error)
}

type productService struct {
	repo    repository.RepositoryInterface
	cache   cache.Cache
	ttl     time.Duration
	images  ImageStore
	resizer ImageProcessor
	clock   clock.Clock
}

func NewProductService(
	repo repository.RepositoryInterface,
	c cache.Cache,
	ttl time.Duration,
	images ImageStore,
	resizer ImageProcessor,
	clk clock.Clock,
) ServiceInterface {
	return &productService{
		repo:    repo,
		cache:   c,
		ttl:     ttl,
		images:  images,
		resizer: resizer,
		clock:   clk,
	}
}

type listCache struct {
	Products []*model.Product `json:"products"`
	Total    int              `json:"total"`
}

// List serves the catalog from cache when possible.
func (s *productService) List(ctx context.Context, filter model.ListFilter) ([]*model.Product, int, error) {
	filter.Normalize()
	key := model.ListCacheKey(filter)

	var cached listCache
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Error("product cache read failed", err)
	}
	if found {
		return cached.Products, cached.Total, nil
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if err := s.cache.Set(ctx, key, listCache{Products: products, Total: total}, s.ttl); err != nil {
		logger.Error("product cache write failed", err)
	}
	return products, total, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	key := model.DetailCacheKey(id)

	var cached model.Product
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Error("product cache read failed", err)
	}
	if found {
		return &cached, nil
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, p, s.ttl); err != nil {
		logger.Error("product cache write failed", err)
	}
	return p, nil
}

func (s *productService) Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	p := &model.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx, nil)
	return p, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(p)
	p.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx, &id)
	return p, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, &id)

	if s.images != nil {
		if err := s.images.DeleteByPrefix(ctx, imagePrefix(id)); err != nil {
			logger.Error("failed to delete product images", err)
		}
	}
	return nil
}

// UploadImage resizes the upload into every variant, stores them and points
// imageUrl at the card-sized one.
func (s *productService) UploadImage(ctx context.Context, id uuid.UUID, data []byte) (*model.Product, error) {
	if s.images == nil {
		return nil, model.ErrImagesDisabled
	}
	if err := s.resizer.ValidateImage(data); err != nil {
		return nil, model.ErrInvalidImage.Wrap(err)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	variants, err := s.resizer.ProcessImage(data)
	if err != nil {
		return nil, model.ErrInvalidImage.Wrap(err)
	}

	urls := make(map[string]string, len(variants))
	for name, img := range variants {
		key := fmt.Sprintf("%s%s.jpg", imagePrefix(id), name)
		url, err := s.images.Upload(ctx, key, img, "image/jpeg")
		if err != nil {
			return nil, fmt.Errorf("upload %s image: %w", name, err)
		}
		urls[name] = url
	}

	card := urls["card"]
	p.ImageURL = &card
	p.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx, &id)
	logger.Info("product image uploaded", map[string]interface{}{
		"product_id": id.String(),
		"variants":   len(urls),
	})
	return p, nil
}

// BuildCartItem snapshots the product's current name and price into a cart line.
func (s *productService) BuildCartItem(ctx context.Context, id uuid.UUID, quantity int) (*pricingModel.CartItem, error) {
	if quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, model.ErrProductInactive
	}
	return &pricingModel.CartItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		Quantity:    quantity,
	}, nil
}

func (s *productService) invalidate(ctx context.Context, id *uuid.UUID) {
	if id != nil {
		if err := s.cache.Delete(ctx, model.DetailCacheKey(*id)); err != nil {
			logger.Error("product cache invalidation failed", err)
		}
	}
	if err := s.cache.DeletePattern(ctx, model.CacheKeyListPrefix+":*"); err != nil {
		logger.Error("product cache invalidation failed", err)
	}
}

func imagePrefix(id uuid.UUID) string {
	return "products/" + id.String() + "/"
}
