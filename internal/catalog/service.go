// Package catalog manages products, variations and categories: the
// admin write side and the storefront read side of the product range.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nimra/cashandcarry/internal/models"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

// Indexer mirrors catalog writes into the search index. Satisfied by
// search.Index; indexing failures are logged, never surfaced.
type Indexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type Service struct {
	Repo  *GormRepo
	Index Indexer // nil disables search indexing
	Log   *slog.Logger
}

type VariationInput struct {
	AttributeType string          `json:"attribute_type"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	IsDefault     bool            `json:"is_default"`
}

type ProductInput struct {
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	VatPercentage float64          `json:"vat_percentage"`
	ImageURL      string           `json:"image_url"`
	Stock         uint             `json:"stock"`
	IsFeatured    bool             `json:"is_featured"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	Variations    []VariationInput `json:"variations"`
}

func (in ProductInput) validate() error {
	switch {
	case in.Name == "":
		return fmt.Errorf("%w: product name is required", ErrValidation)
	case in.Price.Sign() <= 0:
		return fmt.Errorf("%w: product price must be positive", ErrValidation)
	case in.VatPercentage < 0:
		return fmt.Errorf("%w: vat percentage cannot be negative", ErrValidation)
	}
	defaults := 0
	for _, v := range in.Variations {
		if v.Name == "" {
			return fmt.Errorf("%w: variation name is required", ErrValidation)
		}
		if v.Price.Sign() <= 0 {
			return fmt.Errorf("%w: variation price must be positive", ErrValidation)
		}
		if v.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("%w: at most one variation can be the default", ErrValidation)
	}
	return nil
}

// Slugify derives a URL slug from a display name: lowercase, spaces to
// hyphens, everything else dropped.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := productFromInput(in)
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		return nil, err
	}
	s.reindex(p)
	return &p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.Repo.ProductByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	p := productFromInput(in)
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	if p.Slug == "" {
		p.Slug = existing.Slug
	}
	if err := s.Repo.UpdateProduct(ctx, &p); err != nil {
		return nil, err
	}
	s.reindex(p)
	return &p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := s.Repo.DeleteProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if err != nil {
		return err
	}
	if s.Index != nil {
		if err := s.Index.DeleteProduct(context.Background(), id.String()); err != nil {
			s.Log.Error("search index delete failed", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *Service) Product(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.ProductByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return p, err
}

func (s *Service) ProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.Repo.ProductBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %q", ErrNotFound, slug)
	}
	return p, err
}

func (s *Service) ListProducts(ctx context.Context, f Filter, limit, offset int) ([]models.Product, int64, error) {
	return s.Repo.ListProducts(ctx, f, limit, offset)
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if slug == "" {
		slug = Slugify(name)
	}
	c := models.Category{Name: name, Slug: slug}
	if err := s.Repo.CreateCategory(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := s.Repo.DeleteCategory(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: category %s", ErrNotFound, id)
	}
	return err
}

// reindex mirrors a product write into the search index, best-effort.
func (s *Service) reindex(p models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(context.Background(), p); err != nil {
		s.Log.Error("search index update failed", "product_id", p.ID, "error", err)
	}
}

func productFromInput(in ProductInput) models.Product {
	p := models.Product{
		Name:          in.Name,
		Slug:          in.Slug,
		Description:   in.Description,
		Price:         in.Price,
		VatPercentage: in.VatPercentage,
		ImageURL:      in.ImageURL,
		Stock:         in.Stock,
		IsFeatured:    in.IsFeatured,
		CategoryID:    in.CategoryID,
	}
	for _, v := range in.Variations {
		p.Variations = append(p.Variations, models.ProductVariation{
			AttributeType: v.AttributeType,
			Name:          v.Name,
			Price:         v.Price,
			IsDefault:     v.IsDefault,
		})
	}
	return p
}
