package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/apperr"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/auth"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/repository"
)

type ProductService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// Create persists a new product with a generated product code. Admin only.
func (s *ProductService) Create(ctx context.Context, actor auth.Actor, p *models.Product) (*models.Product, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: admin required", apperr.ErrForbidden)
	}
	if p.Name == "" || p.Category == "" || p.Subcategory == "" {
		return nil, fmt.Errorf("%w: name, category and subcategory are required", apperr.ErrValidation)
	}
	if p.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", apperr.ErrValidation)
	}

	prefix := codePrefix(p.Category) + "-" + codePrefix(p.Subcategory)
	seq, err := s.products.NextSequence(ctx, prefix)
	if err != nil {
		return nil, err
	}
	p.ProductCode = fmt.Sprintf("%s-%04d", prefix, seq)
	p.InStock = true

	if err := s.products.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, category string, limit int64) ([]*models.Product, error) {
	return s.products.List(ctx, category, limit)
}

// Update replaces the mutable fields of a product. The product code is never
// regenerated; it identifies the product for its whole life.
func (s *ProductService) Update(ctx context.Context, actor auth.Actor, p *models.Product) (*models.Product, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: admin required", apperr.ErrForbidden)
	}
	existing, err := s.Get(ctx, p.ID.Hex())
	if err != nil {
		return nil, err
	}
	p.ProductCode = existing.ProductCode
	p.CreatedAt = existing.CreatedAt
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if !actor.IsAdmin {
		return fmt.Errorf("%w: admin required", apperr.ErrForbidden)
	}
	return s.products.Delete(ctx, id)
}

// codePrefix reduces a category name to the first three letters, upper-cased
// ("Men's Shirts" -> "MEN"). Short names are used as-is.
func codePrefix(name string) string {
	var letters []rune
	for _, r := range name {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
		}
		if len(letters) == 3 {
			break
		}
	}
	if len(letters) == 0 {
		return "XXX"
	}
	return strings.ToUpper(string(letters))
}
