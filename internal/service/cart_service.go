package service

import (
	"context"
	"fmt"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/apperr"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/auth"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/repository"
)

// CartService manages the cart embedded in the user document. Lines are
// keyed by product+size+color; adding an existing combination merges
// quantities instead of appending a duplicate line.
type CartService struct {
	users    repository.UserRepository
	products repository.ProductRepository
}

func NewCartService(users repository.UserRepository, products repository.ProductRepository) *CartService {
	return &CartService{users: users, products: products}
}

func (s *CartService) Get(ctx context.Context, actor auth.Actor) ([]models.CartItem, error) {
	user, err := s.loadUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return user.Cart, nil
}

// Add puts qty of a product variant into the cart, snapshotting name and
// price from the catalog at add time.
func (s *CartService) Add(ctx context.Context, actor auth.Actor, productID, size, color string, qty int) ([]models.CartItem, error) {
	if qty <= 0 {
		qty = 1
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, productID)
	}
	user, err := s.loadUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	cart := user.Cart
	merged := false
	for i, item := range cart {
		if item.ProductID == productID && item.Size == size && item.Color == color {
			cart[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		cart = append(cart, models.CartItem{
			ProductID: productID,
			Name:      product.Name,
			Price:     product.Price,
			Size:      size,
			Color:     color,
			Image:     image,
			Quantity:  qty,
		})
	}

	if err := s.users.UpdateCart(ctx, actor.UserID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets the quantity of an existing line; zero or less removes
// the line.
func (s *CartService) UpdateQuantity(ctx context.Context, actor auth.Actor, productID, size, color string, qty int) ([]models.CartItem, error) {
	user, err := s.loadUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	cart := user.Cart
	found := false
	for i, item := range cart {
		if item.ProductID == productID && item.Size == size && item.Color == color {
			found = true
			if qty <= 0 {
				cart = append(cart[:i], cart[i+1:]...)
			} else {
				cart[i].Quantity = qty
			}
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: cart line not found", apperr.ErrNotFound)
	}

	if err := s.users.UpdateCart(ctx, actor.UserID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Remove(ctx context.Context, actor auth.Actor, productID, size, color string) ([]models.CartItem, error) {
	return s.UpdateQuantity(ctx, actor, productID, size, color, 0)
}

func (s *CartService) Clear(ctx context.Context, actor auth.Actor) error {
	return s.users.UpdateCart(ctx, actor.UserID, nil)
}

func (s *CartService) loadUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", apperr.ErrNotFound, userID)
	}
	return user, nil
}
