package repository

import (
	"context"
	"time"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
)

// OrderRepository persists order documents. Status and payment updates take
// the revision the caller read; a mismatch means a concurrent writer won and
// the update fails with apperr.ErrConflict.
type OrderRepository interface {
	Insert(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Order, error)
	List(ctx context.Context, limit int64) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id string, revision int64, status models.OrderStatus) (*models.Order, error)
	UpdatePayment(ctx context.Context, id string, revision int64, paymentStatus string, payment bool) (*models.Order, error)
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Insert(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateCart(ctx context.Context, userID string, cart []models.CartItem) error
}

type ProductRepository interface {
	Insert(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, category string, limit int64) ([]*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
	// NextSequence returns the next value of the named counter, starting at 1.
	NextSequence(ctx context.Context, name string) (int64, error)
}

type MetadataRepository interface {
	Insert(ctx context.Context, m *models.Metadata) error
	GetByID(ctx context.Context, id string) (*models.Metadata, error)
	List(ctx context.Context) ([]*models.Metadata, error)
	Update(ctx context.Context, m *models.Metadata) error
	Delete(ctx context.Context, id string) error
}

type SessionRepository interface {
	Insert(ctx context.Context, s *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) error
}
