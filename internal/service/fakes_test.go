package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/apperr"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/payment"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/repository"
)

type fakeOrderRepo struct {
	orders    map[string]models.Order
	insertErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]models.Order)}
}

var _ repository.OrderRepository = (*fakeOrderRepo)(nil)

func (r *fakeOrderRepo) Insert(_ context.Context, o *models.Order) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	r.orders[o.ID.Hex()] = *o
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*models.Order, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	copyOrder := o
	return &copyOrder, nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]*models.Order, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var result []*models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			copyOrder := o
			result = append(result, &copyOrder)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date > result[j].Date })
	return result, nil
}

func (r *fakeOrderRepo) List(_ context.Context, _ int64) ([]*models.Order, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var result []*models.Order
	for _, o := range r.orders {
		copyOrder := o
		result = append(result, &copyOrder)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date > result[j].Date })
	return result, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id string, revision int64, status models.OrderStatus) (*models.Order, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
	}
	if o.Revision != revision {
		return nil, fmt.Errorf("%w: order %s changed concurrently", apperr.ErrConflict, id)
	}
	o.Status = status
	o.Revision++
	r.orders[id] = o
	copyOrder := o
	return &copyOrder, nil
}

func (r *fakeOrderRepo) UpdatePayment(_ context.Context, id string, revision int64, paymentStatus string, paid bool) (*models.Order, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
	}
	if o.Revision != revision {
		return nil, fmt.Errorf("%w: order %s changed concurrently", apperr.ErrConflict, id)
	}
	o.PaymentStatus = paymentStatus
	o.Payment = paid
	o.Revision++
	r.orders[id] = o
	copyOrder := o
	return &copyOrder, nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
	}
	delete(r.orders, id)
	return nil
}

type fakeUserRepo struct {
	users         map[string]models.User
	updateCartErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Insert(_ context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID.Hex()] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copyUser := u
	return &copyUser, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copyUser := u
			return &copyUser, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateCart(_ context.Context, userID string, cart []models.CartItem) error {
	if r.updateCartErr != nil {
		return r.updateCartErr
	}
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("%w: user %s", apperr.ErrNotFound, userID)
	}
	u.Cart = cart
	r.users[userID] = u
	return nil
}

type fakeProductRepo struct {
	products map[string]models.Product
	seq      int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]models.Product)}
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func (r *fakeProductRepo) Insert(_ context.Context, p *models.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.products[p.ID.Hex()] = *p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	copyProduct := p
	return &copyProduct, nil
}

func (r *fakeProductRepo) List(_ context.Context, category string, _ int64) ([]*models.Product, error) {
	var result []*models.Product
	for _, p := range r.products {
		if category == "" || p.Category == category {
			copyProduct := p
			result = append(result, &copyProduct)
		}
	}
	return result, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *models.Product) error {
	if _, ok := r.products[p.ID.Hex()]; !ok {
		return fmt.Errorf("%w: product %s", apperr.ErrNotFound, p.ID.Hex())
	}
	r.products[p.ID.Hex()] = *p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) NextSequence(_ context.Context, _ string) (int64, error) {
	r.seq++
	return r.seq, nil
}

// fakeGateway verifies signatures against a fixed expected value and can be
// told to fail intent creation.
type fakeGateway struct {
	createErr     error
	lastAmount    int64
	lastCurrency  string
	goodSignature string
}

var _ payment.Gateway = (*fakeGateway)(nil)

func (g *fakeGateway) CreateIntent(_ context.Context, amountMinorUnits int64, currency, receipt string) (*payment.Intent, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	if receipt == "" {
		return nil, errors.New("receipt required")
	}
	g.lastAmount = amountMinorUnits
	g.lastCurrency = currency
	return &payment.Intent{ID: "order_test123", Amount: amountMinorUnits, Currency: currency}, nil
}

func (g *fakeGateway) VerifySignature(_, _, signature string) bool {
	return signature == g.goodSignature
}
