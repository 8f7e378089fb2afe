package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/apperr"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/audit"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/auth"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/payment"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/repository"
)

const defaultCurrency = "INR"

// OrderService owns the order lifecycle: it is the only writer of status,
// payment and paymentStatus, at creation and for every later transition.
type OrderService struct {
	orders  repository.OrderRepository
	users   repository.UserRepository
	gateway payment.Gateway
	audit   *audit.WorkerPool
}

func NewOrderService(orders repository.OrderRepository, users repository.UserRepository, gateway payment.Gateway, auditPool *audit.WorkerPool) *OrderService {
	return &OrderService{orders: orders, users: users, gateway: gateway, audit: auditPool}
}

// OrderRow is one line of the admin order table: the order plus its derived
// payment view.
type OrderRow struct {
	Order       *models.Order `json:"order"`
	PaymentView PaymentView   `json:"paymentView"`
}

func validateCheckout(items []models.OrderItem, amount float64) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: order has no items", apperr.ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", apperr.ErrValidation)
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item quantity must be positive", apperr.ErrValidation)
		}
	}
	return nil
}

// PlaceCashOnDelivery creates a COD order. Payment stays false until the
// admin marks it received after delivery.
func (s *OrderService) PlaceCashOnDelivery(ctx context.Context, actor auth.Actor, items []models.OrderItem, amount float64, address models.Address) (*models.Order, error) {
	if err := validateCheckout(items, amount); err != nil {
		return nil, err
	}
	order := &models.Order{
		UserID:        actor.UserID,
		Items:         items,
		Amount:        amount,
		Address:       address,
		Status:        models.OrderStatusPlaced,
		PaymentMethod: models.PaymentMethodCOD,
		Payment:       false,
		Date:          time.Now().UnixMilli(),
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}
	s.clearCart(ctx, actor.UserID)
	s.log(audit.Event{
		OrderID:   order.ID.Hex(),
		NewStatus: string(order.Status),
		ActorID:   actor.UserID,
		Message:   "COD order placed",
	})
	return order, nil
}

// CreatePaymentIntent opens a pending charge at the gateway for amount,
// converted to the gateway's minor unit. Gateway failures surface to the
// caller; intent creation is not retried.
func (s *OrderService) CreatePaymentIntent(ctx context.Context, amount float64) (*payment.Intent, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperr.ErrValidation)
	}
	minorUnits := int64(math.Round(amount * 100))
	receipt := "receipt_" + uuid.NewString()
	return s.gateway.CreateIntent(ctx, minorUnits, defaultCurrency, receipt)
}

// VerifyAndCompleteOrder checks the gateway signature and, only on a match,
// persists the paid order. A mismatch creates nothing: an order must never
// exist as paid without a verified signature.
func (s *OrderService) VerifyAndCompleteOrder(ctx context.Context, actor auth.Actor, intentID, paymentID, signature string, items []models.OrderItem, amount float64, address models.Address) (*models.Order, error) {
	if intentID == "" || paymentID == "" || signature == "" {
		return nil, fmt.Errorf("%w: missing payment verification fields", apperr.ErrValidation)
	}
	if !s.gateway.VerifySignature(intentID, paymentID, signature) {
		return nil, apperr.ErrInvalidSignature
	}
	if err := validateCheckout(items, amount); err != nil {
		return nil, err
	}
	order := &models.Order{
		UserID:        actor.UserID,
		Items:         items,
		Amount:        amount,
		Address:       address,
		Status:        models.OrderStatusPlaced,
		PaymentMethod: models.PaymentMethodRazorpay,
		Payment:       true,
		PaymentStatus: models.PaymentStatusRazorpayReceived,
		Date:          time.Now().UnixMilli(),
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}
	s.clearCart(ctx, actor.UserID)
	s.log(audit.Event{
		OrderID:   order.ID.Hex(),
		NewStatus: string(order.Status),
		ActorID:   actor.UserID,
		Message:   "Razorpay order placed, payment verified",
	})
	return order, nil
}

// Cancel marks an order cancelled. Payment fields are left alone: refund
// bookkeeping is the admin's reconciliation flow, not a side effect here.
func (s *OrderService) Cancel(ctx context.Context, actor auth.Actor, orderID string) (*models.Order, error) {
	order, err := s.loadOwned(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if order.Cancelled() {
		return nil, fmt.Errorf("%w: order %s", apperr.ErrAlreadyCancelled, orderID)
	}
	updated, err := s.orders.UpdateStatus(ctx, orderID, order.Revision, models.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	s.log(audit.Event{
		OrderID:   orderID,
		OldStatus: string(order.Status),
		NewStatus: string(models.OrderStatusCancelled),
		ActorID:   actor.UserID,
		Message:   "order cancelled",
	})
	return updated, nil
}

// SetStatus is the admin status overwrite. The value must be a known status
// but no transition table is enforced beyond that; the admin can correct
// mistakes in either direction.
func (s *OrderService) SetStatus(ctx context.Context, actor auth.Actor, orderID string, status models.OrderStatus) (*models.Order, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: admin required", apperr.ErrForbidden)
	}
	if !models.KnownOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidTransition, status)
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	updated, err := s.orders.UpdateStatus(ctx, orderID, order.Revision, status)
	if err != nil {
		return nil, err
	}
	s.log(audit.Event{
		OrderID:   orderID,
		OldStatus: string(order.Status),
		NewStatus: string(status),
		ActorID:   actor.UserID,
		Message:   "admin status change",
	})
	return updated, nil
}

// ApplyPaymentStatus applies an admin-selected payment label. The selection
// must be one of the options derived for the order's current state, and the
// payment flag follows the label: Received and Refunded both mean money has
// moved.
func (s *OrderService) ApplyPaymentStatus(ctx context.Context, actor auth.Actor, orderID, selection string) (*models.Order, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: admin required", apperr.ErrForbidden)
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	view := DerivePaymentView(order.Status, order.PaymentMethod, order.Payment, order.PaymentStatus)
	allowed := false
	for _, opt := range view.Options {
		if opt == selection {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %q not allowed from %q", apperr.ErrInvalidTransition, selection, view.Label)
	}
	updated, err := s.orders.UpdatePayment(ctx, orderID, order.Revision, selection, PaymentFlagFor(selection))
	if err != nil {
		return nil, err
	}
	s.log(audit.Event{
		OrderID: orderID,
		ActorID: actor.UserID,
		Message: fmt.Sprintf("payment status set to %q", selection),
	})
	return updated, nil
}

// Get returns one order; users see only their own, admins see any.
func (s *OrderService) Get(ctx context.Context, actor auth.Actor, orderID string) (*models.Order, error) {
	return s.loadOwned(ctx, actor, orderID)
}

// ListForUser returns a user's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, actor auth.Actor, userID string) ([]*models.Order, error) {
	if !actor.IsAdmin && actor.UserID != userID {
		return nil, fmt.Errorf("%w: cannot read another user's orders", apperr.ErrForbidden)
	}
	return s.orders.ListByUser(ctx, userID)
}

// AdminTable returns all orders with their derived payment view, newest
// first, for the admin dashboard.
func (s *OrderService) AdminTable(ctx context.Context, actor auth.Actor, limit int64) ([]OrderRow, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: admin required", apperr.ErrForbidden)
	}
	orders, err := s.orders.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, OrderRow{
			Order:       o,
			PaymentView: DerivePaymentView(o.Status, o.PaymentMethod, o.Payment, o.PaymentStatus),
		})
	}
	return rows, nil
}

// Remove hard-deletes an order. Distinct from cancellation and admin-only.
func (s *OrderService) Remove(ctx context.Context, actor auth.Actor, orderID string) error {
	if !actor.IsAdmin {
		return fmt.Errorf("%w: admin required", apperr.ErrForbidden)
	}
	if err := s.orders.Delete(ctx, orderID); err != nil {
		return err
	}
	s.log(audit.Event{
		OrderID: orderID,
		ActorID: actor.UserID,
		Message: "order deleted by admin",
	})
	return nil
}

func (s *OrderService) load(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, orderID)
	}
	return order, nil
}

func (s *OrderService) loadOwned(ctx context.Context, actor auth.Actor, orderID string) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && order.UserID != actor.UserID {
		return nil, fmt.Errorf("%w: order %s belongs to another user", apperr.ErrForbidden, orderID)
	}
	return order, nil
}

// clearCart empties the user's cart after checkout. The order is already
// persisted at this point, so a failure here is logged and swallowed.
func (s *OrderService) clearCart(ctx context.Context, userID string) {
	if err := s.users.UpdateCart(ctx, userID, nil); err != nil {
		log.Printf("order: failed to clear cart for user %s: %v", userID, err)
	}
}

func (s *OrderService) log(ev audit.Event) {
	if s.audit != nil {
		s.audit.Log(ev)
	}
}
