package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/apperr"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
)

type checkoutRequest struct {
	Items   []models.OrderItem `json:"items" validate:"required,min=1,dive"`
	Amount  float64            `json:"amount" validate:"required,gt=0"`
	Address models.Address     `json:"address" validate:"required"`
}

type intentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string             `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string             `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string             `json:"razorpay_signature" validate:"required"`
	Items             []models.OrderItem `json:"items" validate:"required,min=1,dive"`
	Amount            float64            `json:"amount" validate:"required,gt=0"`
	Address           models.Address     `json:"address" validate:"required"`
}

type statusUpdateRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// handleOrders serves the admin order table: every order plus its derived
// payment label and allowed transitions.
func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, apperr.ErrNotFound)
		return
	}
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	rows, err := s.orders.AdminTable(r.Context(), actor, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handlePlaceCOD(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, apperr.ErrNotFound)
		return
	}
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	var req checkoutRequest
	if err := s.decodeValid(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	order, err := s.orders.PlaceCashOnDelivery(r.Context(), actor, req.Items, req.Amount, req.Address)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handlePlaceRazorpay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, apperr.ErrNotFound)
		return
	}
	if _, ok := actorOr401(w, r); !ok {
		return
	}
	var req intentRequest
	if err := s.decodeValid(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	intent, err := s.orders.CreatePaymentIntent(r.Context(), req.Amount)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intent)
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, apperr.ErrNotFound)
		return
	}
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	var req verifyPaymentRequest
	if err := s.decodeValid(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	order, err := s.orders.VerifyAndCompleteOrder(r.Context(), actor,
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature,
		req.Items, req.Amount, req.Address)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleUserOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, apperr.ErrNotFound)
		return
	}
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	userID := strings.TrimPrefix(r.URL.Path, "/orders/user/")
	if userID == "" {
		writeErr(w, apperr.ErrValidation)
		return
	}
	orders, err := s.orders.ListForUser(r.Context(), actor, userID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleOrderOne(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/orders/")
	if path == "" {
		writeErr(w, apperr.ErrValidation)
		return
	}

	if id, found := strings.CutSuffix(path, "/status"); found {
		if r.Method != http.MethodPut {
			writeErr(w, apperr.ErrNotFound)
			return
		}
		s.handleStatusUpdate(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		order, err := s.orders.Get(r.Context(), actor, path)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	case http.MethodDelete:
		// Cancellation, not removal: the record keeps its history.
		order, err := s.orders.Cancel(r.Context(), actor, path)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	default:
		writeErr(w, apperr.ErrNotFound)
	}
}

// handleStatusUpdate accepts either a fulfillment status or an admin payment
// label, never both in one call.
func (s *Server) handleStatusUpdate(w http.ResponseWriter, r *http.Request, id string) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	var req statusUpdateRequest
	if err := s.decodeValid(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	switch {
	case req.PaymentStatus != "":
		order, err := s.orders.ApplyPaymentStatus(r.Context(), actor, id, req.PaymentStatus)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	case req.Status != "":
		order, err := s.orders.SetStatus(r.Context(), actor, id, models.OrderStatus(req.Status))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	default:
		writeErr(w, apperr.ErrValidation)
	}
}

func (s *Server) handleAdminOrderDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeErr(w, apperr.ErrNotFound)
		return
	}
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/admin/orders/")
	if err := s.orders.Remove(r.Context(), actor, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
