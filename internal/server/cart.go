package server

import (
	"net/http"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/apperr"
)

type cartLineRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, apperr.ErrNotFound)
		return
	}
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	cart, err := s.carts.Get(r.Context(), actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, apperr.ErrNotFound)
		return
	}
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	var req cartLineRequest
	if err := s.decodeValid(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	cart, err := s.carts.Add(r.Context(), actor, req.ProductID, req.Size, req.Color, req.Quantity)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (s *Server) handleCartUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeErr(w, apperr.ErrNotFound)
		return
	}
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	var req cartLineRequest
	if err := s.decodeValid(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	cart, err := s.carts.UpdateQuantity(r.Context(), actor, req.ProductID, req.Size, req.Color, req.Quantity)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, apperr.ErrNotFound)
		return
	}
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	var req cartLineRequest
	if err := s.decodeValid(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	cart, err := s.carts.Remove(r.Context(), actor, req.ProductID, req.Size, req.Color)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}
