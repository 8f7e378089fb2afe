package server

import (
	"net/http"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/apperr"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
)

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
		products, err := s.products.List(r.Context(), r.URL.Query().Get("category"), limit)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, products)
	case http.MethodPost:
		actor, ok := actorOr401(w, r)
		if !ok {
			return
		}
		var p models.Product
		if err := s.decodeValid(r, &p); err != nil {
			writeErr(w, err)
			return
		}
		created, err := s.products.Create(r.Context(), actor, &p)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		writeErr(w, apperr.ErrNotFound)
	}
}

func (s *Server) handleProductOne(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/products/")
	if id == "" {
		writeErr(w, apperr.ErrValidation)
		return
	}
	switch r.Method {
	case http.MethodGet:
		p, err := s.products.Get(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodPut:
		actor, ok := actorOr401(w, r)
		if !ok {
			return
		}
		var p models.Product
		if err := s.decodeValid(r, &p); err != nil {
			writeErr(w, err)
			return
		}
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			writeErr(w, apperr.ErrNotFound)
			return
		}
		p.ID = oid
		updated, err := s.products.Update(r.Context(), actor, &p)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		actor, ok := actorOr401(w, r)
		if !ok {
			return
		}
		if err := s.products.Delete(r.Context(), actor, id); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeErr(w, apperr.ErrNotFound)
	}
}

// handleMetadata reads from the in-memory cache; writes go to the store and
// refresh the cache in the same request.
func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.metaCache.Get())
	case http.MethodPost:
		if _, ok := actorOr401(w, r); !ok {
			return
		}
		var m models.Metadata
		if err := s.decodeValid(r, &m); err != nil {
			writeErr(w, err)
			return
		}
		if err := s.metadata.Insert(r.Context(), &m); err != nil {
			writeErr(w, err)
			return
		}
		s.refreshMetadata(r)
		writeJSON(w, http.StatusCreated, m)
	default:
		writeErr(w, apperr.ErrNotFound)
	}
}

func (s *Server) handleMetadataOne(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/metadata/")
	if id == "" {
		writeErr(w, apperr.ErrValidation)
		return
	}
	switch r.Method {
	case http.MethodPut:
		if _, ok := actorOr401(w, r); !ok {
			return
		}
		var m models.Metadata
		if err := s.decodeValid(r, &m); err != nil {
			writeErr(w, err)
			return
		}
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			writeErr(w, apperr.ErrNotFound)
			return
		}
		m.ID = oid
		if err := s.metadata.Update(r.Context(), &m); err != nil {
			writeErr(w, err)
			return
		}
		s.refreshMetadata(r)
		writeJSON(w, http.StatusOK, m)
	case http.MethodDelete:
		if _, ok := actorOr401(w, r); !ok {
			return
		}
		if err := s.metadata.Delete(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		s.refreshMetadata(r)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeErr(w, apperr.ErrNotFound)
	}
}

func (s *Server) refreshMetadata(r *http.Request) {
	if err := s.metaCache.Refresh(r.Context(), s.metadata); err != nil {
		// Stale cache self-heals on the next auto refresh tick.
		return
	}
}
