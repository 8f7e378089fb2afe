package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/apperr"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/audit"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/auth"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/cache"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/middleware"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/repository"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/service"
)

type Server struct {
	orders    *service.OrderService
	carts     *service.CartService
	products  *service.ProductService
	authSvc   *auth.Service
	metadata  repository.MetadataRepository
	metaCache *cache.MetadataCache
	auditPool *audit.WorkerPool
	validate  *validator.Validate
	addr      string
}

func NewServer(
	orders *service.OrderService,
	carts *service.CartService,
	products *service.ProductService,
	authSvc *auth.Service,
	metadata repository.MetadataRepository,
	metaCache *cache.MetadataCache,
	auditPool *audit.WorkerPool,
	addr string,
) *Server {
	return &Server{
		orders:    orders,
		carts:     carts,
		products:  products,
		authSvc:   authSvc,
		metadata:  metadata,
		metaCache: metaCache,
		auditPool: auditPool,
		validate:  validator.New(),
		addr:      addr,
	}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Order surface. Exact patterns win over the "/orders/" subtree.
	s.handleWith(mux, "/orders", s.handleOrders,
		[]string{"GET"}, []string{"GET"}, []string{"GET"})
	s.handleWith(mux, "/orders/place-order/cod", s.handlePlaceCOD,
		[]string{"POST"}, []string{"POST"}, nil)
	s.handleWith(mux, "/orders/place-order/razorpay", s.handlePlaceRazorpay,
		[]string{"POST"}, []string{"POST"}, nil)
	s.handleWith(mux, "/orders/verify-payment", s.handleVerifyPayment,
		[]string{"POST"}, []string{"POST"}, nil)
	s.handleWith(mux, "/orders/user/", s.handleUserOrders,
		nil, []string{"GET"}, nil)
	s.handleWith(mux, "/orders/", s.handleOrderOne,
		[]string{"PUT", "DELETE"}, []string{"GET", "PUT", "DELETE"}, nil)
	s.handleWith(mux, "/admin/orders/", s.handleAdminOrderDelete,
		[]string{"DELETE"}, []string{"DELETE"}, []string{"DELETE"})

	// Catalog.
	s.handleWith(mux, "/products", s.handleProducts,
		[]string{"POST"}, []string{"POST"}, []string{"POST"})
	s.handleWith(mux, "/products/", s.handleProductOne,
		[]string{"PUT", "DELETE"}, []string{"PUT", "DELETE"}, []string{"PUT", "DELETE"})
	s.handleWith(mux, "/metadata", s.handleMetadata,
		[]string{"POST"}, []string{"POST"}, []string{"POST"})
	s.handleWith(mux, "/metadata/", s.handleMetadataOne,
		[]string{"PUT", "DELETE"}, []string{"PUT", "DELETE"}, []string{"PUT", "DELETE"})

	// Cart.
	s.handleWith(mux, "/cart", s.handleCart,
		nil, []string{"GET"}, nil)
	s.handleWith(mux, "/cart/add", s.handleCartAdd,
		nil, []string{"POST"}, nil)
	s.handleWith(mux, "/cart/update", s.handleCartUpdate,
		nil, []string{"PUT"}, nil)
	s.handleWith(mux, "/cart/remove", s.handleCartRemove,
		nil, []string{"POST"}, nil)

	// Auth.
	s.handleWith(mux, "/auth/register", s.handleRegister, nil, nil, nil)
	s.handleWith(mux, "/auth/login", s.handleLogin, nil, nil, nil)
	s.handleWith(mux, "/auth/logout", s.handleLogout, nil, []string{"POST"}, nil)
	s.handleWith(mux, "/auth/me", s.handleMe, nil, []string{"GET"}, nil)
}

func (s *Server) Run() error {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	log.Printf("Server listen on %s...", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

// handleWith wires the middleware chain: session resolution first so the
// audit log and admin gate see the actor.
func (s *Server) handleWith(mux *http.ServeMux, path string,
	handlerFunc http.HandlerFunc,
	logMethods, authMethods, adminMethods []string,
) {
	finalHandler := middleware.SessionMiddleware(s.authSvc, authMethods...)(
		middleware.AdminMiddleware(adminMethods...)(
			middleware.LogMiddleware(s.auditPool, logMethods...)(
				handlerFunc,
			),
		),
	)
	mux.Handle(path, finalHandler)
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// writeErr maps domain errors to status codes. Internal failures are logged
// server-side and reported without detail.
func writeErr(w http.ResponseWriter, err error) {
	code := apperr.HTTPStatus(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		msg = "internal server error"
	}
	if errors.Is(err, apperr.ErrInvalidSignature) {
		msg = apperr.ErrInvalidSignature.Error()
	}
	writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Server) decodeValid(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.ErrValidation
	}
	if err := s.validate.Struct(dst); err != nil {
		return apperr.ErrValidation
	}
	return nil
}

func actorOr401(w http.ResponseWriter, r *http.Request) (auth.Actor, bool) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		writeErr(w, apperr.ErrUnauthorized)
		return auth.Actor{}, false
	}
	return actor, true
}
