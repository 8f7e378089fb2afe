package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/audit"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/auth"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "erimuga_session"

// SessionMiddleware resolves the session cookie into an actor on every
// request. Requests using one of the listed methods are rejected with 401
// when no valid session exists; other methods pass through anonymously.
func SessionMiddleware(authSvc *auth.Service, methods ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var actor auth.Actor
			resolved := false
			if cookie, err := r.Cookie(SessionCookie); err == nil {
				if a, err := authSvc.Resolve(r.Context(), cookie.Value); err == nil {
					actor = a
					resolved = true
				}
			}
			if !resolved && methodInList(r.Method, methods) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if resolved {
				r = r.WithContext(auth.WithActor(r.Context(), actor))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminMiddleware rejects the listed methods unless the resolved actor is an
// admin. It must run after SessionMiddleware.
func AdminMiddleware(methods ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if methodInList(r.Method, methods) {
				actor, ok := auth.ActorFrom(r.Context())
				if !ok {
					writeError(w, http.StatusUnauthorized, "unauthorized")
					return
				}
				if !actor.IsAdmin {
					writeError(w, http.StatusForbidden, "admin required")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LogMiddleware logs the listed methods and feeds them to the audit pool.
func LogMiddleware(auditPool *audit.WorkerPool, methods ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if methodInList(r.Method, methods) {
				log.Printf("[%s] %s", r.Method, r.URL.Path)
				if auditPool != nil {
					actorID := ""
					if a, ok := auth.ActorFrom(r.Context()); ok {
						actorID = a.UserID
					}
					auditPool.Log(audit.Event{
						Timestamp: time.Now().UTC(),
						Endpoint:  r.URL.Path,
						ActorID:   actorID,
						Message:   r.Method + " " + r.URL.String(),
					})
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func methodInList(method string, methods []string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
