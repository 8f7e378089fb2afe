package auth

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/apperr"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/repository"
)

// Service implements session-based authentication: passwords hashed with
// bcrypt, sessions stored server-side and referenced by an opaque cookie
// token.
type Service struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	ttl      time.Duration
}

func NewService(users repository.UserRepository, sessions repository.SessionRepository, ttl time.Duration) *Service {
	return &Service{users: users, sessions: sessions, ttl: ttl}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", apperr.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", apperr.ErrValidation)
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email %s already registered", apperr.ErrConflict, email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Cart:         []models.CartItem{},
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues a fresh session. Wrong email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}

	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID.Hex(),
		IsAdmin:   user.IsAdmin,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Resolve turns a session token into an actor. Expired or unknown tokens
// resolve to ErrUnauthorized.
func (s *Service) Resolve(ctx context.Context, token string) (Actor, error) {
	if token == "" {
		return Actor{}, fmt.Errorf("%w: no session", apperr.ErrUnauthorized)
	}
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return Actor{}, err
	}
	if session == nil || session.Expired(time.Now().UTC()) {
		return Actor{}, fmt.Errorf("%w: session expired", apperr.ErrUnauthorized)
	}
	return Actor{UserID: session.UserID, IsAdmin: session.IsAdmin}, nil
}

// StartSessionCleanup deletes expired sessions every interval until ctx is
// cancelled. Run it in a goroutine.
func (s *Service) StartSessionCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.sessions.DeleteExpired(ctx, time.Now().UTC()); err != nil {
				log.Printf("auth: session cleanup: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) User(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", apperr.ErrNotFound, userID)
	}
	return user, nil
}
