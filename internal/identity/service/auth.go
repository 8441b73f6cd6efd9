package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"reservio/internal/identity/repository"
	"reservio/pkg/config"
	apperrors "reservio/pkg/errors"
	"reservio/pkg/model"
)

// Claims is the JWT payload. Subject carries the user ID.
type Claims struct {
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Login verifies the credentials and returns a signed token plus the
	// caller's identity. Bad email and bad password are indistinguishable.
	Login(ctx context.Context, email, password string) (string, *model.Identity, error)
	// Verify parses and validates a token string.
	Verify(tokenString string) (*model.Identity, error)
	Profile(ctx context.Context, userID string) (*model.User, error)
	// SeedDemoUsers provisions the built-in accounts for local use.
	SeedDemoUsers(ctx context.Context) error
}

type authService struct {
	users repository.UserRepository
	cfg   *config.Config
}

func NewAuthService(users repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{users: users, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *model.Identity, error) {
	if email == "" || password == "" {
		return "", nil, apperrors.InvalidInput("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, apperrors.Unauthorized("Invalid email or password")
		}
		return "", nil, apperrors.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, err := s.sign(user)
	if err != nil {
		s.cfg.Log.Error("Failed to sign token", "user_id", user.ID, "error", err)
		return "", nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return token, user.Identity(), nil
}

func (s *authService) Verify(tokenString string) (*model.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}

	return &model.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
	}, nil
}

func (s *authService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", userID)
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return user, nil
}

func (s *authService) sign(user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) SeedDemoUsers(ctx context.Context) error {
	demo := []struct {
		email    string
		name     string
		role     model.Role
		password string
	}{
		{"admin@example.com", "Admin User", model.RoleAdmin, "admin123"},
		{"manager@example.com", "Manager User", model.RoleManager, "manager123"},
		{"user@example.com", "Regular User", model.RoleUser, "user123"},
	}

	for _, d := range demo {
		if _, err := s.users.FindByEmail(ctx, d.email); err == nil {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := &model.User{
			Email:        d.email,
			Name:         d.name,
			Role:         d.role,
			PasswordHash: hash,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		s.cfg.Log.Info("Seeded demo user", "email", d.email, "role", d.role)
	}
	return nil
}
