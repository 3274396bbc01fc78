package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/HammerMeetNail/chatcore/internal/models"
)

const (
	bcryptCost        = 12
	minPasswordLength = 8
	tokenIssuer       = "chatcore"
	guestAttempts     = 5
)

type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AuthService struct {
	users  *UserService
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
	newID  func() string
}

func NewAuthService(users *UserService, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		cost:   bcryptCost,
		now:    utcNow,
		newID:  newUUID,
	}
}

// SetBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func (s *AuthService) SetBcryptCost(cost int) {
	s.cost = cost
}

func (s *AuthService) HashPassword(password string) (string, error) {
	cost := s.cost
	if cost == 0 {
		cost = bcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) VerifyPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if len(password) < minPasswordLength {
		return nil, ErrInvalidInput.WithMessage("password must be at least 8 characters")
	}
	if err := ValidateUsername(strings.TrimSpace(username)); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, models.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
	})
}

// RegisterGuest creates a password-less account named guest-xxxxxxxx.
func (s *AuthService) RegisterGuest(ctx context.Context) (*models.User, error) {
	var lastErr error
	for i := 0; i < guestAttempts; i++ {
		suffix := strings.ReplaceAll(s.newID(), "-", "")
		if len(suffix) > 8 {
			suffix = suffix[:8]
		}
		user, err := s.users.Create(ctx, models.CreateUserParams{
			Username: "guest-" + suffix,
			IsGuest:  true,
		})
		if errors.Is(err, ErrUsernameTaken) {
			lastErr = err
			continue
		}
		return user, err
	}
	return nil, lastErr
}

// Authenticate reports ErrInvalidCredentials for an unknown user, a guest
// account or a wrong password alike.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == "" || !s.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) IssueToken(user *models.User) (*Token, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}
	return &Token{Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
