package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"pharmacy-service/internal/domain"
	"pharmacy-service/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Role          string
	UserID        string
	Password      string
	Email         string
	Age           int
	ContactNumber string
	City          string
	State         string
	Pincode       string
}

type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthService struct {
	store   repository.Store
	secret  []byte
	ttl     time.Duration
	revoker TokenRevoker
	now     func() time.Time
}

func NewAuthService(store repository.Store, secret string, ttl time.Duration, revoker TokenRevoker) *AuthService {
	return &AuthService{
		store:   store,
		secret:  []byte(secret),
		ttl:     ttl,
		revoker: revoker,
		now:     time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return nil, fmt.Errorf("%w: role must be Admin or Customer", domain.ErrInvalidInput)
	}
	userID := strings.TrimSpace(in.UserID)
	if userID == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: user id and password are required", domain.ErrInvalidInput)
	}
	if in.Age < 0 {
		return nil, fmt.Errorf("%w: invalid age", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		UserID:        userID,
		PasswordHash:  string(hash),
		Role:          role,
		Email:         in.Email,
		Age:           in.Age,
		ContactNumber: in.ContactNumber,
		City:          in.City,
		State:         in.State,
		Pincode:       in.Pincode,
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return nil, domain.Storage("register user", err)
	}
	log.Printf("Registered %s %s", u.Role, u.UserID)
	return u, nil
}

// Login checks the credentials for the given role and returns a signed token.
func (s *AuthService) Login(ctx context.Context, role, userID, password string) (string, *domain.User, error) {
	r, ok := domain.ParseRole(role)
	if !ok {
		return "", nil, domain.ErrInvalidCredentials
	}
	u, err := s.store.Users().FindByUserID(ctx, userID)
	if err != nil {
		return "", nil, domain.Storage("login", err)
	}
	if u == nil || u.Role != r {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *AuthService) issueToken(u *domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token and returns its claims. Revoked tokens are rejected.
func (s *AuthService) ParseToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}

	if s.revoker != nil && claims.ID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			log.Printf("token revocation check failed: %v", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: token revoked", domain.ErrUnauthorized)
		}
	}
	return claims, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	if s.revoker == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, userID, password string) error {
	_, err := s.Register(ctx, RegisterInput{Role: string(domain.RoleAdmin), UserID: userID, Password: password})
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	return err
}
