package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"docrecon/internal/config"
	"docrecon/internal/domain"
)

const accessAudience = "access"

// Claims represents the JWT claims of a reviewer.
type Claims struct {
	jwt.RegisteredClaims
	Email string          `json:"email"`
	Role  domain.UserRole `json:"role"`
}

// IssuedToken is a signed access token.
type IssuedToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthService validates reviewer access tokens. Tokens are normally minted by
// an upstream identity service sharing the secret; IssueToken backs the
// operator CLI and tests.
type AuthService interface {
	IssueToken(subject, email string, role domain.UserRole) (*IssuedToken, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	cfg config.JWTConfig
	now func() time.Time
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(cfg config.JWTConfig) AuthService {
	return &authService{cfg: cfg, now: time.Now}
}

func (s *authService) IssueToken(subject, email string, role domain.UserRole) (*IssuedToken, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, fmt.Errorf("issuing token: subject is required")
	}
	if role != domain.RoleAdmin && role != domain.RoleReviewer {
		return nil, fmt.Errorf("issuing token: unknown role %q", role)
	}

	now := s.now()
	expiry := now.Add(s.cfg.AccessTokenExpiry)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{accessAudience},
		},
		Email: email,
		Role:  role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}
	return &IssuedToken{AccessToken: signed, ExpiresAt: expiry}, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithAudience(accessAudience),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
