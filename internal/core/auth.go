package core

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edvin/agencysites/internal/model"
)

// Claims are the bearer token claims issued by the identity provider.
type Claims struct {
	Email         string   `json:"email"`
	EmailVerified bool     `json:"email_verified"`
	TenantIDs     []string `json:"tenant_ids"`
	jwt.RegisteredClaims
}

// AuthService validates admin bearer tokens. Login lives with the external
// identity provider; IssueToken exists for seeding and tests.
type AuthService struct {
	jwtSecret []byte
	jwtIssuer string
}

func NewAuthService(jwtSecret, jwtIssuer string) *AuthService {
	return &AuthService{jwtSecret: []byte(jwtSecret), jwtIssuer: jwtIssuer}
}

// IssueToken creates a signed token for the identity.
func (s *AuthService) IssueToken(id model.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:         id.Email,
		EmailVerified: id.EmailVerified,
		TenantIDs:     id.TenantIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    s.jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ValidateToken parses and verifies a token, returning the caller identity.
func (s *AuthService) ValidateToken(tokenStr string) (*model.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	return &model.Identity{
		UserID:        claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		TenantIDs:     claims.TenantIDs,
	}, nil
}
