package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ScopeDevice grants read access to the plug API.
const ScopeDevice = "device"

// Claims is the JWT payload accepted by the plug service.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Service issues and validates HS256 tokens with a shared secret.
type Service struct {
	secret    []byte
	expiresIn time.Duration
}

// NewService returns a token service. Non-positive expiresIn defaults to one hour.
func NewService(secret string, expiresIn time.Duration) *Service {
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}
	return &Service{secret: []byte(secret), expiresIn: expiresIn}
}

// Issue signs a token for subject with the given scope.
func (s *Service) Issue(subject, scope string) (string, error) {
	if subject == "" {
		return "", errors.New("token: subject is required")
	}
	if len(s.secret) == 0 {
		return "", errors.New("token: secret is empty")
	}

	now := time.Now().UTC()
	claims := Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate verifies signature and expiry and decodes the claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("token: unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := parsed.Claims.(*Claims); ok && parsed.Valid {
		return claims, nil
	}
	return nil, errors.New("token: invalid claims")
}
