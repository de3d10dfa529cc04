package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/yamess/authService/internal/auth/service TokenGenerator

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yamess/authService/internal/auth/domain"
	autherrors "github.com/yamess/authService/internal/errors"
)

// TokenGenerator issues and verifies bearer tokens.
type TokenGenerator interface {
	Issue(user *domain.User) (string, time.Time, error)
	Decode(tokenString string) (*JWTCustomClaims, error)
	Expiry() time.Duration
}

// JWTCustomClaims is the claims schema carried by every access token.
// The role flags are a snapshot taken at issuance; authorization
// decisions reload the user and never trust them.
type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	IsActive bool   `json:"is_active"`
}

type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	expiry time.Duration
}

// NewTokenService builds a token service signing with the named
// HMAC algorithm (HS256/HS384/HS512) and a minutes-granularity TTL.
func NewTokenService(secret, algorithm string, expiryMinutes int) (*TokenService, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not symmetric", algorithm)
	}

	return &TokenService{
		secret: []byte(secret),
		method: method,
		expiry: time.Duration(expiryMinutes) * time.Minute,
	}, nil
}

// Issue signs a token carrying the user's identity snapshot, valid for
// the configured TTL.
func (ts *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ts.expiry)

	claims := JWTCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		IsActive: user.IsActive,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(ts.method, claims).SignedString(ts.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// Decode verifies signature and expiry and returns the claims. It
// fails with ErrExpiredCredential past the expiry and with
// ErrMalformedCredential for anything else wrong with the token,
// including missing identity claims.
func (ts *TokenService) Decode(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != ts.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherrors.ErrExpiredCredential
		}
		return nil, autherrors.ErrMalformedCredential
	}

	if !token.Valid || claims.UserID == 0 || claims.Username == "" {
		return nil, autherrors.ErrMalformedCredential
	}

	return claims, nil
}

// Expiry returns the configured token lifetime.
func (ts *TokenService) Expiry() time.Duration {
	return ts.expiry
}
