package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hasibdev/blog-api/internal/config"
)

// Verification failures collapse into exactly two kinds: an expired token
// (well-formed signature, expiry passed) and everything else. Callers map
// them to different remediations, so the distinction is part of the contract.
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenService issues and verifies the signed access/refresh token pair.
// Access and refresh tokens use separate secrets so leaking one class does
// not compromise the other. Issuing is pure: nothing is persisted here.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
	}
}

func (t *TokenService) IssueAccessToken(userID string) (string, error) {
	return issue(userID, t.accessSecret, t.accessExpiry)
}

func (t *TokenService) IssueRefreshToken(userID string) (string, error) {
	return issue(userID, t.refreshSecret, t.refreshExpiry)
}

// VerifyAccessToken returns the user id carried by the token, ErrTokenExpired
// or ErrTokenInvalid.
func (t *TokenService) VerifyAccessToken(token string) (string, error) {
	return verify(token, t.accessSecret)
}

func (t *TokenService) VerifyRefreshToken(token string) (string, error) {
	return verify(token, t.refreshSecret)
}

func issue(userID string, secret []byte, expiry time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func verify(tokenStr string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
