// Package auth issues and validates the short-lived session JWTs that
// authenticate dashboard (browser) callers. CLI credentials are opaque
// API tokens handled elsewhere; JWTs are only for the interactive session
// that confirms device codes.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSessionToken = errors.New("invalid session token")

// Claims includes the registered claims plus the authenticated user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateSessionToken mints an HS256 JWT for userID valid for
// validityDuration.
func GenerateSessionToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	return token.SignedString(secretKey)
}

// GetUserIDFromSessionToken validates the token signature and expiry and
// returns the embedded user id.
func GetUserIDFromSessionToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", ErrInvalidSessionToken
	}

	if !token.Valid {
		return "", ErrInvalidSessionToken
	}

	return claims.UserID, nil
}
