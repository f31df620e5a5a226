// Package auth holds the stateless credential helpers used by the auth flow:
// HS256 JWT minting/validation and bcrypt password hashing.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/contacthub/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. Access tokens authenticate API requests; verification and
// reset tokens are single-purpose links delivered by email. A token minted
// for one purpose is never accepted for another.
const (
	PurposeAccess        = "access"
	PurposeVerifyEmail   = "verify_email"
	PurposePasswordReset = "password_reset"
)

// Claims carries the registered claims plus the user identifier and the
// purpose the token was minted for.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"uid"`
	Purpose string `json:"purpose"`
}

// GenerateToken mints an HS256 token for userID with the given purpose and
// validity window.
func GenerateToken(userID, purpose string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:  userID,
		Purpose: purpose,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken validates tokenString and returns the user ID it carries.
// Expired tokens yield common.ErrTokenExpired; a purpose mismatch or any
// other validation failure yields common.ErrInvalidToken.
func GetUserIDFromToken(tokenString, purpose string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Purpose != purpose || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
