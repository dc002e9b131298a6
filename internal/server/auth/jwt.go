// Package auth issues and verifies the HS256 tokens that authenticate sync
// clients, and hashes account passwords.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pocketorg/organizer/internal/shared"
)

// Claims carries the standard registered claims plus the user identity the
// sync endpoints attribute data to. Field names are part of the token wire
// format; clients read them without verification to display the session.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
	Login  string
}

func GenerateToken(userID, login string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Login:  login,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry and returns the claims.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.UserID == "" {
		return nil, shared.ErrorInvalidToken
	}

	return claims, nil
}
