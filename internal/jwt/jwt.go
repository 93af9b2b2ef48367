package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/claims"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/user"
	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken is returned for tokens that fail signature or claims checks.
var ErrInvalidToken = errors.New("invalid token")

// BuildString creates a JWT string for the given user and token expiration time.
func BuildString(userID int, role user.Role, secret string, tokenExp time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims.Auth{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenExp)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
		Role:   role,
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Bearer %s", tokenString), nil
}

// Parse extracts the auth claims from a JWT token.
func Parse(tokenString, secret string) (*claims.Auth, error) {
	c := new(claims.Auth)

	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, c,
		func(token *jwt.Token) (interface{}, error) {
			// Verify that the token method is HS256
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf(
					"unexpected signing method: %v", token.Header["alg"],
				)
			}
			return []byte(secret), nil
		})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return c, nil
}
