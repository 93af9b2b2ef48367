package claims

import (
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/user"
	"github.com/golang-jwt/jwt/v4"
)

// Auth claims carried by the authorization token.
type Auth struct {
	jwt.RegisteredClaims
	Role   user.Role `json:"role"`
	UserID int       `json:"user_id"`
}
