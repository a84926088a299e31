package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session token payload. The account id travels as a string
// and is parsed back into a uuid by the auth middleware.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SignJWT issues the HS256 token that auth handlers set as the wh_token
// cookie.
func SignJWT(secret, accountID, role string, expiresMin int) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: accountID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiresMin) * time.Minute)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
