package domain

import "github.com/golang-jwt/jwt/v5"

// Claims carried by the ops API bearer token.
type Claims struct {
	Subject string `json:"sub"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}
