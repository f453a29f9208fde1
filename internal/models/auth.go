package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries the authenticated caller's identity. The scheduling API
// does not mint tokens; it accepts tokens issued by the main platform.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
