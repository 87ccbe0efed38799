package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the bearer-token payload accepted when JWT auth is on.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GetUserID returns the subject claim.
func (c *SessionClaims) GetUserID() string {
	return c.Subject
}
