package auth

import "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"

// JWTVerifier validates bearer tokens.
type JWTVerifier interface {
	// VerifyToken returns domain.ErrUnauthorized for any invalid token.
	VerifyToken(tokenString string) (*models.SessionClaims, error)
	Close() error
}
