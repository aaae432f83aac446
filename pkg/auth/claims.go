package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StudioTokenPayload captures the data available when minting a JWT.
type StudioTokenPayload struct {
	StudioUserID uuid.UUID
	Email        string
	JTI          string
}

// StudioTokenClaims represents the typed JWT issued to photographer logins.
type StudioTokenClaims struct {
	StudioUserID uuid.UUID `json:"studio_user_id"`
	Email        string    `json:"email"`
	jwt.RegisteredClaims
}
