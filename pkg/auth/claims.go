package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	OwnerID uuid.UUID
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to clients. OwnerID is
// the only identity the rest of the system trusts; it never comes from a
// request body.
type AccessTokenClaims struct {
	OwnerID uuid.UUID `json:"owner_id"`
	jwt.RegisteredClaims
}
