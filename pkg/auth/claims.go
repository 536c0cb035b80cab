package auth

import (
	"github.com/drapeline/drapeline-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT. Token
// issuance lives with the external identity collaborator; this package only
// defines the shape both sides agree on.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	VendorID *uuid.UUID
	Role     enums.Role
	JTI      string
}

// AccessTokenClaims represents the typed JWT presented by clients. VendorID
// is set only for vendor principals and drives vendor-scoped projection.
type AccessTokenClaims struct {
	UserID   uuid.UUID  `json:"user_id"`
	VendorID *uuid.UUID `json:"vendor_id,omitempty"`
	Role     enums.Role `json:"role"`
	jwt.RegisteredClaims
}
