package auth

import (
	"github.com/angelmondragon/florale-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a staff JWT.
type AccessTokenPayload struct {
	StaffID string
	Name    string
	Role    enums.StaffRole
	PointID string
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to dashboard users.
type AccessTokenClaims struct {
	StaffID string          `json:"staff_id"`
	Name    string          `json:"name,omitempty"`
	Role    enums.StaffRole `json:"role"`
	PointID string          `json:"point_id,omitempty"`
	jwt.RegisteredClaims
}
