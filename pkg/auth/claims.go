package auth

import "github.com/golang-jwt/jwt/v5"

// StaffRole scopes what a back-office token may do.
type StaffRole string

const (
	StaffRoleAdmin StaffRole = "admin"
	StaffRoleStaff StaffRole = "staff"
)

func (r StaffRole) IsValid() bool {
	switch r {
	case StaffRoleAdmin, StaffRoleStaff:
		return true
	}
	return false
}

// StaffTokenClaims represents the typed JWT issued to back-office users.
type StaffTokenClaims struct {
	Role StaffRole `json:"role"`
	jwt.RegisteredClaims
}
