// Package account holds the enumerations stored on the accounts table and
// shared by every module that reads it.
package account

import "github.com/shandysiswandi/gosocial/internal/pkg/jwt"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// JWTRole maps the stored role to the key pair that signs its tokens.
func (r Role) JWTRole() jwt.Role {
	if r == RoleAdmin {
		return jwt.RoleAdmin
	}
	return jwt.RoleUser
}

// RoleFromJWT is the inverse of JWTRole.
func RoleFromJWT(r jwt.Role) Role {
	if r == jwt.RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Provider records how the account signs in.
type Provider string

const (
	ProviderSystem Provider = "system"
	ProviderGoogle Provider = "google"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }
