package entity

import (
	"time"

	"github.com/shandysiswandi/gosocial/internal/shared/account"
)

// Account is the identity view of a row in accounts.
type Account struct {
	ID               int64
	Email            string
	PasswordHash     string
	Name             string
	Gender           account.Gender
	PhoneCipher      string
	AvatarKey        string
	AvatarURL        string
	Role             account.Role
	Provider         account.Provider
	Confirmed        bool
	TwoFactorEnabled bool
	ChangePasswordAt *time.Time
	DeletedAt        *time.Time
	CreatedAt        time.Time
}

// Deleted reports a soft-deleted account.
func (a Account) Deleted() bool { return a.DeletedAt != nil }

// NewAccount is inserted on signup or first Google sign-in.
type NewAccount struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Gender       account.Gender
	PhoneCipher  string
	AvatarKey    string
	AvatarURL    string
	Role         account.Role
	Provider     account.Provider
	Confirmed    bool
}

// GoogleIdentity is a verified Google ID token subject.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}
