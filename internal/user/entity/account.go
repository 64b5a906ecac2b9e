package entity

import (
	"time"

	"github.com/shandysiswandi/gosocial/internal/shared/account"
)

// Account is the user module view of a row in accounts.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Gender       account.Gender
	PhoneCipher  string
	AvatarKey    string
	AvatarURL    string
	Provider     account.Provider
	TempEmail    string
	DeletedAt    *time.Time
}

func (a Account) Deleted() bool { return a.DeletedAt != nil }

// ProfileUpdate carries the full set of editable columns.
type ProfileUpdate struct {
	ID          int64
	Name        string
	Gender      account.Gender
	PhoneCipher string
	AvatarKey   string
	AvatarURL   string
}

type Friend struct {
	ID        int64
	Name      string
	AvatarURL string
}

// ProfileView is the per viewer counter kept on an owner's profile.
type ProfileView struct {
	TotalViews int64
	// ViewedAt holds the most recent views, oldest first.
	ViewedAt []time.Time
}
