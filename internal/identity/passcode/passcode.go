// Package passcode issues and verifies the short codes mailed to users for
// email confirmation, password reset, two-factor login and email change.
//
// Each (account, purpose) pair has at most one live code. A code is fresh for
// CodeTTL after issuance. MaxAttempts wrong guesses start a lockout of
// LockoutDuration during which neither Issue nor Verify is evaluated.
package passcode

import (
	"context"
	"time"
)

const (
	CodeTTL         = 2 * time.Minute
	LockoutDuration = 5 * time.Minute
	MaxAttempts     = 5
)

// Purpose selects which flow a code guards.
type Purpose string

const (
	PurposeEmailConfirm  Purpose = "email_confirm"
	PurposePasswordReset Purpose = "password_reset"
	PurposeTwoFactor     Purpose = "two_factor"
	PurposeEmailChange   Purpose = "email_change"
)

func (p Purpose) Valid() bool {
	switch p {
	case PurposeEmailConfirm, PurposePasswordReset, PurposeTwoFactor, PurposeEmailChange:
		return true
	default:
		return false
	}
}

func (p Purpose) String() string { return string(p) }

// Record is the stored state of one code.
type Record struct {
	AccountID      int64
	Purpose        Purpose
	CodeHash       string
	IssuedAt       time.Time
	LockoutAt      *time.Time
	FailedAttempts int
}

// Locked reports whether a lockout started less than LockoutDuration before now.
func (r Record) Locked(now time.Time) bool {
	return r.LockoutAt != nil && now.Sub(*r.LockoutAt) < LockoutDuration
}

// Expired reports whether the code is older than CodeTTL.
func (r Record) Expired(now time.Time) bool {
	return now.Sub(r.IssuedAt) > CodeTTL
}

// Account is what Issue needs to know about the code's owner.
type Account struct {
	ID        int64
	Email     string
	Name      string
	Confirmed bool
}

// Failure is the counter state after a wrong guess.
type Failure struct {
	Attempts int
	Locked   bool
}

// Store persists records. Each method is a single statement so concurrent
// callers never observe a half-applied transition.
type Store interface {
	// GetAccount returns goerror.ErrNotFound for a missing or deleted account.
	GetAccount(ctx context.Context, id int64) (Account, error)
	// GetCode returns goerror.ErrNotFound when no record exists.
	GetCode(ctx context.Context, accountID int64, p Purpose) (Record, error)
	// SaveCode inserts or overwrites the record, clearing lockout and attempts.
	SaveCode(ctx context.Context, r Record) error
	// RegisterFailure increments the counter, or, when it reaches limit,
	// resets it and sets lockout_at = now.
	RegisterFailure(ctx context.Context, accountID int64, p Purpose, limit int, now time.Time) (Failure, error)
	// DeleteCode consumes the record only while it still holds codeHash and
	// returns goerror.ErrNotFound when another call got there first.
	DeleteCode(ctx context.Context, accountID int64, p Purpose, codeHash string) error
}

// Delivery is a plaintext code on its way to the user.
type Delivery struct {
	AccountID int64
	To        string
	Name      string
	Purpose   Purpose
	Code      string
}

// Dispatcher hands a code to the notifier.
type Dispatcher interface {
	Dispatch(ctx context.Context, d Delivery) error
}

// IssueInput names the account and purpose. Destination defaults to the
// account email.
type IssueInput struct {
	AccountID   int64
	Purpose     Purpose
	Destination string
}

type VerifyInput struct {
	AccountID int64
	Purpose   Purpose
	Code      string
}

type VerifyResult struct {
	AccountID  int64
	Purpose    Purpose
	VerifiedAt time.Time
}
