package passcode

import (
	"errors"
	"fmt"

	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
)

var (
	ErrOtpNotFound       = errors.New("passcode: no code issued")
	ErrOtpExpired        = errors.New("passcode: code expired")
	ErrTemporarilyBanned = errors.New("passcode: temporarily banned")
	ErrTooManyAttempts   = errors.New("passcode: too many attempts")
	ErrInvalidCode       = errors.New("passcode: invalid code")
	ErrAccountNotFound   = errors.New("passcode: account not found")
	ErrAlreadyConfirmed  = errors.New("passcode: account already confirmed")
	ErrUnknownPurpose    = errors.New("passcode: unknown purpose")
)

// InvalidCodeError is a wrong guess that left Remaining attempts before
// lockout. It matches ErrInvalidCode with errors.Is.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("passcode: invalid code, %d attempts remaining", e.Remaining)
}

func (e *InvalidCodeError) Is(target error) bool { return target == ErrInvalidCode }

// Remaining extracts the attempts left from a Verify error, or -1.
func Remaining(err error) int {
	var ice *InvalidCodeError
	if errors.As(err, &ice) {
		return ice.Remaining
	}
	return -1
}

func errOtpNotFound() error {
	return goerror.NewBusinessCause(ErrOtpNotFound, "No code was requested, please request a new one", goerror.CodeNotFound)
}

func errOtpExpired() error {
	return goerror.NewBusinessCause(ErrOtpExpired, "Code expired, please request a new one", goerror.CodeInvalidFormat)
}

func errTemporarilyBanned() error {
	return goerror.NewBusinessCause(ErrTemporarilyBanned,
		"Too many wrong attempts, try again in 5 minutes", goerror.CodeForbidden)
}

func errTooManyAttempts() error {
	return goerror.NewBusinessCause(ErrTooManyAttempts,
		"Too many wrong attempts, you are blocked for 5 minutes", goerror.CodeTooManyRequest)
}

func errInvalidCode(remaining int) error {
	return goerror.NewBusinessCause(&InvalidCodeError{Remaining: remaining},
		fmt.Sprintf("Invalid code, %d attempts remaining", remaining), goerror.CodeInvalidFormat)
}

func errAccountNotFound() error {
	return goerror.NewBusinessCause(ErrAccountNotFound, "Account not found", goerror.CodeNotFound)
}

func errAlreadyConfirmed() error {
	return goerror.NewBusinessCause(ErrAlreadyConfirmed, "Email already confirmed", goerror.CodeConflict)
}
