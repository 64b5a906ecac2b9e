package entity

import "errors"

// Token rejection kinds. All of them surface as 401.
var (
	ErrTokenNotFound         = errors.New("identity: authorization header missing")
	ErrTokenBadPrefix        = errors.New("identity: authorization prefix not recognized")
	ErrTokenInvalidSignature = errors.New("identity: token signature invalid or token expired")
	ErrTokenInvalidPayload   = errors.New("identity: token payload invalid")
	ErrTokenUserMissing      = errors.New("identity: token subject missing or deleted")
	ErrTokenStale            = errors.New("identity: token issued before last password change")
)
