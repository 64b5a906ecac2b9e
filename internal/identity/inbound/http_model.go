package inbound

import "net/http"

type SignupResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (SignupResponse) Message() string {
	return "Signup successful. Please check your email for the confirmation code."
}

func (SignupResponse) StatusCode() int { return http.StatusCreated }

type ConfirmEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ConfirmEmailResponse struct{}

func (ConfirmEmailResponse) Message() string { return "Email confirmed successfully" }

type EmailRequest struct {
	Email string `json:"email"`
}

type CodeSentResponse struct{}

func (CodeSentResponse) Message() string { return "Code sent. Please check your email." }

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginGoogleRequest struct {
	IDToken string `json:"id_token"`
}

type LoginConfirmRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type RefreshRequest struct {
	Authorization string `json:"authorization"`
}

type LoginResponse struct {
	TwoFactorRequired bool   `json:"two_factor_required,omitempty"`
	TokenType         string `json:"token_type,omitempty"`
	AccessToken       string `json:"access_token,omitempty"`
	RefreshToken      string `json:"refresh_token,omitempty"`
}

func (r LoginResponse) Message() string {
	if r.TwoFactorRequired {
		return "Two-factor code sent. Please check your email."
	}
	return "Login successful"
}

type VerifyTwoFactorRequest struct {
	Code string `json:"code"`
}

type TwoFactorResponse struct{}

func (TwoFactorResponse) Message() string { return "Two-factor authentication enabled" }

type ResetPasswordRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

type ResetPasswordResponse struct{}

func (ResetPasswordResponse) Message() string { return "Password reset successfully" }
