package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gosocial/internal/identity/entity"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/jwt"
)

// Authenticate checks an access token header value. It backs the router
// authentication middleware and the chat socket handshake.
func (s *Usecase) Authenticate(ctx context.Context, authorization string) (jwt.Claims, error) {
	ctx, span := s.startSpan(ctx, "Authenticate")
	defer span.End()

	clm, _, err := s.checkToken(ctx, authorization, jwt.KindAccess)
	return clm, err
}

type RefreshInput struct {
	Authorization string `validate:"required"`
}

func (s *Usecase) Refresh(ctx context.Context, in RefreshInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Refresh")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	_, acc, err := s.checkToken(ctx, in.Authorization, jwt.KindRefresh)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, acc)
}

func tokenError(cause error, msg string) error {
	return goerror.NewBusinessCause(cause, msg, goerror.CodeUnauthorized)
}

// checkToken accepts a token only when it verifies under the key of the role
// named by its prefix, its subject is a live account, and it was issued no
// earlier than the last password change (second precision).
func (s *Usecase) checkToken(ctx context.Context, authorization string, kind jwt.Kind) (jwt.Claims, *entity.Account, error) {
	authorization = strings.TrimSpace(authorization)
	if authorization == "" {
		return jwt.Claims{}, nil, tokenError(entity.ErrTokenNotFound, "Authorization token is required")
	}

	prefix, token, ok := strings.Cut(authorization, " ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return jwt.Claims{}, nil, tokenError(entity.ErrTokenBadPrefix, "Invalid authorization format")
	}

	role, ok := s.roleOfPrefix(prefix)
	if !ok {
		return jwt.Claims{}, nil, tokenError(entity.ErrTokenBadPrefix, "Invalid authorization format")
	}

	clm, err := s.jwt.Verify(role, kind, token)
	if err != nil {
		slog.WarnContext(ctx, "token verification failed", "role", role, "kind", kind, "error", err)
		return jwt.Claims{}, nil, tokenError(entity.ErrTokenInvalidSignature, "Invalid or expired token")
	}

	if clm.UserID == 0 {
		return jwt.Claims{}, nil, tokenError(entity.ErrTokenInvalidPayload, "Invalid token payload")
	}

	acc, err := s.repoDB.GetAccountByID(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return jwt.Claims{}, nil, tokenError(entity.ErrTokenUserMissing, "Account no longer exists")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by id", "account_id", clm.UserID, "error", err)
		return jwt.Claims{}, nil, goerror.NewServer(err)
	}
	if acc.Deleted() {
		return jwt.Claims{}, nil, tokenError(entity.ErrTokenUserMissing, "Account no longer exists")
	}

	if acc.Role.JWTRole() != role {
		return jwt.Claims{}, nil, tokenError(entity.ErrTokenInvalidPayload, "Invalid token payload")
	}

	if acc.ChangePasswordAt != nil && acc.ChangePasswordAt.Unix() > clm.IssuedAtUnix() {
		slog.WarnContext(ctx, "token issued before password change", "account_id", acc.ID)
		return jwt.Claims{}, nil, tokenError(entity.ErrTokenStale, "Token expired, please login again")
	}

	return clm, acc, nil
}
