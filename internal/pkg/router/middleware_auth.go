package router

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/jwt"
)

// Authenticator validates the raw Authorization header value and returns
// the session claims. Errors should be goerror values; they are rendered
// as is.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (jwt.Claims, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, authorization string) (jwt.Claims, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, authorization string) (jwt.Claims, error) {
	return f(ctx, authorization)
}

var errAuthRequired = goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)

func (r *Router) middlewareAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if r.isPublic(req.Method, matchedRoutePath(req)) {
			next.ServeHTTP(w, req)
			return
		}

		auth := r.authenticator()
		if auth == nil {
			WriteError(req.Context(), w, errAuthRequired)
			return
		}

		claims, err := auth.Authenticate(req.Context(), req.Header.Get("Authorization"))
		if err != nil {
			if setter, ok := w.(interface{ SetError(error) }); ok {
				setter.SetError(err)
			}
			WriteError(req.Context(), w, err)
			return
		}

		next.ServeHTTP(w, req.WithContext(jwt.SetAuth(req.Context(), claims)))
	})
}
